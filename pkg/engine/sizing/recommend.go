package sizing

import (
	"strings"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/fit"
)

// ModuleSource lists storage modules in catalog order.
type ModuleSource interface {
	StorageModules() []*catalog.Module
}

// CandidateRules vetoes storage modules before selection.
type CandidateRules interface {
	Excludes(m *catalog.Module) bool
}

// FilterModules keeps storage modules of cargo type ct that pass f.
// Catalog order is preserved.
func FilterModules(modules []*catalog.Module, ct catalog.CargoType, f Filter) []*catalog.Module {
	var out []*catalog.Module
	for _, m := range modules {
		if !m.IsStorage() || m.Cargo.Type != ct {
			continue
		}
		if f.FactionID != "" && m.Maker != f.FactionID {
			continue
		}
		if f.Sizes != nil && !f.Sizes.Allows(m.ID) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Allows reports whether id carries the tag of an enabled size. With every
// size disabled nothing is allowed.
func (s SizeFilter) Allows(id string) bool {
	return (s.Small && strings.Contains(id, catalog.SizeSmall.Tag())) ||
		(s.Medium && strings.Contains(id, catalog.SizeMedium.Tag())) ||
		(s.Large && strings.Contains(id, catalog.SizeLarge.Tag()))
}

// Recommender chooses storage modules for a shortfall.
type Recommender struct {
	modules ModuleSource
	rules   CandidateRules
}

// NewRecommender returns a Recommender over src. rules may be nil.
func NewRecommender(src ModuleSource, rules CandidateRules) *Recommender {
	return &Recommender{modules: src, rules: rules}
}

// Candidates returns the modules eligible for cargo type ct under f.
func (r *Recommender) Candidates(ct catalog.CargoType, f Filter) []*catalog.Module {
	cands := FilterModules(r.modules.StorageModules(), ct, f)
	if r.rules == nil {
		return cands
	}
	kept := make([]*catalog.Module, 0, len(cands))
	for _, m := range cands {
		if !r.rules.Excludes(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

// Recommend covers need with a single module type. The result is empty
// when need is not positive or no candidate survives filtering.
func (r *Recommender) Recommend(ct catalog.CargoType, need float64, f Filter) []RecommendedModule {
	mods := r.Candidates(ct, f)
	cands := make([]fit.Candidate, 0, len(mods))
	for _, m := range mods {
		cands = append(cands, fit.Candidate{ID: m.ID, Name: m.Name, Capacity: m.Cargo.Max})
	}

	plan, ok := fit.Choose(cands, need)
	if !ok {
		return []RecommendedModule{}
	}
	return []RecommendedModule{{
		ModuleID:      plan.Candidate.ID,
		ModuleName:    plan.Candidate.Name,
		Capacity:      plan.Candidate.Capacity,
		Count:         plan.Count,
		TotalCapacity: plan.TotalCapacity(),
	}}
}

// FilterFromConfig converts the configured filter. AnySize turns size
// filtering off; otherwise the three flags are used as given.
func FilterFromConfig(c config.FilterConfig) Filter {
	f := Filter{FactionID: c.Faction}
	if !c.AnySize {
		f.Sizes = &SizeFilter{Small: c.Small, Medium: c.Medium, Large: c.Large}
	}
	return f
}
