// Package sizing sizes station storage from ware flows and recommends
// storage modules to cover any shortfall.
package sizing

import (
	"context"
	"sort"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
	"github.com/DrSkyle/stowage/pkg/station"
)

// Catalog is the static data the calculator reads.
type Catalog interface {
	ModuleSource
	Modules() []*catalog.Module
	Faction(id string) (catalog.Faction, bool)
}

// Calculator is the query surface of the sizing engine. Every call
// recomputes from its inputs.
type Calculator struct {
	catalog     Catalog
	recommender *Recommender
}

// NewCalculator builds a Calculator. rules may be nil.
func NewCalculator(c Catalog, rules CandidateRules) *Calculator {
	return &Calculator{
		catalog:     c,
		recommender: NewRecommender(c, rules),
	}
}

// CalculateStorageNeeds classifies flows and sums them per cargo type and direction.
func (c *Calculator) CalculateStorageNeeds(flows []flow.WareFlow, r config.RetentionConfig) []Need {
	return AggregateNeeds(ClassifyAll(flows, r))
}

// CalculateStorageRecommendations compares needs against installed capacity
// and recommends modules for every cargo type that falls short.
func (c *Calculator) CalculateStorageRecommendations(needs []Need, instances []station.Instance, f Filter) []Recommendation {
	order, totals := neededByCargo(needs)
	available := AvailableCapacity(instances)

	recs := []Recommendation{}
	for _, ct := range order {
		needed := totals[ct]
		short := ComputeShortfall(needed, available.Of(ct))
		if short <= 0 {
			continue
		}
		recs = append(recs, Recommendation{
			CargoType:       ct,
			NeededVolume:    needed,
			AvailableVolume: available.Of(ct),
			Shortfall:       short,
			Modules:         c.recommender.Recommend(ct, short, f),
		})
	}
	return recs
}

// CalculateStorageCargoGroups builds the per cargo type view: rows, totals,
// capacity, shortfall and, when short, recommended modules.
func (c *Calculator) CalculateStorageCargoGroups(flows []flow.WareFlow, r config.RetentionConfig, instances []station.Instance, f Filter) []CargoGroup {
	groups := GroupRows(ClassifyAll(flows, r))
	available := AvailableCapacity(instances)

	for i := range groups {
		g := &groups[i]
		g.AvailableVolume = available.Of(g.CargoType)
		g.Shortfall = ComputeShortfall(g.TotalVolume, g.AvailableVolume)
		g.RecommendedModules = []RecommendedModule{}
		if g.Shortfall > 0 {
			g.RecommendedModules = c.recommender.Recommend(g.CargoType, g.Shortfall, f)
		}
	}
	return groups
}

// GetFilteredStorageModules lists the recommendation candidates for ct.
func (c *Calculator) GetFilteredStorageModules(ct catalog.CargoType, f Filter) []*catalog.Module {
	return c.recommender.Candidates(ct, f)
}

// GetAvailableStorageFactions lists the makers of storage modules, sorted
// by name. Storage modules without usable cargo still count. Makers without
// a catalog name are left out.
func (c *Calculator) GetAvailableStorageFactions() []catalog.Faction {
	seen := make(map[string]bool)
	var out []catalog.Faction
	for _, m := range c.catalog.Modules() {
		if m.Type != catalog.ModuleStorage || m.Maker == "" || seen[m.Maker] {
			continue
		}
		seen[m.Maker] = true
		f, ok := c.catalog.Faction(m.Maker)
		if !ok || f.Name == "" {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Batch flattens the recommendations of every short group into station
// additions.
func Batch(groups []CargoGroup) []station.Addition {
	var batch []station.Addition
	for _, g := range groups {
		if g.Shortfall <= 0 {
			continue
		}
		for _, rm := range g.RecommendedModules {
			batch = append(batch, station.Addition{ModuleID: rm.ModuleID, Count: rm.Count})
		}
	}
	return batch
}

// AddRecommendedModulesToStation merges every recommendation of short groups
// into st as one batch.
func AddRecommendedModulesToStation(ctx context.Context, groups []CargoGroup, st *station.Station) (station.MergeResult, error) {
	return st.Merge(ctx, Batch(groups))
}
