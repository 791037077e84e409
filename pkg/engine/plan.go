package engine

import (
	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
	"github.com/DrSkyle/stowage/pkg/engine/report"
	"github.com/DrSkyle/stowage/pkg/engine/sizing"
	"github.com/DrSkyle/stowage/pkg/station"
)

// Flow is a ware flow as shown to users.
type Flow struct {
	Ware      string            `json:"ware"`
	Name      string            `json:"name"`
	CargoType catalog.CargoType `json:"cargo_type"`
	Amount    float64           `json:"amount"`
}

// Plan is one recompute of the station storage picture. It is tied to the
// station version it was computed from.
type Plan struct {
	Version         uint64                  `json:"version"`
	Retention       config.RetentionConfig  `json:"retention"`
	Filter          sizing.Filter           `json:"filter"`
	Workforce       flow.WorkforceBalance   `json:"workforce"`
	Flows           []Flow                  `json:"flows"`
	Needs           []sizing.Need           `json:"needs"`
	Recommendations []sizing.Recommendation `json:"recommendations"`
	Groups          []report.Group          `json:"groups"`
}

// Short reports whether any cargo type lacks capacity.
func (p *Plan) Short() bool {
	return len(p.Recommendations) > 0
}

// CargoGroups returns the groups without their status.
func (p *Plan) CargoGroups() []sizing.CargoGroup {
	out := make([]sizing.CargoGroup, len(p.Groups))
	for i, g := range p.Groups {
		out[i] = g.CargoGroup
	}
	return out
}

// Additions is the merge batch Apply would send to the station.
func (p *Plan) Additions() []station.Addition {
	return sizing.Batch(p.CargoGroups())
}

// Summary is the exportable view of the plan.
func (p *Plan) Summary() report.Summary {
	return report.Summary{
		Version:   p.Version,
		Retention: p.Retention,
		Filter:    p.Filter,
		Workforce: p.Workforce,
		Groups:    p.Groups,
	}
}

func (e *Engine) withStatus(groups []sizing.CargoGroup) []report.Group {
	out := make([]report.Group, len(groups))
	for i, g := range groups {
		out[i] = report.Group{
			CargoGroup: g,
			Status:     e.config.Status.Classify(g.Shortfall, g.TotalVolume),
		}
	}
	return out
}

func flowRows(flows []flow.WareFlow) []Flow {
	out := make([]Flow, 0, len(flows))
	for _, f := range flows {
		if f.Ware == nil {
			continue
		}
		out = append(out, Flow{
			Ware:      f.Ware.ID,
			Name:      f.Ware.Name,
			CargoType: f.Ware.CargoType(),
			Amount:    f.Amount,
		})
	}
	return out
}
