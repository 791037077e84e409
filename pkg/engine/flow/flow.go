// Package flow derives hourly ware flows from a station module list.
package flow

import (
	"math"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/station"
)

// WareFlow is the net hourly amount of a ware. Negative amounts are
// consumed, positive amounts are produced.
type WareFlow struct {
	Ware   *catalog.Ware `json:"-"`
	Amount float64       `json:"amount"`
}

// Source computes ware flows for a module list.
type Source interface {
	ComputeWareFlows(instances []station.Instance, sunlight, workforce float64) []WareFlow
}

// WareLookup resolves ware ids.
type WareLookup interface {
	Ware(id string) (*catalog.Ware, bool)
}

// ResourceCalculator is the catalog driven Source.
type ResourceCalculator struct {
	Wares WareLookup
}

// NewResourceCalculator returns a calculator resolving wares through w.
func NewResourceCalculator(w WareLookup) *ResourceCalculator {
	return &ResourceCalculator{Wares: w}
}

const epsilon = 1e-9

// ComputeWareFlows sums production, recipe inputs and habitat upkeep per
// ware. Sunlight is in percent; workforce is the allocated crew.
// Wares netting to zero are omitted.
func (rc *ResourceCalculator) ComputeWareFlows(instances []station.Instance, sunlight, workforce float64) []WareFlow {
	bal := Balance(instances, false, workforce, false)
	ratio := bal.ProductionRatio()
	occupancy := bal.Occupancy()

	acc := newAccumulator()
	for _, in := range instances {
		if in.Module == nil || in.Count <= 0 {
			continue
		}
		m := in.Module
		count := float64(in.Count)

		switch m.Type {
		case catalog.ModuleProduction:
			ware, ok := rc.Wares.Ware(m.Product)
			if !ok {
				continue
			}
			recipe, ok := ware.Recipe(m.Method)
			if !ok {
				continue
			}
			cycles := 3600 / recipe.Time * count
			out := recipe.Amount * cycles * (1 + recipe.WorkBonus*ratio)
			if recipe.Sunlight {
				out *= sunlight / 100
			}
			acc.add(ware, out)
			for _, input := range recipe.Inputs {
				if w, ok := rc.Wares.Ware(input.Ware); ok {
					acc.add(w, -input.Amount*cycles)
				}
			}

		case catalog.ModuleHabitat:
			for _, c := range m.Consumption {
				if w, ok := rc.Wares.Ware(c.Ware); ok {
					acc.add(w, -c.Amount*count*occupancy)
				}
			}
		}
	}
	return acc.flows()
}

type accumulator struct {
	order []*catalog.Ware
	sums  map[string]float64
}

func newAccumulator() *accumulator {
	return &accumulator{sums: make(map[string]float64)}
}

func (a *accumulator) add(w *catalog.Ware, amount float64) {
	if _, seen := a.sums[w.ID]; !seen {
		a.order = append(a.order, w)
	}
	a.sums[w.ID] += amount
}

func (a *accumulator) flows() []WareFlow {
	out := make([]WareFlow, 0, len(a.order))
	for _, w := range a.order {
		amount := a.sums[w.ID]
		if math.Abs(amount) < epsilon {
			continue
		}
		out = append(out, WareFlow{Ware: w, Amount: amount})
	}
	return out
}
