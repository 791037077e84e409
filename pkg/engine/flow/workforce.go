package flow

import "github.com/DrSkyle/stowage/pkg/station"

// HQWorkforce is the extra crew a headquarters needs.
const HQWorkforce = 200

// WorkforceBalance is housing capacity against crew demand.
type WorkforceBalance struct {
	Capacity  float64 `json:"capacity"`
	Needed    float64 `json:"needed"`
	Allocated float64 `json:"allocated"`
	// Total is Needed plus the headquarters crew.
	Total float64 `json:"total"`
}

// Balance sums habitat capacity and module crew demand. In auto mode the
// allocation is as much of the demand as habitats hold; otherwise manual is
// clamped to the capacity.
func Balance(instances []station.Instance, auto bool, manual float64, hq bool) WorkforceBalance {
	var b WorkforceBalance
	for _, in := range instances {
		if in.Module == nil || in.Module.WorkForce == nil || in.Count <= 0 {
			continue
		}
		b.Capacity += float64(in.Count) * in.Module.WorkForce.Capacity
		b.Needed += float64(in.Count) * in.Module.WorkForce.Max
	}

	if auto {
		b.Allocated = min(b.Needed, b.Capacity)
	} else {
		b.Allocated = max(0, min(manual, b.Capacity))
	}

	b.Total = b.Needed
	if hq {
		b.Total += HQWorkforce
	}
	return b
}

// ProductionRatio is the share of crew demand that is staffed.
func (b WorkforceBalance) ProductionRatio() float64 {
	if b.Needed <= 0 {
		return 0
	}
	return min(1, b.Allocated/b.Needed)
}

// Occupancy is the share of habitat capacity in use.
func (b WorkforceBalance) Occupancy() float64 {
	if b.Capacity <= 0 {
		return 0
	}
	return min(1, b.Allocated/b.Capacity)
}

// Percent is Occupancy rounded to whole percent.
func (b WorkforceBalance) Percent() int {
	return int(b.Occupancy()*100 + 0.5)
}
