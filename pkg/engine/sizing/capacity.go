package sizing

import (
	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/station"
)

// Capacity is installed storage volume per cargo type.
type Capacity map[catalog.CargoType]float64

// Of returns the capacity for ct, zero when none is installed.
func (c Capacity) Of(ct catalog.CargoType) float64 {
	return c[ct]
}

// AvailableCapacity sums cargo.max × count over resolved storage modules.
// Unresolved modules and modules without cargo contribute nothing.
func AvailableCapacity(instances []station.Instance) Capacity {
	c := make(Capacity)
	for _, in := range instances {
		if in.Module == nil || in.Count <= 0 || !in.Module.IsStorage() {
			continue
		}
		c[in.Module.Cargo.Type] += in.Module.Cargo.Max * float64(in.Count)
	}
	return c
}

// ComputeShortfall is the volume that does not fit, never negative.
func ComputeShortfall(needed, available float64) float64 {
	return max(0, needed-available)
}
