// Package fit picks the container type and count that covers a volume.
package fit

import (
	"math"
	"sort"
)

// Choose returns the plan covering need, or false when no candidate can
// hold anything or need is not a finite volume a module count can cover.
//
// The smallest candidate that holds need on its own wins (count 1).
// Failing that, the largest candidate is repeated ceil(need/capacity)
// times. Equal capacities resolve to the earliest candidate in the input.
func Choose(candidates []Candidate, need float64) (Plan, bool) {
	if need <= 0 || math.IsInf(need, 0) || math.IsNaN(need) || len(candidates) == 0 {
		return Plan{}, false
	}

	// 1. Best single fit: ascending, stable so input order breaks ties.
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Capacity < sorted[j].Capacity
	})
	for _, c := range sorted {
		if c.Capacity >= need {
			return Plan{Candidate: c, Count: 1, Need: need}, true
		}
	}

	// 2. Largest fill with a single type.
	best := -1
	for i, c := range candidates {
		if c.Capacity <= 0 {
			continue
		}
		if best == -1 || c.Capacity > candidates[best].Capacity {
			best = i
		}
	}
	if best == -1 {
		return Plan{}, false
	}

	largest := candidates[best]
	n := math.Ceil(need / largest.Capacity)
	if n > math.MaxInt32 {
		return Plan{}, false
	}
	return Plan{Candidate: largest, Count: int(n), Need: need}, true
}
