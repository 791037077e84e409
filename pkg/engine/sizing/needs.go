package sizing

import "github.com/DrSkyle/stowage/pkg/catalog"

type needKey struct {
	cargo catalog.CargoType
	dir   Direction
}

// AggregateNeeds sums rows per cargo type and direction, in the order each
// pair is first seen.
func AggregateNeeds(rows []Row) []Need {
	idx := make(map[needKey]int)
	var needs []Need
	for _, r := range rows {
		k := needKey{cargo: r.CargoType, dir: r.Direction}
		i, ok := idx[k]
		if !ok {
			i = len(needs)
			idx[k] = i
			needs = append(needs, Need{CargoType: r.CargoType, Direction: r.Direction})
		}
		needs[i].TotalVolume += r.TotalVolume
		needs[i].Wares = append(needs[i].Wares, Detail{
			Ware:         r.Ware,
			WareID:       r.WareID,
			Volume:       r.TotalVolume,
			HourlyAmount: r.HourlyAmount,
		})
	}
	return needs
}

// GroupRows collects rows per cargo type across both directions, in the
// order each cargo type is first seen. Capacity fields are left zero.
func GroupRows(rows []Row) []CargoGroup {
	idx := make(map[catalog.CargoType]int)
	var groups []CargoGroup
	for _, r := range rows {
		i, ok := idx[r.CargoType]
		if !ok {
			i = len(groups)
			idx[r.CargoType] = i
			groups = append(groups, CargoGroup{CargoType: r.CargoType})
		}
		groups[i].WareRows = append(groups[i].WareRows, r)
		groups[i].TotalVolume += r.TotalVolume
	}
	return groups
}

// neededByCargo folds needs of both directions into one total per cargo
// type, keeping first-seen order.
func neededByCargo(needs []Need) ([]catalog.CargoType, map[catalog.CargoType]float64) {
	var order []catalog.CargoType
	totals := make(map[catalog.CargoType]float64)
	for _, n := range needs {
		if _, ok := totals[n.CargoType]; !ok {
			order = append(order, n.CargoType)
		}
		totals[n.CargoType] += n.TotalVolume
	}
	return order, totals
}
