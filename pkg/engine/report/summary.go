// Package report renders storage plans for people and spreadsheets.
package report

import (
	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
	"github.com/DrSkyle/stowage/pkg/engine/sizing"
)

// Summary is the exportable view of one storage plan.
type Summary struct {
	Version   uint64                 `json:"version"`
	Retention config.RetentionConfig `json:"retention"`
	Filter    sizing.Filter          `json:"filter"`
	Workforce flow.WorkforceBalance  `json:"workforce"`
	Groups    []Group                `json:"groups"`
}

// Group is a cargo group with its severity.
type Group struct {
	sizing.CargoGroup
	Status config.Status `json:"status"`
}

// ExportItem is one ware row as written to CSV.
type ExportItem struct {
	CargoType     catalog.CargoType `json:"cargo_type"`
	Ware          string            `json:"ware"`
	Name          string            `json:"name"`
	Direction     sizing.Direction  `json:"direction"`
	HourlyAmount  float64           `json:"hourly_amount"`
	VolumePerHour float64           `json:"volume_per_hour"`
	TotalVolume   float64           `json:"total_volume"`
}

// ModuleItem is one recommended module line.
type ModuleItem struct {
	CargoType catalog.CargoType
	sizing.RecommendedModule
}

// Short reports whether any group lacks capacity.
func (s Summary) Short() bool {
	for _, g := range s.Groups {
		if g.Shortfall > 0 {
			return true
		}
	}
	return false
}

func extractItems(s Summary) []ExportItem {
	var items []ExportItem
	for _, g := range s.Groups {
		for _, r := range g.WareRows {
			items = append(items, ExportItem{
				CargoType:     g.CargoType,
				Ware:          r.WareID,
				Name:          r.WareName,
				Direction:     r.Direction,
				HourlyAmount:  r.HourlyAmount,
				VolumePerHour: r.VolumePerHour,
				TotalVolume:   r.TotalVolume,
			})
		}
	}
	return items
}

func extractModules(s Summary) []ModuleItem {
	var items []ModuleItem
	for _, g := range s.Groups {
		if g.Shortfall <= 0 {
			continue
		}
		for _, m := range g.RecommendedModules {
			items = append(items, ModuleItem{CargoType: g.CargoType, RecommendedModule: m})
		}
	}
	return items
}
