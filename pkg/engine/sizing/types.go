package sizing

import "github.com/DrSkyle/stowage/pkg/catalog"

// Direction tells whether a ware flows into or out of the station.
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// Row is one classified ware flow.
type Row struct {
	Ware          *catalog.Ware     `json:"-"`
	WareID        string            `json:"ware"`
	WareName      string            `json:"ware_name"`
	Direction     Direction         `json:"direction"`
	HourlyAmount  float64           `json:"hourly_amount"`
	VolumePerHour float64           `json:"volume_per_hour"`
	TotalVolume   float64           `json:"total_volume"`
	CargoType     catalog.CargoType `json:"cargo_type"`
}

// Detail is the per-ware share of a Need.
type Detail struct {
	Ware         *catalog.Ware `json:"-"`
	WareID       string        `json:"ware"`
	Volume       float64       `json:"volume"`
	HourlyAmount float64       `json:"hourly_amount"`
}

// Need is the buffered volume required for one cargo type and direction.
type Need struct {
	CargoType   catalog.CargoType `json:"cargo_type"`
	Direction   Direction         `json:"direction"`
	TotalVolume float64           `json:"total_volume"`
	Wares       []Detail          `json:"wares"`
}

// RecommendedModule is one storage module type to add, Count times.
type RecommendedModule struct {
	ModuleID      string  `json:"module_id"`
	ModuleName    string  `json:"module_name"`
	Capacity      float64 `json:"capacity"`
	Count         int     `json:"count"`
	TotalCapacity float64 `json:"total_capacity"`
}

// Recommendation covers the shortfall of one cargo type.
type Recommendation struct {
	CargoType       catalog.CargoType   `json:"cargo_type"`
	NeededVolume    float64             `json:"needed_volume"`
	AvailableVolume float64             `json:"available_volume"`
	Shortfall       float64             `json:"shortfall"`
	Modules         []RecommendedModule `json:"recommended_modules"`
}

// CargoGroup is the full storage picture of one cargo type.
type CargoGroup struct {
	CargoType          catalog.CargoType   `json:"cargo_type"`
	WareRows           []Row               `json:"ware_rows"`
	TotalVolume        float64             `json:"total_volume"`
	AvailableVolume    float64             `json:"available_volume"`
	Shortfall          float64             `json:"shortfall"`
	RecommendedModules []RecommendedModule `json:"recommended_modules"`
}

// SizeFilter enables module size classes.
type SizeFilter struct {
	Small  bool `json:"small"`
	Medium bool `json:"medium"`
	Large  bool `json:"large"`
}

// Filter narrows recommendation candidates. An empty FactionID allows any
// maker and a nil Sizes allows any size.
type Filter struct {
	FactionID string      `json:"faction,omitempty"`
	Sizes     *SizeFilter `json:"sizes,omitempty"`
}
