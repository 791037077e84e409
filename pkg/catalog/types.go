package catalog

import "strings"

// TransportType is the ware transport class as listed in game data.
type TransportType string

const (
	TransportContainer TransportType = "container"
	TransportLiquid    TransportType = "liquid"
	TransportSolid     TransportType = "solid"
)

// CargoType is the storage class a ware is kept in.
type CargoType string

const (
	CargoContainer CargoType = "container"
	CargoLiquid    CargoType = "liquid"
	CargoSolid     CargoType = "solid"
)

// CargoTypes lists every cargo type in display order.
var CargoTypes = []CargoType{CargoContainer, CargoLiquid, CargoSolid}

// Valid reports whether c is a known cargo type.
func (c CargoType) Valid() bool {
	switch c {
	case CargoContainer, CargoLiquid, CargoSolid:
		return true
	}
	return false
}

// MapTransport derives the cargo type from a ware transport.
// Unknown transports are stored as container cargo.
func MapTransport(t TransportType) CargoType {
	switch t {
	case TransportLiquid:
		return CargoLiquid
	case TransportSolid:
		return CargoSolid
	default:
		return CargoContainer
	}
}

// ModuleType classifies station modules.
type ModuleType string

const (
	ModuleStorage    ModuleType = "storage"
	ModuleProduction ModuleType = "production"
	ModuleHabitat    ModuleType = "habitat"
	ModuleDock       ModuleType = "dock"
	ModuleDefence    ModuleType = "defence"
	ModuleConnection ModuleType = "connection"
)

// Size is the hull size class encoded in module ids.
type Size string

const (
	SizeSmall  Size = "s"
	SizeMedium Size = "m"
	SizeLarge  Size = "l"
)

// Tag returns the id fragment that marks a module of this size.
func (s Size) Tag() string {
	return "_" + string(s) + "_"
}

// Price is the trade price range of a ware.
type Price struct {
	Min float64 `yaml:"min" json:"min"`
	Avg float64 `yaml:"avg" json:"avg"`
	Max float64 `yaml:"max" json:"max"`
}

// WareAmount is a quantity of a ware referenced by id.
type WareAmount struct {
	Ware   string  `yaml:"ware" json:"ware"`
	Amount float64 `yaml:"amount" json:"amount"`
}

// Recipe is one production method of a ware.
type Recipe struct {
	Method string       `yaml:"method" json:"method"`
	Time   float64      `yaml:"time" json:"time"` // seconds per cycle
	Amount float64      `yaml:"amount" json:"amount"`
	Inputs []WareAmount `yaml:"inputs" json:"inputs,omitempty"`
	// WorkBonus is the output multiplier reached at full workforce.
	WorkBonus float64 `yaml:"work_bonus" json:"work_bonus,omitempty"`
	Sunlight  bool    `yaml:"sunlight" json:"sunlight,omitempty"`
}

// Ware is an immutable tradeable good.
type Ware struct {
	ID         string        `yaml:"id" json:"id"`
	Name       string        `yaml:"name" json:"name"`
	Group      string        `yaml:"group" json:"group,omitempty"`
	Volume     float64       `yaml:"volume" json:"volume"`
	Transport  TransportType `yaml:"transport" json:"transport"`
	Price      Price         `yaml:"price" json:"price"`
	Production []Recipe      `yaml:"production" json:"production,omitempty"`
}

// CargoType returns the storage class of the ware.
func (w *Ware) CargoType() CargoType {
	return MapTransport(w.Transport)
}

// Recipe returns the production method with the given name, or the
// first method when name is empty.
func (w *Ware) Recipe(method string) (*Recipe, bool) {
	for i := range w.Production {
		if method == "" || w.Production[i].Method == method {
			return &w.Production[i], true
		}
	}
	return nil, false
}

// Faction is a module manufacturer.
type Faction struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Cargo is the storage capacity of a storage module.
type Cargo struct {
	Max  float64   `yaml:"max" json:"max"`
	Type CargoType `yaml:"type" json:"type"`
}

// WorkForce describes what a module houses or needs.
type WorkForce struct {
	Capacity float64 `yaml:"capacity" json:"capacity,omitempty"`
	Max      float64 `yaml:"max" json:"max,omitempty"`
}

// Module is a buildable station module.
type Module struct {
	ID        string     `yaml:"id" json:"id"`
	Name      string     `yaml:"name" json:"name"`
	Type      ModuleType `yaml:"type" json:"type"`
	Maker     string     `yaml:"maker" json:"maker,omitempty"`
	Cargo     *Cargo     `yaml:"cargo" json:"cargo,omitempty"`
	WorkForce *WorkForce `yaml:"workforce" json:"workforce,omitempty"`

	// Product and Method select the recipe a production module runs.
	Product string `yaml:"product" json:"product,omitempty"`
	Method  string `yaml:"method" json:"method,omitempty"`

	// Consumption is the hourly upkeep of a fully occupied habitat.
	Consumption []WareAmount `yaml:"consumption" json:"consumption,omitempty"`
}

// IsStorage reports whether the module stores cargo.
func (m *Module) IsStorage() bool {
	return m.Type == ModuleStorage && m.Cargo != nil
}

// Size returns the size class from the module id, or "" if none is encoded.
func (m *Module) Size() Size {
	for _, s := range []Size{SizeSmall, SizeMedium, SizeLarge} {
		if strings.Contains(m.ID, s.Tag()) {
			return s
		}
	}
	return ""
}
