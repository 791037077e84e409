// Package config defines default retention, filter and station settings.
package config

import "math"

// RetentionConfig is how many hours of flow each storage buffer must hold.
type RetentionConfig struct {
	// InputHours buffers consumed wares.
	InputHours float64 `mapstructure:"input_hours" yaml:"input_hours" json:"input_hours"`
	// OutputHours buffers produced wares.
	OutputHours float64 `mapstructure:"output_hours" yaml:"output_hours" json:"output_hours"`
}

// FilterConfig narrows the storage modules considered for recommendation.
type FilterConfig struct {
	// Faction is a maker faction id. Empty means any faction.
	Faction string `mapstructure:"faction" yaml:"faction" json:"faction"`
	Small   bool   `mapstructure:"small" yaml:"small" json:"small"`
	Medium  bool   `mapstructure:"medium" yaml:"medium" json:"medium"`
	Large   bool   `mapstructure:"large" yaml:"large" json:"large"`
	// AnySize disables size filtering entirely.
	AnySize bool `mapstructure:"any_size" yaml:"any_size" json:"any_size"`
}

// StationConfig holds the environment a station is planned for.
type StationConfig struct {
	// Sunlight is the sector sunlight in percent.
	Sunlight float64 `mapstructure:"sunlight" yaml:"sunlight" json:"sunlight"`
	// AutoWorkforce allocates as much workforce as habitats allow.
	AutoWorkforce bool `mapstructure:"auto_workforce" yaml:"auto_workforce" json:"auto_workforce"`
	// Workforce is the manual allocation used when AutoWorkforce is off.
	Workforce float64 `mapstructure:"workforce" yaml:"workforce" json:"workforce"`
	// HQ marks the player headquarters, which needs extra crew.
	HQ bool `mapstructure:"hq" yaml:"hq" json:"hq"`
}

// Defaults.
const (
	DefaultInputHours  = 12.0
	DefaultOutputHours = 24.0
	DefaultFaction     = "argon"
	DefaultSunlight    = 100.0
)

// DefaultRetentionConfig returns the default buffer hours.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		InputHours:  DefaultInputHours,
		OutputHours: DefaultOutputHours,
	}
}

// Normalize clamps negative and non-finite hours to zero.
func (r RetentionConfig) Normalize() RetentionConfig {
	r.InputHours = nonNegative(r.InputHours)
	r.OutputHours = nonNegative(r.OutputHours)
	return r
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DefaultFilterConfig returns the default recommendation filter: Argon, large only.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Faction: DefaultFaction,
		Large:   true,
	}
}

// Normalize clamps negative and non-finite sunlight and workforce to zero.
func (c StationConfig) Normalize() StationConfig {
	c.Sunlight = nonNegative(c.Sunlight)
	c.Workforce = nonNegative(c.Workforce)
	return c
}

// DefaultStationConfig returns full sunlight and automatic workforce.
func DefaultStationConfig() StationConfig {
	return StationConfig{
		Sunlight:      DefaultSunlight,
		AutoWorkforce: true,
	}
}
