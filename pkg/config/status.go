package config

// StatusConfig controls how a cargo group shortfall is classified.
type StatusConfig struct {
	// DangerRatio is the shortfall share of the total volume above which
	// a group is reported as danger.
	DangerRatio float64 `mapstructure:"danger_ratio" yaml:"danger_ratio" json:"danger_ratio"`
}

// Status is the severity of a cargo group.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusDanger  Status = "danger"
)

// DefaultStatusConfig returns the default thresholds.
func DefaultStatusConfig() StatusConfig {
	return StatusConfig{
		DangerRatio: 0.8,
	}
}

// Classify returns the severity for a group holding total volume with the given shortfall.
func (s StatusConfig) Classify(shortfall, total float64) Status {
	switch {
	case shortfall > total*s.DangerRatio:
		return StatusDanger
	case shortfall > 0:
		return StatusWarning
	default:
		return StatusSuccess
	}
}
