package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full planner configuration as read from file, env and flags.
type Config struct {
	Retention RetentionConfig `mapstructure:"retention"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Station   StationConfig   `mapstructure:"station"`
	Status    StatusConfig    `mapstructure:"status"`

	// CatalogPath overrides the embedded catalog.
	CatalogPath string `mapstructure:"catalog"`
	// RulesFile holds CEL candidate rules.
	RulesFile string `mapstructure:"rules"`
	// LayoutStore is a directory or "s3://bucket/prefix" for saved layouts.
	LayoutStore string `mapstructure:"layout_store"`
	// OtelEndpoint enables OTLP trace export.
	OtelEndpoint string `mapstructure:"otel_endpoint"`
	JSONLogs     bool   `mapstructure:"json_logs"`
}

// Default returns a Config with every section at its default.
func Default() Config {
	return Config{
		Retention:   DefaultRetentionConfig(),
		Filter:      DefaultFilterConfig(),
		Station:     DefaultStationConfig(),
		Status:      DefaultStatusConfig(),
		LayoutStore: ".stowage/layouts",
		JSONLogs:    true,
	}
}

// SetDefaults registers Default() on v so unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("retention.input_hours", d.Retention.InputHours)
	v.SetDefault("retention.output_hours", d.Retention.OutputHours)
	v.SetDefault("filter.faction", d.Filter.Faction)
	v.SetDefault("filter.small", d.Filter.Small)
	v.SetDefault("filter.medium", d.Filter.Medium)
	v.SetDefault("filter.large", d.Filter.Large)
	v.SetDefault("filter.any_size", d.Filter.AnySize)
	v.SetDefault("station.sunlight", d.Station.Sunlight)
	v.SetDefault("station.auto_workforce", d.Station.AutoWorkforce)
	v.SetDefault("station.workforce", d.Station.Workforce)
	v.SetDefault("station.hq", d.Station.HQ)
	v.SetDefault("status.danger_ratio", d.Status.DangerRatio)
	v.SetDefault("catalog", d.CatalogPath)
	v.SetDefault("rules", d.RulesFile)
	v.SetDefault("layout_store", d.LayoutStore)
	v.SetDefault("otel_endpoint", d.OtelEndpoint)
	v.SetDefault("json_logs", d.JSONLogs)
}

// Load resolves a Config from v and normalises it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Retention = cfg.Retention.Normalize()
	cfg.Station = cfg.Station.Normalize()
	return cfg, nil
}
