package config

import (
	"math"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetentionConfig(t *testing.T) {
	config := DefaultRetentionConfig()

	if config.InputHours != 12.0 {
		t.Errorf("Expected InputHours 12.0, got %f", config.InputHours)
	}

	if config.OutputHours != 24.0 {
		t.Errorf("Expected OutputHours 24.0, got %f", config.OutputHours)
	}
}

func TestRetentionConfig_Normalize(t *testing.T) {
	got := RetentionConfig{InputHours: -3, OutputHours: 6}.Normalize()
	if got.InputHours != 0 || got.OutputHours != 6 {
		t.Errorf("Expected {0 6}, got %+v", got)
	}

	got = RetentionConfig{InputHours: math.NaN(), OutputHours: math.Inf(1)}.Normalize()
	assert.Equal(t, RetentionConfig{}, got)
}

func TestStationConfig_Normalize(t *testing.T) {
	got := StationConfig{Sunlight: -5, Workforce: math.Inf(1), HQ: true}.Normalize()
	assert.Equal(t, StationConfig{HQ: true}, got)

	got = StationConfig{Sunlight: 250, Workforce: 40}.Normalize()
	assert.Equal(t, 250.0, got.Sunlight)
	assert.Equal(t, 40.0, got.Workforce)
}

func TestDefaultFilterConfig(t *testing.T) {
	config := DefaultFilterConfig()

	if config.Faction != "argon" {
		t.Errorf("Expected faction argon, got %q", config.Faction)
	}
	if config.Small || config.Medium || !config.Large {
		t.Errorf("Expected large-only size filter, got %+v", config)
	}
}

func TestStatusConfig_Classify(t *testing.T) {
	s := DefaultStatusConfig()

	tests := []struct {
		shortfall, total float64
		want             Status
	}{
		{0, 100, StatusSuccess},
		{10, 100, StatusWarning},
		{80, 100, StatusWarning},
		{81, 100, StatusDanger},
		{5, 0, StatusDanger},
	}
	for _, tc := range tests {
		if got := s.Classify(tc.shortfall, tc.total); got != tc.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", tc.shortfall, tc.total, got, tc.want)
		}
	}
}

func TestLoad(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
retention:
  input_hours: -5
  output_hours: 48
filter:
  faction: teladi
  medium: true
station:
  sunlight: 250
`)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Retention.InputHours)
	assert.Equal(t, 48.0, cfg.Retention.OutputHours)
	assert.Equal(t, "teladi", cfg.Filter.Faction)
	assert.True(t, cfg.Filter.Medium)
	assert.True(t, cfg.Filter.Large, "unset keys keep their defaults")
	assert.Equal(t, 250.0, cfg.Station.Sunlight)
	assert.True(t, cfg.Station.AutoWorkforce)
	assert.Equal(t, 0.8, cfg.Status.DangerRatio)
	assert.Equal(t, ".stowage/layouts", cfg.LayoutStore)
}
