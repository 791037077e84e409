package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCELEngine(t *testing.T) {
	// 1. Initialize Engine
	engine, err := NewCELEngine()
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// 2. Define Rules
	rules := []DynamicRule{
		{
			ID:        "tiny_boxes",
			Condition: "capacity < 30000.0",
			Action:    ActionExclude,
			Priority:  1,
		},
		{
			ID:        "no_teladi_liquid",
			Condition: "faction == 'teladi' && cargo == 'liquid'",
			Action:    ActionExclude,
			Priority:  5,
		},
	}

	// 3. Compile
	if err := engine.Compile(rules); err != nil {
		t.Fatalf("Compilation failed: %v", err)
	}

	// 4. Evaluate Scenario A: small module
	ctx := context.Background()
	dataA := EvaluationContext{
		ID:       "storage_arg_s_container_01",
		Faction:  "argon",
		Cargo:    "container",
		Size:     "s",
		Capacity: 20000,
	}
	matches, _ := engine.Evaluate(ctx, dataA)
	if len(matches) != 1 || matches[0].ID != "tiny_boxes" {
		t.Errorf("Scenario A failed. Expected ['tiny_boxes'], got %v", matches)
	}

	// 5. Evaluate Scenario B: both match, priority order
	dataB := EvaluationContext{
		Faction:  "teladi",
		Cargo:    "liquid",
		Capacity: 22000,
	}
	matches, _ = engine.Evaluate(ctx, dataB)
	if len(matches) != 2 || matches[0].ID != "no_teladi_liquid" {
		t.Errorf("Scenario B failed. Expected no_teladi_liquid first, got %v", matches)
	}
}

func TestCELEngine_CompileErrors(t *testing.T) {
	engine, err := NewCELEngine()
	require.NoError(t, err)

	assert.Error(t, engine.Compile([]DynamicRule{{ID: "syntax", Condition: "faction =="}}))
	assert.Error(t, engine.Compile([]DynamicRule{{ID: "unknown_var", Condition: "price > 10.0"}}))
	assert.Error(t, engine.Compile([]DynamicRule{{ID: "not_bool", Condition: "capacity * 2.0"}}))
	assert.Zero(t, engine.Len())
}

func TestCELEngine_Excludes(t *testing.T) {
	engine, err := NewCELEngine()
	require.NoError(t, err)
	require.NoError(t, engine.Compile([]DynamicRule{
		{ID: "flag_large", Condition: "size == 'l'", Action: ActionWarn},
		{ID: "drop_paranid", Condition: "faction == 'paranid'", Action: ActionExclude},
	}))

	large := &catalog.Module{ID: "storage_arg_l_container_01", Maker: "argon", Type: catalog.ModuleStorage,
		Cargo: &catalog.Cargo{Max: 500000, Type: catalog.CargoContainer}}
	paranid := &catalog.Module{ID: "storage_par_m_solid_01", Maker: "paranid", Type: catalog.ModuleStorage,
		Cargo: &catalog.Cargo{Max: 95000, Type: catalog.CargoSolid}}

	assert.False(t, engine.Excludes(large), "warn rules do not exclude")
	assert.True(t, engine.Excludes(paranid))

	ec := ContextFor(paranid)
	assert.Equal(t, "m", ec.Size)
	assert.Equal(t, "solid", ec.Cargo)
	assert.Equal(t, 95000.0, ec.Capacity)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - id: skip_small
    condition: "size == 's'"
  - id: watch_split
    condition: "faction == 'split'"
    action: warn
`), 0o600))

	engine, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, engine.Len())
	assert.True(t, engine.Excludes(&catalog.Module{ID: "storage_tel_s_liquid_01"}))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestParseRules_Validation(t *testing.T) {
	_, err := ParseRules([]byte("rules:\n  - condition: \"true\"\n"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("rules:\n  - id: x\n    condition: \"true\"\n    action: delete\n"))
	assert.Error(t, err)

	rules, err := ParseRules([]byte("rules:\n  - id: x\n    condition: \"true\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ActionExclude, rules[0].Action)
}
