package sizing

import (
	"context"
	"testing"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
	"github.com/DrSkyle/stowage/pkg/station"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var oneHour = config.RetentionConfig{InputHours: 1, OutputHours: 1}

func storageModule(id, maker string, ct catalog.CargoType, max float64) catalog.Module {
	return catalog.Module{ID: id, Name: id, Type: catalog.ModuleStorage, Maker: maker,
		Cargo: &catalog.Cargo{Max: max, Type: ct}}
}

func fixtureCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return catalog.New(catalog.Document{
		Factions: []catalog.Faction{
			{ID: "teladi", Name: "Teladi Company"},
			{ID: "argon", Name: "Argon Federation"},
			{ID: "boron", Name: "Queendom of Boron"},
		},
		Wares: []catalog.Ware{
			{ID: "crate", Name: "Crate", Volume: 1, Transport: catalog.TransportContainer},
			{ID: "water", Name: "Water", Volume: 6, Transport: catalog.TransportContainer},
			{ID: "ice", Name: "Ice", Volume: 8, Transport: catalog.TransportSolid},
			{ID: "hydrogen", Name: "Hydrogen", Volume: 6, Transport: catalog.TransportLiquid},
		},
		Modules: []catalog.Module{
			storageModule("storage_arg_s_container_01", "argon", catalog.CargoContainer, 50),
			storageModule("storage_arg_m_container_01", "argon", catalog.CargoContainer, 100),
			storageModule("storage_arg_l_container_01", "argon", catalog.CargoContainer, 150),
			storageModule("storage_tel_l_container_01", "teladi", catalog.CargoContainer, 1000),
			storageModule("storage_arg_l_liquid_01", "argon", catalog.CargoLiquid, 100),
			storageModule("storage_xen_m_container_01", "xenon", catalog.CargoContainer, 70),
			{ID: "storage_arg_m_solid_01", Name: "Broken Solid", Type: catalog.ModuleStorage, Maker: "argon"},
			{ID: "prod_gen_water_01", Name: "Water Plant", Type: catalog.ModuleProduction, Product: "water"},
		},
	}, nil)
}

func ware(t *testing.T, c *catalog.Catalog, id string) *catalog.Ware {
	t.Helper()
	w, ok := c.Ware(id)
	require.True(t, ok, id)
	return w
}

func placed(c *catalog.Catalog, id string, count int) station.Instance {
	m, _ := c.Module(id)
	return station.Instance{ModuleID: id, Count: count, Module: m}
}

func TestClassify(t *testing.T) {
	c := fixtureCatalog(t)
	r := config.DefaultRetentionConfig()

	row, ok := Classify(flow.WareFlow{Ware: ware(t, c, "water"), Amount: 10}, r)
	require.True(t, ok)
	assert.Equal(t, Output, row.Direction)
	assert.Equal(t, 10.0, row.HourlyAmount)
	assert.Equal(t, 60.0, row.VolumePerHour)
	assert.Equal(t, 1440.0, row.TotalVolume)
	assert.Equal(t, catalog.CargoContainer, row.CargoType)

	row, ok = Classify(flow.WareFlow{Ware: ware(t, c, "ice"), Amount: -5}, r)
	require.True(t, ok)
	assert.Equal(t, Input, row.Direction)
	assert.Equal(t, 5.0, row.HourlyAmount)
	assert.Equal(t, 40.0*12, row.TotalVolume)
	assert.Equal(t, catalog.CargoSolid, row.CargoType)

	_, ok = Classify(flow.WareFlow{Ware: ware(t, c, "ice"), Amount: 0}, r)
	assert.False(t, ok)
	_, ok = Classify(flow.WareFlow{Amount: 3}, r)
	assert.False(t, ok)

	assert.Equal(t, 24.0, RetentionHours(Direction("sideways"), r))
}

func TestClassifyAll_RetentionSensitivity(t *testing.T) {
	c := fixtureCatalog(t)
	flows := []flow.WareFlow{
		{Ware: ware(t, c, "water"), Amount: 10},
		{Ware: ware(t, c, "ice"), Amount: -5},
	}

	base := ClassifyAll(flows, config.RetentionConfig{InputHours: 12, OutputHours: 24})
	doubled := ClassifyAll(flows, config.RetentionConfig{InputHours: 12, OutputHours: 48})

	assert.Equal(t, 2*base[0].TotalVolume, doubled[0].TotalVolume)
	assert.Equal(t, base[1].TotalVolume, doubled[1].TotalVolume)

	// Negative hours are clamped, not propagated.
	clamped := ClassifyAll(flows, config.RetentionConfig{InputHours: -1, OutputHours: 1})
	assert.Zero(t, clamped[1].TotalVolume)
}

func TestAggregateNeeds(t *testing.T) {
	c := fixtureCatalog(t)
	rows := ClassifyAll([]flow.WareFlow{
		{Ware: ware(t, c, "ice"), Amount: -2},
		{Ware: ware(t, c, "water"), Amount: 1},
		{Ware: ware(t, c, "crate"), Amount: 4},
		{Ware: ware(t, c, "crate"), Amount: -3},
	}, oneHour)

	needs := AggregateNeeds(rows)
	require.Len(t, needs, 3)

	assert.Equal(t, catalog.CargoSolid, needs[0].CargoType)
	assert.Equal(t, Input, needs[0].Direction)
	assert.Equal(t, 16.0, needs[0].TotalVolume)

	assert.Equal(t, catalog.CargoContainer, needs[1].CargoType)
	assert.Equal(t, Output, needs[1].Direction)
	assert.Equal(t, 10.0, needs[1].TotalVolume)
	assert.Len(t, needs[1].Wares, 2)

	assert.Equal(t, Input, needs[2].Direction)
	assert.Equal(t, 3.0, needs[2].TotalVolume)

	groups := GroupRows(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, catalog.CargoSolid, groups[0].CargoType)
	assert.Equal(t, 13.0, groups[1].TotalVolume)
	assert.Len(t, groups[1].WareRows, 3)
}

func TestAvailableCapacity(t *testing.T) {
	c := fixtureCatalog(t)
	capacity := AvailableCapacity([]station.Instance{
		placed(c, "storage_arg_m_container_01", 2),
		placed(c, "storage_arg_l_container_01", 1),
		placed(c, "storage_arg_m_solid_01", 5),
		placed(c, "prod_gen_water_01", 3),
		placed(c, "storage_arg_l_liquid_01", 0),
		{ModuleID: "missing", Count: 9},
	})

	assert.Equal(t, 350.0, capacity.Of(catalog.CargoContainer))
	assert.Zero(t, capacity.Of(catalog.CargoSolid))
	assert.Zero(t, capacity.Of(catalog.CargoLiquid))
}

func TestComputeShortfall(t *testing.T) {
	assert.Equal(t, 20.0, ComputeShortfall(120, 100))
	assert.Zero(t, ComputeShortfall(80, 100))
	assert.Zero(t, ComputeShortfall(0, 0))
}

func TestRecommendations(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, nil)

	tests := []struct {
		name      string
		need      float64
		filter    Filter
		installed []station.Instance
		wantID    string
		wantCount int
		wantTotal float64
		wantNone  bool
	}{
		{
			name:   "Best single fit",
			need:   80,
			filter: Filter{FactionID: "argon"},
			wantID: "storage_arg_m_container_01", wantCount: 1, wantTotal: 100,
		},
		{
			name:   "Greedy largest fill",
			need:   260,
			filter: Filter{FactionID: "argon", Sizes: &SizeFilter{Small: true, Medium: true}},
			wantID: "storage_arg_m_container_01", wantCount: 3, wantTotal: 300,
		},
		{
			name:   "Size filter excludes non matching tags",
			need:   10,
			filter: Filter{Sizes: &SizeFilter{Large: true}},
			wantID: "storage_arg_l_container_01", wantCount: 1, wantTotal: 150,
		},
		{
			name:   "Any faction reaches the biggest module",
			need:   900,
			filter: Filter{},
			wantID: "storage_tel_l_container_01", wantCount: 1, wantTotal: 1000,
		},
		{
			name:      "Installed capacity covers the need",
			need:      80,
			filter:    Filter{FactionID: "argon"},
			installed: []station.Instance{placed(c, "storage_arg_m_container_01", 1)},
			wantNone:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			needs := calc.CalculateStorageNeeds([]flow.WareFlow{{Ware: ware(t, c, "crate"), Amount: tc.need}}, oneHour)
			recs := calc.CalculateStorageRecommendations(needs, tc.installed, tc.filter)

			if tc.wantNone {
				assert.Empty(t, recs)
				return
			}
			require.Len(t, recs, 1)
			rec := recs[0]
			assert.Equal(t, tc.need, rec.NeededVolume)
			require.Len(t, rec.Modules, 1)
			assert.Equal(t, tc.wantID, rec.Modules[0].ModuleID)
			assert.Equal(t, tc.wantCount, rec.Modules[0].Count)
			assert.Equal(t, tc.wantTotal, rec.Modules[0].TotalCapacity)
			assert.GreaterOrEqual(t, rec.Modules[0].TotalCapacity, rec.Shortfall)
		})
	}
}

func TestRecommendations_SumBothDirections(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, nil)

	needs := calc.CalculateStorageNeeds([]flow.WareFlow{
		{Ware: ware(t, c, "crate"), Amount: 60},
		{Ware: ware(t, c, "crate"), Amount: -30},
	}, oneHour)
	recs := calc.CalculateStorageRecommendations(needs, []station.Instance{placed(c, "storage_arg_s_container_01", 1)}, Filter{FactionID: "argon"})

	require.Len(t, recs, 1)
	assert.Equal(t, 90.0, recs[0].NeededVolume)
	assert.Equal(t, 50.0, recs[0].AvailableVolume)
	assert.Equal(t, 40.0, recs[0].Shortfall)
	assert.Equal(t, "storage_arg_s_container_01", recs[0].Modules[0].ModuleID)
}

func TestCargoGroups_EmptySizeFilter(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, nil)

	groups := calc.CalculateStorageCargoGroups(
		[]flow.WareFlow{{Ware: ware(t, c, "crate"), Amount: 500}},
		oneHour, nil,
		Filter{FactionID: "argon", Sizes: &SizeFilter{}},
	)

	require.Len(t, groups, 1)
	assert.Equal(t, 500.0, groups[0].Shortfall)
	assert.NotNil(t, groups[0].RecommendedModules)
	assert.Empty(t, groups[0].RecommendedModules)
	assert.Empty(t, calc.GetFilteredStorageModules(catalog.CargoContainer, Filter{Sizes: &SizeFilter{}}))
}

func TestCargoGroups_NoMatchingCargoModules(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, nil)

	groups := calc.CalculateStorageCargoGroups(
		[]flow.WareFlow{{Ware: ware(t, c, "ice"), Amount: -10}},
		oneHour, nil, Filter{},
	)

	require.Len(t, groups, 1)
	assert.Equal(t, catalog.CargoSolid, groups[0].CargoType)
	assert.Equal(t, 80.0, groups[0].Shortfall)
	assert.Empty(t, groups[0].RecommendedModules)
}

func TestCargoGroups_Deterministic(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, nil)
	flows := []flow.WareFlow{
		{Ware: ware(t, c, "water"), Amount: 20},
		{Ware: ware(t, c, "hydrogen"), Amount: -4},
		{Ware: ware(t, c, "ice"), Amount: -1},
	}
	installed := []station.Instance{placed(c, "storage_arg_l_liquid_01", 1)}

	first := calc.CalculateStorageCargoGroups(flows, config.DefaultRetentionConfig(), installed, Filter{})
	second := calc.CalculateStorageCargoGroups(flows, config.DefaultRetentionConfig(), installed, Filter{})
	assert.Equal(t, first, second)

	for _, g := range first {
		assert.GreaterOrEqual(t, g.Shortfall, 0.0)
	}
}

func TestAddRecommendedModulesToStation_Idempotent(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, nil)
	st := station.New(c)
	require.NoError(t, st.SetCount("storage_arg_m_container_01", 1))

	flows := []flow.WareFlow{
		{Ware: ware(t, c, "crate"), Amount: 420},
		{Ware: ware(t, c, "hydrogen"), Amount: 30},
	}
	filter := Filter{FactionID: "argon"}

	groups := calc.CalculateStorageCargoGroups(flows, oneHour, st.Snapshot().Instances, filter)
	res, err := AddRecommendedModulesToStation(context.Background(), groups, st)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Version)

	after := calc.CalculateStorageCargoGroups(flows, oneHour, st.Snapshot().Instances, filter)
	for _, g := range after {
		assert.Zero(t, g.Shortfall, "cargo %s still short", g.CargoType)
		assert.Empty(t, g.RecommendedModules)
	}

	assert.Empty(t, Batch(after))
}

func TestAddRecommendedModulesToStation_MergesExisting(t *testing.T) {
	c := fixtureCatalog(t)
	st := station.New(c)
	require.NoError(t, st.SetCount("storage_arg_l_container_01", 1))

	groups := []CargoGroup{
		{CargoType: catalog.CargoContainer, Shortfall: 200, RecommendedModules: []RecommendedModule{
			{ModuleID: "storage_arg_l_container_01", Count: 2},
		}},
		{CargoType: catalog.CargoLiquid, Shortfall: 0, RecommendedModules: []RecommendedModule{
			{ModuleID: "storage_arg_l_liquid_01", Count: 1},
		}},
	}

	res, err := AddRecommendedModulesToStation(context.Background(), groups, st)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Incremented)
	assert.Zero(t, res.Appended)

	snap := st.Snapshot()
	require.Len(t, snap.Instances, 1)
	assert.Equal(t, 3, snap.Instances[0].Count)
}

func TestGetAvailableStorageFactions(t *testing.T) {
	calc := NewCalculator(fixtureCatalog(t), nil)

	got := calc.GetAvailableStorageFactions()
	require.Len(t, got, 2)
	assert.Equal(t, "Argon Federation", got[0].Name)
	assert.Equal(t, "teladi", got[1].ID)
}

func TestGetAvailableStorageFactions_CountsModulesWithoutCargo(t *testing.T) {
	c := catalog.New(catalog.Document{
		Factions: []catalog.Faction{
			{ID: "argon", Name: "Argon Federation"},
			{ID: "boron", Name: "Queendom of Boron"},
			{ID: "paranid", Name: "Godrealm of the Paranid"},
		},
		Modules: []catalog.Module{
			storageModule("storage_arg_l_container_01", "argon", catalog.CargoContainer, 150),
			{ID: "storage_bor_l_solid_01", Name: "Boron Solid", Type: catalog.ModuleStorage, Maker: "boron"},
			{ID: "prod_par_water_01", Name: "Water Plant", Type: catalog.ModuleProduction, Maker: "paranid", Product: "water"},
		},
	}, nil)

	got := NewCalculator(c, nil).GetAvailableStorageFactions()
	require.Len(t, got, 2)
	assert.Equal(t, "argon", got[0].ID)
	assert.Equal(t, "boron", got[1].ID)
}

type excludeMaker string

func (e excludeMaker) Excludes(m *catalog.Module) bool {
	return m.Maker == string(e)
}

func TestRecommender_Rules(t *testing.T) {
	c := fixtureCatalog(t)
	calc := NewCalculator(c, excludeMaker("teladi"))

	for _, m := range calc.GetFilteredStorageModules(catalog.CargoContainer, Filter{}) {
		assert.NotEqual(t, "teladi", m.Maker)
	}

	recs := calc.CalculateStorageRecommendations(
		calc.CalculateStorageNeeds([]flow.WareFlow{{Ware: ware(t, c, "crate"), Amount: 900}}, oneHour),
		nil, Filter{},
	)
	require.Len(t, recs, 1)
	assert.Equal(t, "storage_arg_l_container_01", recs[0].Modules[0].ModuleID)
	assert.Equal(t, 6, recs[0].Modules[0].Count)
}

func TestSizeFilter_Allows(t *testing.T) {
	assert.True(t, SizeFilter{Medium: true}.Allows("storage_arg_m_container_01"))
	assert.False(t, SizeFilter{Medium: true}.Allows("storage_arg_l_container_01"))
	assert.False(t, SizeFilter{}.Allows("storage_arg_l_container_01"))
}

func TestFilterFromConfig(t *testing.T) {
	f := FilterFromConfig(config.DefaultFilterConfig())
	assert.Equal(t, "argon", f.FactionID)
	require.NotNil(t, f.Sizes)
	assert.Equal(t, SizeFilter{Large: true}, *f.Sizes)

	f = FilterFromConfig(config.FilterConfig{AnySize: true})
	assert.Empty(t, f.FactionID)
	assert.Nil(t, f.Sizes)
}
