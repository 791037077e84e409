package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DrSkyle/stowage/pkg/catalog"
	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/DrSkyle/stowage/pkg/engine/flow"
	"github.com/DrSkyle/stowage/pkg/engine/sizing"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixtureSummary() Summary {
	return Summary{
		Version:   3,
		Retention: config.DefaultRetentionConfig(),
		Filter:    sizing.Filter{FactionID: "argon", Sizes: &sizing.SizeFilter{Large: true}},
		Workforce: flow.WorkforceBalance{Capacity: 500, Needed: 300, Allocated: 300, Total: 300},
		Groups: []Group{
			{
				CargoGroup: sizing.CargoGroup{
					CargoType: catalog.CargoContainer,
					WareRows: []sizing.Row{
						{WareID: "energycells", WareName: "Energy Cells", Direction: sizing.Output,
							HourlyAmount: 1000, VolumePerHour: 1000, TotalVolume: 24000, CargoType: catalog.CargoContainer},
						{WareID: "foodrations", WareName: "Food Rations", Direction: sizing.Input,
							HourlyAmount: 50, VolumePerHour: 50, TotalVolume: 600, CargoType: catalog.CargoContainer},
					},
					TotalVolume:     24600,
					AvailableVolume: 20000,
					Shortfall:       4600,
					RecommendedModules: []sizing.RecommendedModule{
						{ModuleID: "storage_arg_l_container_01", ModuleName: "Argon L Container Storage",
							Capacity: 500000, Count: 1, TotalCapacity: 500000},
					},
				},
				Status: config.StatusWarning,
			},
			{
				CargoGroup: sizing.CargoGroup{
					CargoType: catalog.CargoSolid,
					WareRows: []sizing.Row{
						{WareID: "ore", WareName: "Ore", Direction: sizing.Input,
							HourlyAmount: 120, VolumePerHour: 1200, TotalVolume: 14400, CargoType: catalog.CargoSolid},
					},
					TotalVolume:        14400,
					AvailableVolume:    100000,
					RecommendedModules: []sizing.RecommendedModule{},
				},
				Status: config.StatusSuccess,
			},
		},
	}
}

func TestWriteCSV_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixtureSummary()))

	g := goldie.New(t)
	g.Assert(t, "plan_csv", buf.Bytes())
}

func TestWriteJSON_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixtureSummary()))

	g := goldie.New(t)
	g.Assert(t, "plan_json", buf.Bytes())
}

func TestRenderText(t *testing.T) {
	out := RenderText(fixtureSummary())

	assert.Contains(t, out, "STORAGE PLAN  v3")
	assert.Contains(t, out, "[LOW]")
	assert.Contains(t, out, "[OK]")
	assert.Contains(t, out, "+ 1 x Argon L Container Storage (500000)")
	assert.Contains(t, out, "Energy Cells")
	assert.NotContains(t, out, "no storage module matches")

	empty := RenderText(Summary{})
	assert.Contains(t, empty, "No ware flows")
}

func TestRenderText_NoCandidates(t *testing.T) {
	s := fixtureSummary()
	s.Groups[0].RecommendedModules = []sizing.RecommendedModule{}
	assert.Contains(t, RenderText(s), "no storage module matches the current filter")
}

func TestBuildXLSX(t *testing.T) {
	data, err := BuildXLSX(fixtureSummary())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, waresSheet, modulesSheet}, f.GetSheetList())

	v, err := f.GetCellValue(summarySheet, "A10")
	require.NoError(t, err)
	assert.Equal(t, "solid", v)

	v, err = f.GetCellValue(waresSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Ore", v)

	v, err = f.GetCellValue(modulesSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "storage_arg_l_container_01", v)

	// The solid group is covered, so it adds no module line.
	v, err = f.GetCellValue(modulesSheet, "B3")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(fixtureSummary())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestWriteHTML_EscapesWareNames(t *testing.T) {
	s := fixtureSummary()
	s.Groups[0].WareRows[0].WareName = `Cells<script>alert(1)</script>`

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, s))
	content := buf.String()

	assert.NotContains(t, content, "<script>alert(1)</script>")
	assert.Contains(t, content, "&lt;script&gt;")

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "const labels =") {
			assert.Contains(t, line, `["container","solid"]`)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		".CSV":  FormatCSV,
		"txt":   FormatText,
		"text":  FormatText,
		".xlsx": FormatXLSX,
		"pdf":   FormatPDF,
		"html":  FormatHTML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)
	assert.Equal(t, ".txt", FormatText.Ext())
	assert.Equal(t, ".xlsx", FormatXLSX.Ext())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, f := range Formats {
		path := filepath.Join(dir, "plan"+f.Ext())
		require.NoError(t, WriteFile(path, fixtureSummary()), f)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), f)
	}

	assert.Error(t, WriteFile(filepath.Join(dir, "plan.doc"), fixtureSummary()))
}

func TestSummaryShort(t *testing.T) {
	s := fixtureSummary()
	assert.True(t, s.Short())
	s.Groups = s.Groups[1:]
	assert.False(t, s.Short())
}
