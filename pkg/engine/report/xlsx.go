package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "summary"
	waresSheet   = "wares"
	modulesSheet = "modules"
)

// BuildXLSX renders a workbook with a summary, ware and module sheet.
func BuildXLSX(s Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(waresSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(modulesSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Storage Plan")
	_ = f.SetCellValue(summarySheet, "A3", "Station Version")
	_ = f.SetCellValue(summarySheet, "B3", s.Version)
	_ = f.SetCellValue(summarySheet, "A4", "Input Hours")
	_ = f.SetCellValue(summarySheet, "B4", s.Retention.InputHours)
	_ = f.SetCellValue(summarySheet, "A5", "Output Hours")
	_ = f.SetCellValue(summarySheet, "B5", s.Retention.OutputHours)
	_ = f.SetCellValue(summarySheet, "A6", "Workforce")
	_ = f.SetCellValue(summarySheet, "B6", fmt.Sprintf("%.0f / %.0f", s.Workforce.Allocated, s.Workforce.Total))

	_ = f.SetCellValue(summarySheet, "A8", "Cargo")
	_ = f.SetCellValue(summarySheet, "B8", "Needed")
	_ = f.SetCellValue(summarySheet, "C8", "Available")
	_ = f.SetCellValue(summarySheet, "D8", "Shortfall")
	_ = f.SetCellValue(summarySheet, "E8", "Status")
	for i, g := range s.Groups {
		row := i + 9
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), string(g.CargoType))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), g.TotalVolume)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), g.AvailableVolume)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("D%d", row), g.Shortfall)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("E%d", row), string(g.Status))
	}

	_ = f.SetCellValue(waresSheet, "A1", "Cargo")
	_ = f.SetCellValue(waresSheet, "B1", "Ware")
	_ = f.SetCellValue(waresSheet, "C1", "Direction")
	_ = f.SetCellValue(waresSheet, "D1", "Per Hour")
	_ = f.SetCellValue(waresSheet, "E1", "Volume / h")
	_ = f.SetCellValue(waresSheet, "F1", "Buffered Volume")
	for i, item := range extractItems(s) {
		row := i + 2
		_ = f.SetCellValue(waresSheet, fmt.Sprintf("A%d", row), string(item.CargoType))
		_ = f.SetCellValue(waresSheet, fmt.Sprintf("B%d", row), item.Name)
		_ = f.SetCellValue(waresSheet, fmt.Sprintf("C%d", row), string(item.Direction))
		_ = f.SetCellValue(waresSheet, fmt.Sprintf("D%d", row), item.HourlyAmount)
		_ = f.SetCellValue(waresSheet, fmt.Sprintf("E%d", row), item.VolumePerHour)
		_ = f.SetCellValue(waresSheet, fmt.Sprintf("F%d", row), item.TotalVolume)
	}

	_ = f.SetCellValue(modulesSheet, "A1", "Cargo")
	_ = f.SetCellValue(modulesSheet, "B1", "Module")
	_ = f.SetCellValue(modulesSheet, "C1", "Name")
	_ = f.SetCellValue(modulesSheet, "D1", "Capacity")
	_ = f.SetCellValue(modulesSheet, "E1", "Count")
	_ = f.SetCellValue(modulesSheet, "F1", "Total Capacity")
	for i, m := range extractModules(s) {
		row := i + 2
		_ = f.SetCellValue(modulesSheet, fmt.Sprintf("A%d", row), string(m.CargoType))
		_ = f.SetCellValue(modulesSheet, fmt.Sprintf("B%d", row), m.ModuleID)
		_ = f.SetCellValue(modulesSheet, fmt.Sprintf("C%d", row), m.ModuleName)
		_ = f.SetCellValue(modulesSheet, fmt.Sprintf("D%d", row), m.Capacity)
		_ = f.SetCellValue(modulesSheet, fmt.Sprintf("E%d", row), m.Count)
		_ = f.SetCellValue(modulesSheet, fmt.Sprintf("F%d", row), m.TotalCapacity)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
