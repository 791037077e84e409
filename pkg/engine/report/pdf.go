package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders a one page plan with a cargo table and the module list.
func BuildPDF(s Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Storage Plan")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Station version: %d", s.Version))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Retention: %.0fh input, %.0fh output", s.Retention.InputHours, s.Retention.OutputHours))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Workforce: %.0f / %.0f", s.Workforce.Allocated, s.Workforce.Total))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Cargo", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Needed", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Available", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Shortfall", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, g := range s.Groups {
		pdf.CellFormat(30, 6, string(g.CargoType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", g.TotalVolume), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", g.AvailableVolume), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", g.Shortfall), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, string(g.Status), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if modules := extractModules(s); len(modules) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 6, "Cargo", "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 6, "Module", "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, "Count", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, "Total Capacity", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, m := range modules {
			pdf.CellFormat(30, 6, string(m.CargoType), "1", 0, "L", false, 0, "")
			pdf.CellFormat(90, 6, m.ModuleName, "1", 0, "L", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", m.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", m.TotalCapacity), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
