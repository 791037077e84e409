package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an export file type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatXLSX, FormatPDF, FormatHTML}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(s), "."))
	if f == "txt" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Ext is the file extension for f.
func (f Format) Ext() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Render produces the report in format f.
func Render(f Format, s Summary) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatText:
		buf.WriteString(RenderText(s))
	case FormatJSON:
		if err := WriteJSON(&buf, s); err != nil {
			return nil, err
		}
	case FormatCSV:
		if err := WriteCSV(&buf, s); err != nil {
			return nil, err
		}
	case FormatXLSX:
		return BuildXLSX(s)
	case FormatPDF:
		return BuildPDF(s)
	case FormatHTML:
		if err := WriteHTML(&buf, s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown report format %q", f)
	}
	return buf.Bytes(), nil
}

// WriteFile renders s into path, choosing the format from the extension.
func WriteFile(path string, s Summary) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	data, err := Render(f, s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteCSV writes one line per ware row.
func WriteCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)

	header := []string{
		"CargoType",
		"Ware",
		"Name",
		"Direction",
		"HourlyAmount",
		"VolumePerHour",
		"TotalVolume",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, item := range extractItems(s) {
		record := []string{
			string(item.CargoType),
			item.Ware,
			item.Name,
			string(item.Direction),
			fmt.Sprintf("%.2f", item.HourlyAmount),
			fmt.Sprintf("%.2f", item.VolumePerHour),
			fmt.Sprintf("%.2f", item.TotalVolume),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the whole summary, indented.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
