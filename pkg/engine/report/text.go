package report

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/stowage/pkg/config"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorNeonGreen  = lipgloss.Color("#00FF99")
	colorNeonPurple = lipgloss.Color("#874BFD")
	colorTextSub    = lipgloss.Color("#64748B")
	colorDanger     = lipgloss.Color("#FF0055")
	colorWarning    = lipgloss.Color("#F59E0B")

	titleStyle   = lipgloss.NewStyle().Foreground(colorNeonPurple).Bold(true)
	subtle       = lipgloss.NewStyle().Foreground(colorTextSub)
	moduleStyle  = lipgloss.NewStyle().Foreground(colorNeonGreen)
	successStyle = lipgloss.NewStyle().Foreground(colorNeonGreen).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)

// StatusStyle colours a status label.
func StatusStyle(s config.Status) lipgloss.Style {
	switch s {
	case config.StatusDanger:
		return dangerStyle
	case config.StatusWarning:
		return warningStyle
	default:
		return successStyle
	}
}

// StatusLabel is the bracketed status tag shown in terminals.
func StatusLabel(s config.Status) string {
	switch s {
	case config.StatusDanger:
		return "[SHORT]"
	case config.StatusWarning:
		return "[LOW]"
	default:
		return "[OK]"
	}
}

// RenderText renders the plan for a terminal.
func RenderText(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("STORAGE PLAN  v%d", s.Version)))
	b.WriteString("\n")
	b.WriteString(subtle.Render(fmt.Sprintf("retention %gh in / %gh out   workforce %.0f/%.0f",
		s.Retention.InputHours, s.Retention.OutputHours, s.Workforce.Allocated, s.Workforce.Total)))
	b.WriteString("\n\n")

	if len(s.Groups) == 0 {
		b.WriteString(subtle.Render("No ware flows. Add production or habitat modules."))
		b.WriteString("\n")
		return b.String()
	}

	for _, g := range s.Groups {
		b.WriteString(StatusStyle(g.Status).Render(StatusLabel(g.Status)))
		b.WriteString(fmt.Sprintf(" %-9s needed %10.0f  available %10.0f  shortfall %10.0f\n",
			g.CargoType, g.TotalVolume, g.AvailableVolume, g.Shortfall))

		for _, r := range g.WareRows {
			b.WriteString(subtle.Render(fmt.Sprintf("    %-6s %-22s %9.1f/h %10.0f m3",
				r.Direction, r.WareName, r.HourlyAmount, r.TotalVolume)))
			b.WriteString("\n")
		}
		for _, m := range g.RecommendedModules {
			b.WriteString(moduleStyle.Render(fmt.Sprintf("    + %d x %s (%.0f)", m.Count, m.ModuleName, m.TotalCapacity)))
			b.WriteString("\n")
		}
		if g.Shortfall > 0 && len(g.RecommendedModules) == 0 {
			b.WriteString(warningStyle.Render("    no storage module matches the current filter"))
			b.WriteString("\n")
		}
	}
	return b.String()
}
