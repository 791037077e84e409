package tui

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/stowage/pkg/engine/report"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(titleStyle.Render(fmt.Sprintf("STOWAGE REVIEW  v%d", m.summary.Version)))
	s.WriteString("\n")
	s.WriteString(m.viewHUD())
	s.WriteString("\n")

	switch m.state {
	case ViewStateDetail:
		s.WriteString(m.viewDetails())
	default:
		s.WriteString(m.viewList())
	}

	s.WriteString("\n")
	if m.summary.Short() {
		s.WriteString(special.Render("  press a to add the recommended modules"))
	} else {
		s.WriteString(dimStyle.Render("  storage covers every buffer, nothing to apply"))
	}
	s.WriteString("\n\n  ")
	s.WriteString(m.help.View(keys))
	s.WriteString("\n")
	return s.String()
}

func (m Model) viewHUD() string {
	var needed, available, short float64
	modules := 0
	for _, g := range m.summary.Groups {
		needed += g.TotalVolume
		available += g.AvailableVolume
		short += g.Shortfall
		if g.Shortfall > 0 {
			for _, r := range g.RecommendedModules {
				modules += r.Count
			}
		}
	}
	return hudStyle.Render(fmt.Sprintf("NEEDED %.0f m3   AVAILABLE %.0f m3   SHORT %.0f m3   MODULES +%d",
		needed, available, short, modules))
}

func (m Model) viewList() string {
	if len(m.summary.Groups) == 0 {
		return "\n   " + dimStyle.Render("No ware flows. Add production or habitat modules.") + "\n"
	}

	s := strings.Builder{}
	s.WriteString(dimStyle.Render(fmt.Sprintf("  %-9s %-10s %12s %12s %12s", "STATUS", "CARGO", "NEEDED", "AVAILABLE", "SHORTFALL")))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render("  " + strings.Repeat("─", 60)))
	s.WriteString("\n")

	for i, g := range m.summary.Groups {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		label := report.StatusStyle(g.Status).Render(fmt.Sprintf("%-9s", report.StatusLabel(g.Status)))
		line := fmt.Sprintf(" %-10s %12.0f %12.0f %12.0f", g.CargoType, g.TotalVolume, g.AvailableVolume, g.Shortfall)

		if i == m.cursor {
			s.WriteString(cursor + label + listSelectedStyle.Render(line))
		} else {
			s.WriteString(cursor + label + listNormalStyle.Render(line))
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) viewDetails() string {
	if m.cursor < 0 || m.cursor >= len(m.summary.Groups) {
		return "No group selected"
	}
	g := m.summary.Groups[m.cursor]

	header := detailsHeaderStyle.Render(fmt.Sprintf("%s storage", strings.ToUpper(string(g.CargoType))))

	var rows []string
	for _, r := range g.WareRows {
		rows = append(rows, fmt.Sprintf("%-24s %-6s %10.1f/h %12.0f m3", r.WareName, r.Direction, r.HourlyAmount, r.TotalVolume))
	}
	if len(rows) == 0 {
		rows = append(rows, dimStyle.Render("no buffered wares"))
	}

	var mods []string
	switch {
	case g.Shortfall <= 0:
		mods = append(mods, special.Render("capacity is sufficient"))
	case len(g.RecommendedModules) == 0:
		mods = append(mods, warning.Render("no storage module matches the current filter"))
	default:
		for _, r := range g.RecommendedModules {
			mods = append(mods, special.Render(fmt.Sprintf("+ %d x %s (%.0f)", r.Count, r.ModuleName, r.TotalCapacity)))
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(rows, "\n"),
		"",
		report.StatusStyle(g.Status).Render(fmt.Sprintf("%s shortfall %.0f of %.0f m3", report.StatusLabel(g.Status), g.Shortfall, g.TotalVolume)),
		strings.Join(mods, "\n"),
	)
	return detailsBoxStyle.Render(body)
}
