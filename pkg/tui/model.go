// Package tui is the interactive review screen shown before recommendations
// are merged into the station.
package tui

import (
	"github.com/DrSkyle/stowage/pkg/engine/report"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewState int

const (
	ViewStateList ViewState = iota
	ViewStateDetail
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Details key.Binding
	Apply   key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Details, k.Apply, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Details: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "details"),
	),
	Apply: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "apply"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model reviews one plan summary. It never touches the station itself: the
// caller reads Confirmed after the program exits.
type Model struct {
	help help.Model

	summary   report.Summary
	state     ViewState
	cursor    int
	width     int
	height    int
	confirmed bool
	quitting  bool
}

func NewModel(s report.Summary) Model {
	return Model{
		help:    help.New(),
		summary: s,
		state:   ViewStateList,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Confirmed reports whether the user chose to apply the recommendations.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Update handles navigation. Apply is only accepted when something is short.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.state == ViewStateDetail && msg.String() == "esc" {
				m.state = ViewStateList
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.summary.Groups)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Details):
			if len(m.summary.Groups) == 0 {
				return m, nil
			}
			if m.state == ViewStateList {
				m.state = ViewStateDetail
			} else {
				m.state = ViewStateList
			}
		case key.Matches(msg, keys.Apply):
			if !m.summary.Short() {
				return m, nil
			}
			m.confirmed = true
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}
