// Package ui renders an optional terminal progress spinner tracking
// which pipeline phase (parse/desugar/check/lower) a compile is
// currently in. It is purely cosmetic: the driver never depends on
// anything in this package, and a caller
// that never constructs a Model pulls none of bubbletea's call graph in.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geeknik/aegis-c-compiler/internal/driver"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
var doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

type phaseMsg driver.Phase
type doneMsg struct{}

// Model is a bubbletea model that renders the active phase of one
// compile invocation as it moves through the events channel.
type Model struct {
	title   string
	events  <-chan driver.Phase
	spinner spinner.Model
	phase   driver.Phase
	done    bool
}

// New returns a Model that reads phase transitions from events until it
// is closed, at which point the spinner stops and the view renders done.
func New(title string, events <-chan driver.Phase) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return Model{title: title, events: events, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case phaseMsg:
		m.phase = driver.Phase(msg)
		if m.phase == driver.PhaseDone {
			m.done = true
			return m, tea.Quit
		}
		return m, m.listen()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.done {
		return doneStyle.Render(fmt.Sprintf("done: %s", m.title)) + "\n"
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), titleStyle.Render(fmt.Sprintf("%s (%s)", m.title, m.phase)))
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return phaseMsg(p)
	}
}
