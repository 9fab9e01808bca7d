// Package tui renders a generation in the terminal and maps keys to stepping controls.
package tui

import (
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/beka-birhanu/vinom-maze/maze"
	tea "github.com/charmbracelet/bubbletea"
)

const helpText = "space run/pause • enter step • r reset • ←/→ rate • esc quit"

// Model is the bubbletea model driving one generation.
type Model struct {
	session *generation.Session
	err     error
}

// New creates a Model for s.
func New(s *generation.Session) Model {
	return Model{session: s}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return TickCmd(m.session.Rate())
}

// Update handles ticks and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.session.Running() {
			m.session.Step()
		}
		return m, TickCmd(m.session.Rate())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeySpace:
		m.session.ToggleRunning()
	case tea.KeyEnter:
		m.session.Step()
	case tea.KeyLeft:
		m.session.AdjustRate(-generation.RateStep)
	case tea.KeyRight:
		m.session.AdjustRate(generation.RateStep)
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case " ":
			m.session.ToggleRunning()
		case "r":
			m.err = m.session.Reset()
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View draws the maze, a status line and the key help.
func (m Model) View() string {
	v := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(Render(v.Snapshot))

	state := "paused"
	if v.Running {
		state = "running"
	}
	if v.Done {
		state = "done"
	}
	status := fmt.Sprintf("%dx%d  seed %d  steps %d  %d steps/s  %s", v.Width, v.Height, v.Seed, v.Steps, v.Rate, state)
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("error: %s\n", m.err))
	}
	b.WriteString(helpStyle.Render(helpText))
	b.WriteString("\n")
	return b.String()
}

// Render draws a snapshot with walls as box lines and cells colored by mark.
func Render(s maze.Snapshot) string {
	var b strings.Builder

	for y := 0; y < s.Height; y++ {
		// Walls above the row
		for x := 0; x < s.Width; x++ {
			b.WriteString(wallStyle.Render("+"))
			if s.At(x, y).Walls[maze.North] {
				b.WriteString(wallStyle.Render("--"))
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString(wallStyle.Render("+"))
		b.WriteString("\n")

		// Cells and the walls between them
		for x := 0; x < s.Width; x++ {
			c := s.At(x, y)
			b.WriteString(sideWall(c.Walls[maze.West]))
			style := markStyles[c.Mark]
			if s.Current == (maze.Position{X: x, Y: y}) {
				style = currentStyle
			}
			b.WriteString(style.Render("  "))
		}
		b.WriteString(sideWall(s.At(s.Width-1, y).Walls[maze.East]))
		b.WriteString("\n")
	}

	// Bottom boundary
	for x := 0; x < s.Width; x++ {
		b.WriteString(wallStyle.Render("+"))
		if s.At(x, s.Height-1).Walls[maze.South] {
			b.WriteString(wallStyle.Render("--"))
		} else {
			b.WriteString("  ")
		}
	}
	b.WriteString(wallStyle.Render("+"))
	b.WriteString("\n")
	return b.String()
}

func sideWall(closed bool) string {
	if closed {
		return wallStyle.Render("|")
	}
	return " "
}
