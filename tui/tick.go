package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent at the auto-step rate to advance a running generation.
type TickMsg time.Time

// TickCmd returns a command that sends TickMsg after one step interval at stepsPerSecond.
func TickCmd(stepsPerSecond int) tea.Cmd {
	interval := time.Second / time.Duration(max(stepsPerSecond, 1))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
