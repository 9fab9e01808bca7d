package tui

import (
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/charmbracelet/lipgloss"
)

var (
	wallStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	statusStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	currentStyle = lipgloss.NewStyle().Background(lipgloss.Color("#FF0000"))
	markStyles   = map[maze.Mark]lipgloss.Style{
		maze.Unvisited: lipgloss.NewStyle().Background(lipgloss.Color("#000000")),
		maze.Open:      lipgloss.NewStyle().Background(lipgloss.Color("#192B64")),
		maze.Finished:  lipgloss.NewStyle().Background(lipgloss.Color("#808080")),
	}
)
