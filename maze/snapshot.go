package maze

import "fmt"

// CellView is the read-only state of one cell.
type CellView struct {
	Walls [4]bool `json:"walls"` // Indexed by Direction
	Mark  Mark    `json:"mark"`
}

// Snapshot is an immutable copy of the grid and agent for renderers.
type Snapshot struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Cells   [][]CellView `json:"cells"` // Cells[y][x]
	Current Position     `json:"current"`
	Done    bool         `json:"done"`
}

// Capture copies the agent and the grid it carves into a Snapshot.
func Capture(a *Agent) Snapshot {
	g := a.grid
	cells := make([][]CellView, g.height)
	for y, row := range g.cells {
		cells[y] = make([]CellView, g.width)
		for x, c := range row {
			cells[y][x] = CellView{Walls: c.walls, Mark: c.mark}
		}
	}
	return Snapshot{
		Width:   g.width,
		Height:  g.height,
		Cells:   cells,
		Current: a.current.pos,
		Done:    a.done,
	}
}

// At returns the view of the cell at (x, y).
func (s Snapshot) At(x, y int) CellView {
	return s.Cells[y][x]
}

// Count returns how many cells carry mark m.
func (s Snapshot) Count(m Mark) int {
	n := 0
	for _, row := range s.Cells {
		for _, c := range row {
			if c.Mark == m {
				n++
			}
		}
	}
	return n
}

// MarshalText encodes the mark by name.
func (m Mark) MarshalText() ([]byte, error) {
	if m > Finished {
		return nil, fmt.Errorf("%w: mark %d", ErrCorruptState, m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mark name.
func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unvisited":
		*m = Unvisited
	case "open":
		*m = Open
	case "finished":
		*m = Finished
	default:
		return fmt.Errorf("%w: mark %q", ErrCorruptState, text)
	}
	return nil
}
