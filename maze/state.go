package maze

import "fmt"

// State is the minimal data needed to resume stepping exactly where it stopped.
// Walls and Marks hold one entry per cell in row-major order.
type State struct {
	Width   int      `json:"width" bson:"width"`
	Height  int      `json:"height" bson:"height"`
	Walls   []byte   `json:"walls" bson:"walls"` // 4-bit wall mask per cell, see Cell.WallMask
	Marks   []byte   `json:"marks" bson:"marks"`
	Current Position `json:"current" bson:"current"`
	Done    bool     `json:"done" bson:"done"`
}

// Save captures the resume state of a and its grid.
func Save(a *Agent) State {
	g := a.grid
	st := State{
		Width:   g.width,
		Height:  g.height,
		Walls:   make([]byte, 0, g.width*g.height),
		Marks:   make([]byte, 0, g.width*g.height),
		Current: a.current.pos,
		Done:    a.done,
	}
	for _, row := range g.cells {
		for _, c := range row {
			st.Walls = append(st.Walls, c.WallMask())
			st.Marks = append(st.Marks, byte(c.mark))
		}
	}
	return st
}

// Load rebuilds a grid and agent from st. The agent draws from rng from here on.
func Load(st State, rng Rand) (*Agent, error) {
	g, err := NewGrid(st.Width, st.Height)
	if err != nil {
		return nil, err
	}
	total := st.Width * st.Height
	if len(st.Walls) != total || len(st.Marks) != total {
		return nil, fmt.Errorf("%w: want %d cells, got %d walls and %d marks", ErrCorruptState, total, len(st.Walls), len(st.Marks))
	}

	for i, mask := range st.Walls {
		if mask > 0xF || st.Marks[i] > byte(Finished) {
			return nil, fmt.Errorf("%w: cell %d", ErrCorruptState, i)
		}
		c := g.cells[i/st.Width][i%st.Width]
		for _, d := range Directions {
			c.walls[d] = mask&(1<<d) != 0
		}
		c.mark = Mark(st.Marks[i])
	}

	for _, row := range g.cells {
		for _, c := range row {
			for _, d := range []Direction{East, South} {
				if n := g.Neighbor(c, d); n != nil && c.walls[d] != n.walls[d.Opposite()] {
					return nil, fmt.Errorf("%w: asymmetric wall at %v side %s", ErrCorruptState, c.pos, d)
				}
			}
		}
	}

	cur := g.At(st.Current)
	if cur == nil || !cur.Visited() {
		return nil, fmt.Errorf("%w: agent at %v", ErrCorruptState, st.Current)
	}

	return &Agent{grid: g, current: cur, done: st.Done, rng: rng}, nil
}
