package maze

import "fmt"

// Rand is the random source an Agent draws from.
// *math/rand/v2.Rand satisfies it; seed it for reproducible mazes.
type Rand interface {
	IntN(n int) int
}

// Agent carves a maze by walking the grid one step at a time.
type Agent struct {
	grid    *Grid // Grid being carved
	current *Cell // Cell the agent stands on
	done    bool  // Set once no legal move remains
	rng     Rand  // Source for choosing among unvisited neighbors
}

// NewAgent binds an agent to the start cell and marks that cell visited.
func NewAgent(g *Grid, start Position, rng Rand) (*Agent, error) {
	c := g.At(start)
	if c == nil {
		return nil, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrInvalidStart, start.X, start.Y, g.width, g.height)
	}
	c.visit()
	return &Agent{grid: g, current: c, rng: rng}, nil
}

// Current returns the position of the agent.
func (a *Agent) Current() Position {
	return a.current.pos
}

// Done reports whether generation has completed.
func (a *Agent) Done() bool {
	return a.done
}

// Grid returns the grid the agent carves.
func (a *Agent) Grid() *Grid {
	return a.grid
}

// Step advances the generation by one move. Once done it does nothing.
//
// With an unvisited neighbor available the agent advances into a random one, walling it
// off from every other visited neighbor so the carved passage is the only way in.
// Otherwise it marks the current cell finished and retreats through the first open
// passage, in scan order, that leads to an unfinished cell. When no such passage exists
// the agent stays put and generation is done.
func (a *Agent) Step() {
	if a.done {
		return
	}

	c := a.current
	neighbors := a.grid.Neighbors(c)

	var unvisited [4]*Cell
	n := 0
	for _, nb := range neighbors {
		if nb != nil && !nb.Visited() {
			unvisited[n] = nb
			n++
		}
	}

	next := c
	if n > 0 {
		next = unvisited[a.rng.IntN(n)]
		next.visit()
		for d, e := range a.grid.Neighbors(next) {
			if e != nil && e != c && e.Visited() && !next.walls[d] {
				a.grid.SetWall(next, Direction(d))
			}
		}
	} else {
		for d, f := range neighbors {
			if f != nil && !c.walls[d] && !f.Finished() {
				next = f
				break
			}
		}
		c.finish()
	}

	if next == c {
		a.done = true
	}
	a.current = next
}
