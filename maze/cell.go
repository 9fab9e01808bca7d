package maze

// Mark is the exploration state of a cell.
// A cell only moves forward through Unvisited, Open, Finished.
type Mark uint8

const (
	Unvisited Mark = iota // Not reached yet.
	Open                  // Reached, branch still being explored.
	Finished              // Every branch through this cell is explored.
)

func (m Mark) String() string {
	switch m {
	case Unvisited:
		return "unvisited"
	case Open:
		return "open"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Cell represents a single cell in a maze grid.
// It holds its wall flags, indexed by Direction, and its exploration mark.
type Cell struct {
	pos   Position // Fixed coordinate of the cell
	walls [4]bool  // walls[d] is true when side d is closed
	mark  Mark     // Exploration state
}

// Pos returns the coordinate of the cell.
func (c *Cell) Pos() Position {
	return c.pos
}

// Wall reports whether side d of the cell is closed.
func (c *Cell) Wall(d Direction) bool {
	return c.walls[d]
}

// WallMask packs the wall flags into the low four bits, bit d set when side d is closed.
func (c *Cell) WallMask() uint8 {
	var mask uint8
	for _, d := range Directions {
		if c.walls[d] {
			mask |= 1 << d
		}
	}
	return mask
}

// Mark returns the exploration state of the cell.
func (c *Cell) Mark() Mark {
	return c.mark
}

// Visited reports whether the agent has reached the cell.
func (c *Cell) Visited() bool {
	return c.mark != Unvisited
}

// Finished reports whether the cell's branch is fully explored.
func (c *Cell) Finished() bool {
	return c.mark == Finished
}

func (c *Cell) visit() {
	if c.mark == Unvisited {
		c.mark = Open
	}
}

func (c *Cell) finish() {
	c.mark = Finished
}
