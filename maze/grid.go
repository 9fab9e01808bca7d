/*
Package maze provides the data model and stepping algorithm of a perfect-maze generator.

A Grid owns the cells and their walls. An Agent walks the grid one Step at a time, carving
passages with a randomized depth-first traversal that backtracks without a stack: it
retreats through open passages into cells that are not yet finished. Once the agent is
done, a CarvePolicy opens an entrance and an exit on the boundary.

None of the types here are safe for concurrent use. Callers serialize access.
*/
package maze

import (
	"fmt"
	"strings"
)

// Grid is a rectangular maze of Width x Height cells.
type Grid struct {
	width  int       // Number of columns
	height int       // Number of rows
	cells  [][]*Cell // cells[y][x]
}

// NewGrid allocates a width x height grid.
// Every boundary cell has its outward wall closed; all interior walls start open.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimension, width, height)
	}

	cells := make([][]*Cell, height)
	for y := range cells {
		cells[y] = make([]*Cell, width)
		for x := range cells[y] {
			c := &Cell{pos: Position{X: x, Y: y}}
			c.walls[North] = y == 0
			c.walls[South] = y == height-1
			c.walls[West] = x == 0
			c.walls[East] = x == width-1
			cells[y][x] = c
		}
	}

	return &Grid{width: width, height: height, cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// InBound reports whether (x, y) lies inside the grid.
func (g *Grid) InBound(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns the cell at (x, y), or nil when out of bounds.
func (g *Grid) Cell(x, y int) *Cell {
	if !g.InBound(x, y) {
		return nil
	}
	return g.cells[y][x]
}

// At returns the cell at p, or nil when out of bounds.
func (g *Grid) At(p Position) *Cell {
	return g.Cell(p.X, p.Y)
}

// Neighbor returns the cell adjacent to c in direction d, or nil past the boundary.
func (g *Grid) Neighbor(c *Cell, d Direction) *Cell {
	return g.At(c.pos.Add(d))
}

// Neighbors returns the four neighbors of c in scan order [West, North, East, South].
// A slot is nil when the neighbor would fall outside the grid.
func (g *Grid) Neighbors(c *Cell) [4]*Cell {
	var out [4]*Cell
	for _, d := range Directions {
		out[d] = g.Neighbor(c, d)
	}
	return out
}

// SetWall closes side d of c and the facing side of its neighbor together.
// On the boundary there is no neighbor and the wall is already closed.
func (g *Grid) SetWall(c *Cell, d Direction) {
	c.walls[d] = true
	if n := g.Neighbor(c, d); n != nil {
		n.walls[d.Opposite()] = true
	}
}

// OpenBoundary clears the outward wall on side d of the cell at p.
// It is the only operation that ever opens a wall.
func (g *Grid) OpenBoundary(p Position, d Direction) error {
	c := g.At(p)
	if c == nil || !d.Valid() || g.Neighbor(c, d) != nil {
		return fmt.Errorf("%w: %v side %s", ErrNotBoundary, p, d)
	}
	c.walls[d] = false
	return nil
}

// OpenEdges counts interior adjacencies with no wall between them.
func (g *Grid) OpenEdges() int {
	count := 0
	for _, row := range g.cells {
		for _, c := range row {
			// East and South only, so each adjacency is counted once.
			if c.pos.X+1 < g.width && !c.walls[East] {
				count++
			}
			if c.pos.Y+1 < g.height && !c.walls[South] {
				count++
			}
		}
	}
	return count
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+")
	for x := 0; x < g.width; x++ {
		if g.cells[0][x].walls[North] {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for y := 0; y < g.height; y++ {
		// Cell rows
		if g.cells[y][0].walls[West] {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for x := 0; x < g.width; x++ {
			if g.cells[y][x].walls[East] {
				b.WriteString("   |")
			} else {
				b.WriteString("    ")
			}
		}
		b.WriteString("\n")

		// Wall rows
		b.WriteString("+")
		for x := 0; x < g.width; x++ {
			if g.cells[y][x].walls[South] {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
