package maze

import "fmt"

// CarvePolicy names the two boundary walls opened once generation completes.
type CarvePolicy struct {
	Entrance     Position  `json:"entrance" bson:"entrance"`
	EntranceSide Direction `json:"entrance_side" bson:"entrance_side"`
	Exit         Position  `json:"exit" bson:"exit"`
	ExitSide     Direction `json:"exit_side" bson:"exit_side"`
}

// DefaultCarvePolicy opens the West wall of the top-left cell and the East wall of the
// bottom-right cell.
func DefaultCarvePolicy(width, height int) CarvePolicy {
	return CarvePolicy{
		Entrance:     Position{X: 0, Y: 0},
		EntranceSide: West,
		Exit:         Position{X: width - 1, Y: height - 1},
		ExitSide:     East,
	}
}

// Validate checks that both sides exist in g and face outward.
func (p CarvePolicy) Validate(g *Grid) error {
	for _, side := range []struct {
		pos Position
		dir Direction
	}{{p.Entrance, p.EntranceSide}, {p.Exit, p.ExitSide}} {
		c := g.At(side.pos)
		if c == nil || !side.dir.Valid() || g.Neighbor(c, side.dir) != nil {
			return fmt.Errorf("%w: %v side %s", ErrInvalidCarve, side.pos, side.dir)
		}
	}
	return nil
}

// Apply opens the entrance and exit walls. It fails with ErrNotDone until the agent has
// finished, and repeating it after that changes nothing.
func (p CarvePolicy) Apply(a *Agent) error {
	if !a.Done() {
		return ErrNotDone
	}
	if err := p.Validate(a.grid); err != nil {
		return err
	}
	if err := a.grid.OpenBoundary(p.Entrance, p.EntranceSide); err != nil {
		return err
	}
	return a.grid.OpenBoundary(p.Exit, p.ExitSide)
}
