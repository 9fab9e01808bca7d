package maze

// Direction names one side of a cell.
// The numeric order is the scan order used by every neighbor walk and must not change.
type Direction int

const (
	West Direction = iota
	North
	East
	South
)

// Directions lists every direction in scan order.
var Directions = [4]Direction{West, North, East, South}

var directionNames = [4]string{"West", "North", "East", "South"}

// deltas holds the (dx, dy) offset of the neighbor in each direction.
var deltas = [4]Position{
	West:  {X: -1, Y: 0},
	North: {X: 0, Y: -1},
	East:  {X: 1, Y: 0},
	South: {X: 0, Y: 1},
}

// Opposite returns the direction facing back across the same wall.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the coordinate offset of the neighbor in direction d.
func (d Direction) Delta() Position {
	return deltas[d]
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= West && d <= South
}

func (d Direction) String() string {
	if !d.Valid() {
		return "Unknown"
	}
	return directionNames[d]
}

// Position is a cell coordinate. X grows east, Y grows south.
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns the position one step away in direction d.
func (p Position) Add(d Direction) Position {
	delta := d.Delta()
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}
