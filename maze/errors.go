package maze

import "errors"

// Construction and policy errors. Stepping itself never fails.
var (
	ErrInvalidDimension = errors.New("maze dimensions must be at least 1x1")
	ErrInvalidStart     = errors.New("start position is outside the maze")
	ErrNotDone          = errors.New("maze generation is not done")
	ErrInvalidCarve     = errors.New("carve side does not face the maze boundary")
	ErrNotBoundary      = errors.New("wall is not on the maze boundary")
	ErrCorruptState     = errors.New("corrupt maze state")
)
