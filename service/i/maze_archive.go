package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/google/uuid"
)

// MazeArchive persists completed mazes.
type MazeArchive interface {
	// Save inserts or replaces the archived maze with the given ID.
	Save(ctx context.Context, id uuid.UUID, rec generation.Record) error

	// ByID retrieves an archived maze.
	ByID(ctx context.Context, id uuid.UUID) (generation.Record, error)
}
