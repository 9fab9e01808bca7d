package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/google/uuid"
)

// SnapshotStore keeps the resume state of in-progress generations.
type SnapshotStore interface {
	// Save stores or replaces the record of a generation.
	Save(ctx context.Context, id uuid.UUID, rec generation.Record) error

	// Load returns the record of a generation.
	// Returns an error wrapping ErrNotFound from the implementation when it does not exist.
	Load(ctx context.Context, id uuid.UUID) (generation.Record, error)

	// Delete removes the record of a generation. Deleting a missing record is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
