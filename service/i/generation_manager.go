package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/google/uuid"
)

// GenerationManager hosts many generations and drives them on behalf of remote callers.
type GenerationManager interface {
	Start(ctx context.Context, p generation.Params) (uuid.UUID, generation.View, error)
	Step(ctx context.Context, id uuid.UUID, count int) (generation.View, error)
	Snapshot(ctx context.Context, id uuid.UUID) (generation.View, error)
	Reset(ctx context.Context, id uuid.UUID, seed *uint64) (generation.View, error)
	SetRunning(ctx context.Context, id uuid.UUID, running bool) (generation.View, error)
	AdjustRate(ctx context.Context, id uuid.UUID, delta int) (generation.View, error)
	Subscribe(ctx context.Context, id uuid.UUID, buf int) (<-chan generation.View, func(), error)
	Remove(ctx context.Context, id uuid.UUID) error
}
