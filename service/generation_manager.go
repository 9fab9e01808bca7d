package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/beka-birhanu/vinom-maze/logger"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

const (
	maxStepsPerRequest = 100_000
	persistTimeout     = 2 * time.Second
)

var (
	ErrSessionNotFound = errors.New("generation not found")
	ErrInvalidCount    = errors.New("step count must be positive")
	ErrMissingLogger   = errors.New("logger is required")
)

var _ i.GenerationManager = &GenerationManager{}

type session struct {
	gen    *generation.Session
	cancel context.CancelFunc
}

// GenerationManager hosts generations by ID. Each one runs its own auto-step loop.
// Resume state is saved to the snapshot store after every change made through the manager
// and when a generation completes; completed mazes are archived once and stay readable
// from the archive after the store forgets them.
type GenerationManager struct {
	sessions map[uuid.UUID]*session
	store    i.SnapshotStore // optional
	archive  i.MazeArchive   // optional
	metrics  i.Metrics       // optional
	logger   *logger.Logger
	ctx      context.Context
	stop     context.CancelFunc
	sync.RWMutex
}

// Config holds the dependencies of a GenerationManager.
type Config struct {
	Store   i.SnapshotStore
	Archive i.MazeArchive
	Metrics i.Metrics
	Logger  *logger.Logger
}

// NewGenerationManager creates a GenerationManager. Store, Archive and Metrics may be nil.
func NewGenerationManager(c *Config) (*GenerationManager, error) {
	if c == nil || c.Logger == nil {
		return nil, ErrMissingLogger
	}
	ctx, stop := context.WithCancel(context.Background())
	return &GenerationManager{
		sessions: make(map[uuid.UUID]*session),
		store:    c.Store,
		archive:  c.Archive,
		metrics:  c.Metrics,
		logger:   c.Logger,
		ctx:      ctx,
		stop:     stop,
	}, nil
}

// Start creates a generation and returns its ID and initial view.
func (g *GenerationManager) Start(ctx context.Context, p generation.Params) (uuid.UUID, generation.View, error) {
	gen, err := generation.Start(p)
	if err != nil {
		return uuid.Nil, generation.View{}, err
	}

	g.Lock()
	id := uuid.New()
	for {
		if _, ok := g.sessions[id]; !ok {
			break
		}
		id = uuid.New()
	}
	g.attachLocked(id, gen)
	g.Unlock()

	if g.metrics != nil {
		g.metrics.GenerationStarted()
	}
	g.persist(ctx, id, gen)
	g.logger.Infof("started generation %s (%dx%d seed %d)", id, p.Width, p.Height, p.Seed)
	return id, gen.Snapshot(), nil
}

// attachLocked registers gen under id and launches its auto-step loop.
func (g *GenerationManager) attachLocked(id uuid.UUID, gen *generation.Session) {
	runCtx, cancel := context.WithCancel(g.ctx)
	gen.SetDoneHandler(func(v generation.View) { g.completed(id, gen, v) })
	g.sessions[id] = &session{gen: gen, cancel: cancel}
	if g.metrics != nil {
		g.metrics.SetActive(len(g.sessions))
	}
	go func() {
		_ = gen.Run(runCtx)
	}()
}

// lookup returns the live session, restoring it from the snapshot store or, for completed
// mazes, the archive when needed.
func (g *GenerationManager) lookup(ctx context.Context, id uuid.UUID) (*generation.Session, error) {
	g.RLock()
	s, ok := g.sessions[id]
	g.RUnlock()
	if ok {
		return s.gen, nil
	}

	rec, ok := g.loadRecord(ctx, id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	gen, err := generation.Restore(rec)
	if err != nil {
		g.logger.Errorf("restoring generation %s: %s", id, err)
		return nil, ErrSessionNotFound
	}

	g.Lock()
	defer g.Unlock()
	if s, ok := g.sessions[id]; ok {
		return s.gen, nil
	}
	g.attachLocked(id, gen)
	g.logger.Infof("resumed generation %s at step %d", id, rec.Steps)
	return gen, nil
}

// loadRecord reads the resume state of id from the snapshot store, then the archive.
func (g *GenerationManager) loadRecord(ctx context.Context, id uuid.UUID) (generation.Record, bool) {
	if g.store != nil {
		rec, err := g.store.Load(ctx, id)
		if err == nil {
			return rec, true
		}
		g.logger.Warning(fmt.Sprintf("loading generation %s: %s", id, err))
	}
	if g.archive != nil {
		rec, err := g.archive.ByID(ctx, id)
		if err == nil {
			return rec, true
		}
		g.logger.Warning(fmt.Sprintf("loading archived generation %s: %s", id, err))
	}
	return generation.Record{}, false
}

// Step advances a generation by count steps and returns the resulting view.
func (g *GenerationManager) Step(ctx context.Context, id uuid.UUID, count int) (generation.View, error) {
	if count <= 0 {
		return generation.View{}, ErrInvalidCount
	}
	gen, err := g.lookup(ctx, id)
	if err != nil {
		return generation.View{}, err
	}

	taken := gen.StepN(min(count, maxStepsPerRequest))
	if g.metrics != nil {
		g.metrics.StepsRequested(taken)
	}
	if taken > 0 {
		g.persist(ctx, id, gen)
	}
	return gen.Snapshot(), nil
}

// Snapshot returns the current view of a generation.
func (g *GenerationManager) Snapshot(ctx context.Context, id uuid.UUID) (generation.View, error) {
	gen, err := g.lookup(ctx, id)
	if err != nil {
		return generation.View{}, err
	}
	return gen.Snapshot(), nil
}

// Reset discards a generation's progress. A nil seed draws the next seed from the
// generation's own random source.
func (g *GenerationManager) Reset(ctx context.Context, id uuid.UUID, seed *uint64) (generation.View, error) {
	gen, err := g.lookup(ctx, id)
	if err != nil {
		return generation.View{}, err
	}

	if seed != nil {
		err = gen.ResetWithSeed(*seed)
	} else {
		err = gen.Reset()
	}
	if err != nil {
		return generation.View{}, err
	}

	if g.metrics != nil {
		g.metrics.GenerationStarted()
	}
	g.persist(ctx, id, gen)
	v := gen.Snapshot()
	g.logger.Infof("reset generation %s with seed %d", id, v.Seed)
	return v, nil
}

// SetRunning starts or pauses auto-stepping.
func (g *GenerationManager) SetRunning(ctx context.Context, id uuid.UUID, running bool) (generation.View, error) {
	gen, err := g.lookup(ctx, id)
	if err != nil {
		return generation.View{}, err
	}
	gen.SetRunning(running)
	g.persist(ctx, id, gen)
	return gen.Snapshot(), nil
}

// AdjustRate shifts the auto-step rate by delta steps per second.
func (g *GenerationManager) AdjustRate(ctx context.Context, id uuid.UUID, delta int) (generation.View, error) {
	gen, err := g.lookup(ctx, id)
	if err != nil {
		return generation.View{}, err
	}
	gen.AdjustRate(delta)
	g.persist(ctx, id, gen)
	return gen.Snapshot(), nil
}

// Subscribe streams views of a generation until the returned cancel func is called or the
// generation is removed.
func (g *GenerationManager) Subscribe(ctx context.Context, id uuid.UUID, buf int) (<-chan generation.View, func(), error) {
	gen, err := g.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	updates, cancel := gen.Subscribe(buf)
	return updates, cancel, nil
}

// Remove stops a generation and deletes its saved state.
func (g *GenerationManager) Remove(ctx context.Context, id uuid.UUID) error {
	g.Lock()
	s, ok := g.sessions[id]
	if ok {
		delete(g.sessions, id)
		if g.metrics != nil {
			g.metrics.SetActive(len(g.sessions))
		}
	}
	g.Unlock()

	if ok {
		s.cancel()
		s.gen.CloseSubscribers()
	}

	if g.store != nil {
		if err := g.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting generation %s: %w", id, err)
		}
	} else if !ok {
		return ErrSessionNotFound
	}

	g.logger.Infof("removed generation %s", id)
	return nil
}

// StopAll halts every auto-step loop and saves each generation.
func (g *GenerationManager) StopAll() {
	g.stop()

	g.Lock()
	defer g.Unlock()
	for id, s := range g.sessions {
		s.cancel()
		s.gen.CloseSubscribers()
		g.saveRecord(context.Background(), id, s.gen)
	}
	g.logger.Infof("stopped %d generations", len(g.sessions))
}

// completed runs once each time a generation finishes.
func (g *GenerationManager) completed(id uuid.UUID, gen *generation.Session, v generation.View) {
	ctx, cancel := context.WithTimeout(g.ctx, persistTimeout)
	defer cancel()

	g.RLock()
	defer g.RUnlock()
	if !g.registeredLocked(id, gen) {
		return
	}

	if g.metrics != nil {
		g.metrics.GenerationCompleted(v.Steps)
	}
	g.saveRecord(ctx, id, gen)

	if g.archive != nil {
		rec, err := gen.Record()
		if err == nil {
			err = g.archive.Save(ctx, id, rec)
		}
		if err != nil {
			g.logger.Errorf("archiving generation %s: %s", id, err)
			return
		}
	}
	g.logger.Infof("generation %s completed in %d steps", id, v.Steps)
}

// persist saves the resume state of gen while it is still registered under id. The read
// lock is held through the write so Remove cannot delete the record in between.
func (g *GenerationManager) persist(ctx context.Context, id uuid.UUID, gen *generation.Session) {
	g.RLock()
	defer g.RUnlock()
	if !g.registeredLocked(id, gen) {
		return
	}
	g.saveRecord(ctx, id, gen)
}

func (g *GenerationManager) registeredLocked(id uuid.UUID, gen *generation.Session) bool {
	s, ok := g.sessions[id]
	return ok && s.gen == gen
}

// saveRecord writes the resume state of gen. Failures are logged, not returned: the
// in-memory session stays authoritative.
func (g *GenerationManager) saveRecord(ctx context.Context, id uuid.UUID, gen *generation.Session) {
	if g.store == nil {
		return
	}
	rec, err := gen.Record()
	if err != nil {
		g.logger.Errorf("recording generation %s: %s", id, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()
	if err := g.store.Save(ctx, id, rec); err != nil {
		g.logger.Errorf("saving generation %s: %s", id, err)
	}
}
