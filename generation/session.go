// Package generation drives a maze.Agent for interactive use.
//
// A Session owns one grid, its agent, the seeded random source and the carve policy. It
// steps on demand or on its own at a configurable rate, can be paused and reset, fans out
// snapshots to renderers, and saves or restores its resume state.
package generation

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"golang.org/x/time/rate"
)

// Pacing constants for auto-stepping, in steps per second.
const (
	DefaultRate = 60
	MinRate     = 5
	RateStep    = 5

	// seedStream is the fixed second PCG word; the caller's seed picks the sequence.
	seedStream = 0x9e3779b97f4a7c15
)

// frameInterval is the shortest gap between views pushed by the auto-step loop.
const frameInterval = time.Second / 30

// Params describes a generation run.
type Params struct {
	Width  int
	Height int
	Seed   uint64
	StartX int
	StartY int
	Carve  *maze.CarvePolicy // nil selects maze.DefaultCarvePolicy
}

// View is a snapshot of the maze together with the driver's own state.
type View struct {
	maze.Snapshot
	Seed    uint64 `json:"seed"`
	Steps   int    `json:"steps"`
	Running bool   `json:"running"`
	Rate    int    `json:"rate"`
	Carved  bool   `json:"carved"`
}

// Session serializes every access to one grid and agent.
type Session struct {
	params      Params
	src         *rand.PCG        // Random source the agent draws from
	agent       *maze.Agent      // Stepping state machine
	carve       maze.CarvePolicy // Entrance and exit opened once done
	carved      bool             // Carve applied
	steps       int              // Effective Step calls since the last reset
	running     bool             // Auto-stepping enabled
	rate        int              // Auto-step rate in steps per second
	limiter     *rate.Limiter
	subscribers map[int]chan View
	nextSubID   int
	dirty       bool      // Steps taken since the last view was pushed
	lastFrame   time.Time // When the last view was pushed
	doneHandler func(View)
	mu          sync.Mutex
}

// Start validates p and creates a session positioned on the start cell.
func Start(p Params) (*Session, error) {
	s := &Session{
		rate:        DefaultRate,
		limiter:     rate.NewLimiter(rate.Limit(DefaultRate), 1),
		subscribers: make(map[int]chan View),
	}
	if err := s.build(p); err != nil {
		return nil, err
	}
	return s, nil
}

// build discards the current grid and agent and constructs fresh ones from p.
func (s *Session) build(p Params) error {
	g, err := maze.NewGrid(p.Width, p.Height)
	if err != nil {
		return err
	}

	carve := maze.DefaultCarvePolicy(p.Width, p.Height)
	if p.Carve != nil {
		carve = *p.Carve
	}
	if err := carve.Validate(g); err != nil {
		return err
	}

	src := rand.NewPCG(p.Seed, seedStream)
	agent, err := maze.NewAgent(g, maze.Position{X: p.StartX, Y: p.StartY}, rand.New(src))
	if err != nil {
		return err
	}

	s.params = p
	s.src = src
	s.agent = agent
	s.carve = carve
	s.carved = false
	s.steps = 0
	return nil
}

// Params returns the parameters of the current run.
func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Step advances the agent once and opens the entrance and exit the first time it is
// done. It reports whether anything changed.
func (s *Session) Step() bool {
	return s.StepN(1) == 1
}

// StepN advances up to n steps under one lock hold and returns how many changed the maze.
// Subscribers receive a single view for the whole batch.
func (s *Session) StepN(n int) int {
	taken, done, handler := s.advance(n, true)
	if done != nil && handler != nil {
		handler(*done)
	}
	return taken
}

// advance runs up to n steps. Pending changes reach subscribers when flush is set, when the
// run completes, or once frameInterval has passed since the last frame. done is set when
// this batch completed the run.
func (s *Session) advance(n int, flush bool) (taken int, done *View, handler func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := false
	for taken < n {
		changed, f := s.stepLocked()
		if !changed {
			break
		}
		taken++
		finished = finished || f
	}
	if taken > 0 {
		s.dirty = true
	}
	if s.dirty && (flush || finished || time.Since(s.lastFrame) >= frameInterval) {
		s.broadcastLocked()
	}
	if finished {
		v := s.viewLocked()
		done, handler = &v, s.doneHandler
	}
	return taken, done, handler
}

// stepLocked reports whether the maze changed and whether this step completed it.
func (s *Session) stepLocked() (changed, finished bool) {
	if s.carved {
		return false, false
	}
	if !s.agent.Done() {
		s.agent.Step()
		s.steps++
		changed = true
	}
	if s.agent.Done() {
		// Start and Restore both validate the policy against this grid.
		if err := s.carve.Apply(s.agent); err != nil {
			panic(fmt.Sprintf("generation: carve policy rejected after validation: %v", err))
		}
		s.carved = true
		changed, finished = true, true
	}
	return changed, finished
}

// IsDone reports whether generation has completed.
func (s *Session) IsDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent.Done()
}

// Steps returns the number of effective steps since the last reset.
func (s *Session) Steps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Reset rebuilds the maze with the same dimensions and start, seeded from the current
// random source so a chain of resets is reproducible.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.params
	p.Seed = s.src.Uint64()
	return s.resetLocked(p)
}

// ResetWithSeed rebuilds the maze with the same dimensions and start and a new seed.
func (s *Session) ResetWithSeed(seed uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.params
	p.Seed = seed
	return s.resetLocked(p)
}

func (s *Session) resetLocked(p Params) error {
	if err := s.build(p); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.broadcastLocked()
	return nil
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return View{
		Snapshot: maze.Capture(s.agent),
		Seed:     s.params.Seed,
		Steps:    s.steps,
		Running:  s.running,
		Rate:     s.rate,
		Carved:   s.carved,
	}
}

// String renders the maze as text.
func (s *Session) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent.Grid().String()
}

// SetDoneHandler registers f to run once each time a run completes.
// f runs on the stepping goroutine without the session lock held.
func (s *Session) SetDoneHandler(f func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doneHandler = f
}
