package generation

import (
	"context"

	"golang.org/x/time/rate"
)

// Running reports whether auto-stepping is enabled.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetRunning enables or pauses auto-stepping.
func (s *Session) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
	s.broadcastLocked()
}

// ToggleRunning flips auto-stepping and returns the new setting.
func (s *Session) ToggleRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = !s.running
	s.broadcastLocked()
	return s.running
}

// Rate returns the auto-step rate in steps per second.
func (s *Session) Rate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// SetRate sets the auto-step rate, never below MinRate, and returns the applied value.
func (s *Session) SetRate(stepsPerSecond int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRateLocked(stepsPerSecond)
}

// AdjustRate shifts the auto-step rate by delta, never below MinRate.
func (s *Session) AdjustRate(delta int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setRateLocked(s.rate + delta)
}

func (s *Session) setRateLocked(r int) int {
	s.rate = max(r, MinRate)
	s.limiter.SetLimit(rate.Limit(s.rate))
	s.broadcastLocked()
	return s.rate
}

// Run steps the session at its current rate while it is running, until ctx ends.
// Views from consecutive auto-steps are coalesced to at most one per frame interval; the
// view that completes the run is always pushed.
// It always returns a non-nil error once ctx is done.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return err
		}
		if !s.Running() {
			continue
		}
		_, done, handler := s.advance(1, false)
		if done != nil && handler != nil {
			handler(*done)
		}
	}
}
