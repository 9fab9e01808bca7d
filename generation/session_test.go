package generation

import (
	"context"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart(t *testing.T) {
	t.Run("validates input", func(t *testing.T) {
		_, err := Start(Params{Width: 0, Height: 3})
		assert.ErrorIs(t, err, maze.ErrInvalidDimension)

		_, err = Start(Params{Width: 3, Height: 3, StartX: 3})
		assert.ErrorIs(t, err, maze.ErrInvalidStart)

		bad := maze.CarvePolicy{Entrance: maze.Position{X: 1, Y: 1}, EntranceSide: maze.North}
		_, err = Start(Params{Width: 3, Height: 3, Carve: &bad})
		assert.ErrorIs(t, err, maze.ErrInvalidCarve)
	})

	t.Run("begins on the start cell", func(t *testing.T) {
		s, err := Start(Params{Width: 5, Height: 4, Seed: 1, StartX: 2, StartY: 3})
		require.NoError(t, err)
		v := s.Snapshot()
		assert.Equal(t, maze.Position{X: 2, Y: 3}, v.Current)
		assert.Equal(t, maze.Open, v.At(2, 3).Mark)
		assert.Equal(t, DefaultRate, v.Rate)
		assert.False(t, v.Running)
		assert.False(t, s.IsDone())
	})
}

func TestStepCarvesOnceDone(t *testing.T) {
	s, err := Start(Params{Width: 4, Height: 3, Seed: 9})
	require.NoError(t, err)

	taken := s.StepN(1000)
	assert.Equal(t, 2*4*3-1, taken)
	assert.True(t, s.IsDone())
	assert.Equal(t, taken, s.Steps())

	v := s.Snapshot()
	assert.True(t, v.Carved)
	assert.False(t, v.At(0, 0).Walls[maze.West])
	assert.False(t, v.At(3, 2).Walls[maze.East])

	assert.False(t, s.Step(), "stepping after completion changes nothing")
	assert.Equal(t, v, s.Snapshot())
}

func TestDoneHandlerRunsOnce(t *testing.T) {
	s, err := Start(Params{Width: 3, Height: 3, Seed: 2})
	require.NoError(t, err)

	calls := 0
	s.SetDoneHandler(func(v View) {
		calls++
		assert.True(t, v.Done)
		assert.True(t, v.Carved)
	})
	s.StepN(100)
	s.Step()
	assert.Equal(t, 1, calls)
}

func TestDeterministicAcrossSessions(t *testing.T) {
	run := func() string {
		s, err := Start(Params{Width: 10, Height: 6, Seed: 1234, StartX: 5, StartY: 2})
		require.NoError(t, err)
		s.StepN(1000)
		return s.String()
	}
	assert.Equal(t, run(), run())
}

func TestReset(t *testing.T) {
	t.Run("discards progress and keeps the start", func(t *testing.T) {
		s, err := Start(Params{Width: 6, Height: 6, Seed: 3, StartX: 1, StartY: 1})
		require.NoError(t, err)
		s.SetRunning(true)
		s.StepN(20)

		require.NoError(t, s.Reset())
		v := s.Snapshot()
		assert.Equal(t, 0, v.Steps)
		assert.Equal(t, 1, v.Count(maze.Open))
		assert.Equal(t, maze.Position{X: 1, Y: 1}, v.Current)
		assert.True(t, v.Running, "reset keeps the cadence")
		assert.NotEqual(t, uint64(3), v.Seed)
	})

	t.Run("reset chain is reproducible", func(t *testing.T) {
		chain := func() []string {
			s, err := Start(Params{Width: 7, Height: 5, Seed: 77})
			require.NoError(t, err)
			var out []string
			for i := 0; i < 3; i++ {
				s.StepN(500)
				out = append(out, s.String())
				require.NoError(t, s.Reset())
			}
			return out
		}
		assert.Equal(t, chain(), chain())
	})

	t.Run("with seed matches a fresh start", func(t *testing.T) {
		s, err := Start(Params{Width: 5, Height: 5, Seed: 1})
		require.NoError(t, err)
		s.StepN(10)
		require.NoError(t, s.ResetWithSeed(42))
		s.StepN(500)

		fresh, err := Start(Params{Width: 5, Height: 5, Seed: 42})
		require.NoError(t, err)
		fresh.StepN(500)
		assert.Equal(t, fresh.String(), s.String())
	})
}

func TestRate(t *testing.T) {
	s, err := Start(Params{Width: 2, Height: 2})
	require.NoError(t, err)

	assert.Equal(t, DefaultRate+RateStep, s.AdjustRate(RateStep))
	assert.Equal(t, MinRate, s.SetRate(1))
	assert.Equal(t, MinRate, s.AdjustRate(-RateStep))
	assert.Equal(t, 200, s.SetRate(200))
	assert.Equal(t, 200, s.Rate())

	assert.True(t, s.ToggleRunning())
	assert.True(t, s.Running())
	assert.False(t, s.ToggleRunning())
}

func TestRunStepsWhileRunning(t *testing.T) {
	s, err := Start(Params{Width: 3, Height: 3, Seed: 5})
	require.NoError(t, err)
	s.SetRate(1000)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, s.Steps(), "paused sessions do not step")

	s.SetRunning(true)
	assert.Eventually(t, s.IsDone, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSubscribe(t *testing.T) {
	s, err := Start(Params{Width: 3, Height: 2, Seed: 8})
	require.NoError(t, err)

	updates, cancel := s.Subscribe(64)
	first := <-updates
	assert.Equal(t, 0, first.Steps)

	s.Step()
	s.Step()
	assert.Equal(t, 1, (<-updates).Steps)
	assert.Equal(t, 2, (<-updates).Steps)

	cancel()
	_, ok := <-updates
	assert.False(t, ok)
	cancel()

	// A full buffer drops frames instead of blocking the stepper.
	slow, cancelSlow := s.Subscribe(1)
	defer cancelSlow()
	s.StepN(100)
	assert.Len(t, slow, 1)
}

func TestRecordRestore(t *testing.T) {
	s, err := Start(Params{Width: 8, Height: 5, Seed: 31, StartX: 4, StartY: 2})
	require.NoError(t, err)
	s.StepN(25)
	s.SetRate(90)

	rec, err := s.Record()
	require.NoError(t, err)

	resumed, err := Restore(rec)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), resumed.Snapshot())

	s.StepN(1000)
	resumed.StepN(1000)
	assert.Equal(t, s.Snapshot(), resumed.Snapshot())
	assert.Equal(t, s.String(), resumed.String())

	t.Run("rejects a bad random source", func(t *testing.T) {
		bad := rec
		bad.RNG = []byte("nope")
		_, err := Restore(bad)
		assert.ErrorIs(t, err, maze.ErrCorruptState)
	})
}

func TestStepNPushesOneViewPerBatch(t *testing.T) {
	s, err := Start(Params{Width: 20, Height: 20, Seed: 6})
	require.NoError(t, err)

	updates, cancel := s.Subscribe(64)
	defer cancel()
	<-updates

	assert.Equal(t, 50, s.StepN(50))
	require.Len(t, updates, 1)
	assert.Equal(t, 50, (<-updates).Steps)

	assert.Equal(t, 30, s.StepN(30))
	require.Len(t, updates, 1)
	assert.Equal(t, 80, (<-updates).Steps)

	assert.Zero(t, s.StepN(0))
	assert.Empty(t, updates)
}

func TestRunCoalescesViews(t *testing.T) {
	s, err := Start(Params{Width: 8, Height: 8, Seed: 12})
	require.NoError(t, err)
	s.SetRate(1000)

	updates, cancel := s.Subscribe(256)
	defer cancel()
	<-updates

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() { _ = s.Run(ctx) }()
	s.SetRunning(true)

	total := 2*8*8 - 1
	frames := 0
	deadline := time.After(3 * time.Second)
	for {
		select {
		case v := <-updates:
			frames++
			if v.Carved {
				assert.Equal(t, total, v.Steps)
				assert.Less(t, frames, total, "auto-steps share frames")
				return
			}
		case <-deadline:
			t.Fatal("run did not complete")
		}
	}
}

func TestInvalidCarveAfterValidationPanics(t *testing.T) {
	s, err := Start(Params{Width: 1, Height: 2, Seed: 1})
	require.NoError(t, err)

	// North of the bottom cell is interior, which Start would have rejected.
	s.carve = maze.CarvePolicy{
		Entrance:     maze.Position{X: 0, Y: 1},
		EntranceSide: maze.North,
		Exit:         maze.Position{X: 0, Y: 1},
		ExitSide:     maze.South,
	}
	assert.Panics(t, func() { s.StepN(10) })
	assert.False(t, s.Snapshot().Carved, "walls that were never opened are not reported carved")
}
