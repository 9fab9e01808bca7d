package generation

import (
	"fmt"
	"math/rand/v2"

	"github.com/beka-birhanu/vinom-maze/maze"
	"golang.org/x/time/rate"
)

// Record is everything needed to resume a session exactly where it stopped.
type Record struct {
	Seed    int64            `bson:"seed" json:"seed"` // Bit pattern of Params.Seed
	Start   maze.Position    `bson:"start" json:"start"`
	RNG     []byte           `bson:"rng" json:"rng"` // Marshalled PCG state
	State   maze.State       `bson:"state" json:"state"`
	Carve   maze.CarvePolicy `bson:"carve" json:"carve"`
	Carved  bool             `bson:"carved" json:"carved"`
	Steps   int              `bson:"steps" json:"steps"`
	Running bool             `bson:"running" json:"running"`
	Rate    int              `bson:"rate" json:"rate"`
}

// Record captures the resume state of the session.
func (s *Session) Record() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng, err := s.src.MarshalBinary()
	if err != nil {
		return Record{}, fmt.Errorf("marshal random source: %w", err)
	}
	return Record{
		Seed:    int64(s.params.Seed),
		Start:   maze.Position{X: s.params.StartX, Y: s.params.StartY},
		RNG:     rng,
		State:   maze.Save(s.agent),
		Carve:   s.carve,
		Carved:  s.carved,
		Steps:   s.steps,
		Running: s.running,
		Rate:    s.rate,
	}, nil
}

// Restore rebuilds a session from a Record.
func Restore(r Record) (*Session, error) {
	src := &rand.PCG{}
	if err := src.UnmarshalBinary(r.RNG); err != nil {
		return nil, fmt.Errorf("%w: random source: %v", maze.ErrCorruptState, err)
	}
	agent, err := maze.Load(r.State, rand.New(src))
	if err != nil {
		return nil, err
	}
	if err := r.Carve.Validate(agent.Grid()); err != nil {
		return nil, err
	}
	if r.Carved && !agent.Done() {
		return nil, fmt.Errorf("%w: carved before done", maze.ErrCorruptState)
	}

	carve := r.Carve
	s := &Session{
		params: Params{
			Width:  r.State.Width,
			Height: r.State.Height,
			Seed:   uint64(r.Seed),
			StartX: r.Start.X,
			StartY: r.Start.Y,
			Carve:  &carve,
		},
		src:         src,
		agent:       agent,
		carve:       r.Carve,
		carved:      r.Carved,
		steps:       r.Steps,
		running:     r.Running,
		rate:        max(r.Rate, MinRate),
		subscribers: make(map[int]chan View),
	}
	s.limiter = rate.NewLimiter(rate.Limit(s.rate), 1)
	return s, nil
}
