package core

import (
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// ErrInvalidConfiguration is returned by GeneratePointField before any output
// is produced
var ErrInvalidConfiguration = errors.New("invalid point field configuration")

// RandomSource yields uniform values in [0,1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// DrawsPerPoint is the number of values GeneratePointField takes from its
// source for every point: one gradient draw and one per axis.
const DrawsPerPoint = 4

// NewSeededSource returns a deterministic source for the given seed
func NewSeededSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// GeneratePointField scatters cfg.Count points uniformly in a cube of side
// cfg.Spread centered on the origin and colors each one with a mix of the
// inner and outer colors.
//
// The gradient factor is its own draw, independent of where the point lands,
// so the colors do not form a radial gradient.
func GeneratePointField(cfg PointFieldConfig, rng RandomSource) (*PointField, error) {
	if cfg.Count < 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "count %d is negative", cfg.Count)
	}
	if !(cfg.Radius > 0) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "radius %v must be positive", cfg.Radius)
	}
	if rng == nil {
		return nil, errors.Wrap(ErrInvalidConfiguration, "nil random source")
	}

	positions := make([]float64, cfg.Count*3)
	colors := make([]float64, cfg.Count*3)

	for i := 0; i < cfg.Count; i++ {
		i3 := i * 3

		// Gradient factor
		t := rng.Float64() * cfg.Radius
		f := math.Min(math.Max(t/cfg.Radius, 0), 1)
		mixed := MixColors(cfg.InnerColor, cfg.OuterColor, f)

		positions[i3] = (rng.Float64() - 0.5) * cfg.Spread
		positions[i3+1] = (rng.Float64() - 0.5) * cfg.Spread
		positions[i3+2] = (rng.Float64() - 0.5) * cfg.Spread

		colors[i3] = mixed.R
		colors[i3+1] = mixed.G
		colors[i3+2] = mixed.B
	}

	return &PointField{Positions: positions, Colors: colors}, nil
}

// SequenceSource replays a fixed list of values, wrapping around at the end.
// It is safe for concurrent use.
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
	drawn  int
}

// NewSequenceSource returns a source that yields values in order
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

// Float64 returns the next value of the sequence, or 0 for an empty sequence
func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn++
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

// Drawn returns how many values have been taken
func (s *SequenceSource) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}
