package effects

import (
	"math"
	"math/rand/v2"
)

// Source is the random source a batch is drawn from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// fallbackSeed backs the deterministic batch used when no source is supplied.
const (
	fallbackSeed1 = 0x9e3779b97f4a7c15
	fallbackSeed2 = 0xbf58476d1ce4e5b9
)

// NewSource returns a PCG-backed source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^fallbackSeed2))
}

func fallbackSource() Source {
	return rand.New(rand.NewPCG(fallbackSeed1, fallbackSeed2))
}

// Range is a closed numeric band [Min, Max].
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Draw returns a uniform value in the band. The result is clamped so that a
// misbehaving source can never push a value outside [Min, Max].
func (r Range) Draw(src Source) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Clamp(r.Min + src.Float64()*(r.Max-r.Min))
}

// Clamp pins v into the band. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < r.Min:
		return r.Min
	case v > r.Max:
		return r.Max
	}
	return v
}

// Contains reports whether v lies inside the band.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) valid() bool {
	return finite(r.Min) && finite(r.Max) && r.Min <= r.Max
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
