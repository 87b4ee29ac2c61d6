// Package noise provides the seeded 2D noise field that every height sample
// is derived from.
package noise

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Shape constants for the underlying Perlin generator. One internal
// iteration: octave summation is the sampler's job, not the noise source's.
const (
	alpha = 2.0
	beta  = 2.0
	n     = 1
)

// Source is a deterministic continuous 2D noise field. For a fixed seed,
// Sample always returns the same value for the same coordinates within a
// process run. Reseeding replaces the field wholesale.
type Source struct {
	seed int64
	p    *perlin.Perlin
}

func New(seed int64) *Source {
	return &Source{seed: seed, p: perlin.NewPerlin(alpha, beta, n, seed)}
}

// NewRandom draws a fresh seed.
func NewRandom() *Source {
	return New(rand.Int63())
}

func (s *Source) Seed() int64 {
	return s.seed
}

// Reseed discards the current noise state and rebuilds it from seed. No
// carryover: samples after Reseed reflect the new seed only.
func (s *Source) Reseed(seed int64) {
	s.seed = seed
	s.p = perlin.NewPerlin(alpha, beta, n, seed)
}

// Sample returns the noise value at (x, z), roughly in [-1, 1]. Any finite
// input is valid.
func (s *Source) Sample(x, z float64) float64 {
	return s.p.Noise2D(x, z)
}
