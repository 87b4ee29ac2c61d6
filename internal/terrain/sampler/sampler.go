// Package sampler turns raw noise into normalized fractal heights. The
// sampler carries the running min/max used for normalization, so it is
// stateful: one sampler serves exactly one field build and is discarded
// with it.
package sampler

import (
	"math"

	"heightfield.dev/internal/terrain/noise"
)

// Sampler accumulates octaves of noise and normalizes each result against
// the range observed so far in the current build.
//
// The min/max update happens on the same call that consumes it, so heights
// computed early in a build are normalized against a narrower range than
// later ones: the denominator only ever widens as generation proceeds. The
// result therefore depends on tile generation order even for a fixed seed.
// That behavior is intentional here and pinned by tests; callers that need
// order independence must do a second pass themselves.
type Sampler struct {
	src         *noise.Source
	octaves     int
	persistence float64
	lacunarity  float64
	scale       float64

	observedMin float64
	observedMax float64
}

// New wires a sampler to src. scale is applied to world coordinates before
// octave frequency scaling; pass noiseScale / worldWidth so frequencies stay
// stable regardless of tile count.
func New(src *noise.Source, octaves int, persistence, lacunarity, scale float64) *Sampler {
	return &Sampler{
		src:         src,
		octaves:     octaves,
		persistence: persistence,
		lacunarity:  lacunarity,
		scale:       scale,
		observedMin: math.Inf(1),
		observedMax: math.Inf(-1),
	}
}

// HeightAt returns the normalized fractal height at the given world
// coordinates (tile offset already applied), in [0, 1].
func (s *Sampler) HeightAt(worldX, worldZ float64) float64 {
	nx := worldX * s.scale
	nz := worldZ * s.scale

	amplitude := 1.0
	frequency := 1.0
	accum := 0.0
	for i := 0; i < s.octaves; i++ {
		raw := s.src.Sample(nx*frequency, nz*frequency)
		accum += (raw + 1) / 2 * amplitude
		amplitude *= s.persistence
		frequency *= s.lacunarity
	}

	if accum < s.observedMin {
		s.observedMin = accum
	}
	if accum > s.observedMax {
		s.observedMax = accum
	}

	// First sample of a build: zero-width range, defined as 0 rather
	// than NaN.
	if s.observedMax == s.observedMin {
		return 0
	}
	h := (accum - s.observedMin) / (s.observedMax - s.observedMin)
	if h < 0 {
		return 0
	}
	if h > 1 {
		return 1
	}
	return h
}

// ObservedRange reports the min/max fractal sums seen so far.
func (s *Sampler) ObservedRange() (min, max float64) {
	return s.observedMin, s.observedMax
}
