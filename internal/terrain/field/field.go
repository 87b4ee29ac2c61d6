// Package field builds the full terrain: an N×N arrangement of tiles that
// all sample one shared noise source and sampler, so noise continuity and
// the running normalization range hold across tile boundaries.
package field

import (
	"fmt"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/terrain/falloff"
	"heightfield.dev/internal/terrain/noise"
	"heightfield.dev/internal/terrain/sampler"
)

// Field owns its tiles and the sampler that built them. Its identity for
// change detection is the fingerprint of the config it was built from.
type Field struct {
	cfg         config.Generation
	fingerprint string

	smp   *sampler.Sampler
	tiles []*Tile
}

// Build validates cfg and constructs the whole terrain: one freshly seeded
// noise source, one shared sampler, an optional falloff mask, then every
// tile in row-major (row, col) order. Generation is synchronous and
// single-threaded; the shared sampler's running min/max is threaded through
// the entire build in that order.
func Build(cfg config.Generation) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build terrain: %w", err)
	}

	src := noise.New(cfg.Seed)
	smp := sampler.New(src, cfg.Octaves, cfg.Persistence, cfg.Lacunarity, cfg.NoiseScale/cfg.WorldWidth())

	var mask *falloff.Mask
	if cfg.IslandMode {
		mask = falloff.New(cfg.EdgeSamples())
	}

	f := &Field{
		cfg:         cfg,
		fingerprint: cfg.Fingerprint(),
		smp:         smp,
		tiles:       make([]*Tile, 0, cfg.GridExtent*cfg.GridExtent),
	}
	for row := 0; row < cfg.GridExtent; row++ {
		for col := 0; col < cfg.GridExtent; col++ {
			f.tiles = append(f.tiles, buildTile(row, col, cfg, smp, mask))
		}
	}
	return f, nil
}

// Config returns the configuration the field was built from.
func (f *Field) Config() config.Generation {
	return f.cfg
}

// Fingerprint is the canonical digest of the build config. The driving loop
// compares the live desired config against it and rebuilds on mismatch.
func (f *Field) Fingerprint() string {
	return f.fingerprint
}

// Tiles returns the row-major tile list. Borrowed, not owned: tiles do not
// outlive their field.
func (f *Field) Tiles() []*Tile {
	return f.tiles
}

// TileAt returns the tile at grid coordinates (row, col), or nil after
// teardown or for out-of-range coordinates.
func (f *Field) TileAt(row, col int) *Tile {
	if row < 0 || col < 0 || row >= f.cfg.GridExtent || col >= f.cfg.GridExtent {
		return nil
	}
	idx := row*f.cfg.GridExtent + col
	if idx >= len(f.tiles) {
		return nil
	}
	return f.tiles[idx]
}

// ObservedRange reports the sampler's final min/max fractal sums. Zero
// values after teardown.
func (f *Field) ObservedRange() (min, max float64) {
	if f.smp == nil {
		return 0, 0
	}
	return f.smp.ObservedRange()
}

// Teardown releases every tile and the sampler. Idempotent: calling it on
// an already-empty field is a no-op. There is no partial invalidation; the
// only supported transition is teardown followed by a fresh Build.
func (f *Field) Teardown() {
	f.tiles = nil
	f.smp = nil
}
