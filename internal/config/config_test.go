package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GridExtent != 3 || cfg.SamplesPerTile != 32 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Seed == 0 {
		t.Fatalf("Normalize should draw a seed")
	}
}

func TestLoadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "terrain.yaml")
	data := []byte("grid_extent: 2\ntile_size: 8\nsamples_per_tile: 16\noctaves: 3\nseed: 42\nisland_mode: true\n")
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GridExtent != 2 || cfg.TileSize != 8 || cfg.SamplesPerTile != 16 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.IslandMode || cfg.Seed != 42 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// Untouched fields keep their defaults.
	if cfg.Persistence != 0.5 || cfg.Lacunarity != 2.0 {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	cases := []func(*Generation){
		func(c *Generation) { c.GridExtent = 0 },
		func(c *Generation) { c.TileSize = 0 },
		func(c *Generation) { c.SamplesPerTile = 0 },
		func(c *Generation) { c.Octaves = 0 },
		func(c *Generation) { c.Persistence = 0 },
		func(c *Generation) { c.Lacunarity = 0.5 },
		func(c *Generation) { c.HeightMultiplier = -1 },
		func(c *Generation) { c.WaterLevel = 1.5 },
	}
	for i, mutate := range cases {
		cfg := Defaults()
		cfg.Seed = 1
		mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
		if !errors.Is(err, ErrInvalid) {
			t.Fatalf("case %d: error not ErrInvalid: %v", i, err)
		}
	}
}

func TestFingerprintEqualForEqualValues(t *testing.T) {
	a := Defaults()
	a.Seed = 7
	b := Defaults()
	b.Seed = 7
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ for identical configs")
	}
	b.Octaves++
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("fingerprints equal for different configs")
	}
}

func TestCellSpacingAndEdgeSamples(t *testing.T) {
	cfg := Defaults()
	cfg.TileSize = 10
	cfg.SamplesPerTile = 5
	if got := cfg.CellSpacing(); got != 2 {
		t.Fatalf("CellSpacing: got %g want 2", got)
	}
	if got := cfg.EdgeSamples(); got != 6 {
		t.Fatalf("EdgeSamples: got %d want 6", got)
	}
	cfg.GridExtent = 4
	if got := cfg.WorldWidth(); got != 40 {
		t.Fatalf("WorldWidth: got %g want 40", got)
	}
}
