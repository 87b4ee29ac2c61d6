// Package config holds the generation parameters for a terrain build and
// their canonical fingerprint, which the driving loop compares against the
// live field to decide when a full rebuild is required.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration validation failures. Callers can test for
// it with errors.Is.
var ErrInvalid = errors.New("invalid generation config")

// Generation parameterizes one terrain build. Immutable per build: any
// field change means teardown + rebuild of the whole field.
type Generation struct {
	// GridExtent is the number of tiles along each axis (N of the N×N grid).
	GridExtent int `yaml:"grid_extent" json:"grid_extent"`
	// TileSize is the edge length of one tile in world units.
	TileSize float64 `yaml:"tile_size" json:"tile_size"`
	// SamplesPerTile is the number of cells along a tile edge. A tile
	// stores SamplesPerTile+1 samples per edge so that neighbouring tiles
	// share their border samples exactly.
	SamplesPerTile int `yaml:"samples_per_tile" json:"samples_per_tile"`

	Octaves     int     `yaml:"octaves" json:"octaves"`
	Persistence float64 `yaml:"persistence" json:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity" json:"lacunarity"`

	// HeightMultiplier scales a normalized height into world units.
	HeightMultiplier float64 `yaml:"height_multiplier" json:"height_multiplier"`
	// NoiseScale is the base frequency applied after coordinates are
	// normalized by the total terrain width.
	NoiseScale float64 `yaml:"noise_scale" json:"noise_scale"`

	IslandMode bool    `yaml:"island_mode" json:"island_mode"`
	WaterLevel float64 `yaml:"water_level" json:"water_level"`

	// Seed of the noise field. 0 in a config file means "draw one";
	// Normalize replaces it so the build itself stays deterministic.
	Seed int64 `yaml:"seed" json:"seed"`
}

func Defaults() Generation {
	return Generation{
		GridExtent:       3,
		TileSize:         10,
		SamplesPerTile:   32,
		Octaves:          4,
		Persistence:      0.5,
		Lacunarity:       2.0,
		HeightMultiplier: 2.5,
		NoiseScale:       3.0,
		IslandMode:       false,
		WaterLevel:       0.45,
		Seed:             0,
	}
}

// Load reads a YAML config from path. An empty path yields normalized
// defaults (with a freshly drawn seed).
func Load(path string) (Generation, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("terrain.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("terrain.yaml: %w", err)
	}
	return cfg, nil
}

// Normalize fills derived defaults. It draws a random seed when none was
// supplied so that everything downstream of Load is deterministic.
func (c *Generation) Normalize() {
	if c == nil {
		return
	}
	if c.Seed == 0 {
		c.Seed = rand.Int63()
	}
	if c.WaterLevel <= 0 {
		c.WaterLevel = 0.45
	}
	if c.NoiseScale <= 0 {
		c.NoiseScale = 3.0
	}
}

func (c Generation) Validate() error {
	if c.GridExtent < 1 {
		return fmt.Errorf("%w: grid_extent must be >= 1, got %d", ErrInvalid, c.GridExtent)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size must be > 0, got %g", ErrInvalid, c.TileSize)
	}
	if c.SamplesPerTile < 1 {
		return fmt.Errorf("%w: samples_per_tile must be >= 1, got %d", ErrInvalid, c.SamplesPerTile)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("%w: octaves must be >= 1, got %d", ErrInvalid, c.Octaves)
	}
	if c.Persistence <= 0 {
		return fmt.Errorf("%w: persistence must be > 0, got %g", ErrInvalid, c.Persistence)
	}
	if c.Lacunarity < 1 {
		return fmt.Errorf("%w: lacunarity must be >= 1, got %g", ErrInvalid, c.Lacunarity)
	}
	if c.HeightMultiplier < 0 {
		return fmt.Errorf("%w: height_multiplier must be >= 0, got %g", ErrInvalid, c.HeightMultiplier)
	}
	if c.WaterLevel <= 0 || c.WaterLevel >= 1 {
		return fmt.Errorf("%w: water_level must be in (0, 1), got %g", ErrInvalid, c.WaterLevel)
	}
	if c.NoiseScale <= 0 {
		return fmt.Errorf("%w: noise_scale must be > 0, got %g", ErrInvalid, c.NoiseScale)
	}
	return nil
}

// CellSpacing is the world-space distance between adjacent samples. It is
// identical across all tiles, which is what keeps tile borders continuous.
func (c Generation) CellSpacing() float64 {
	return c.TileSize / float64(c.SamplesPerTile)
}

// EdgeSamples is the number of samples along a tile edge (cells + 1).
func (c Generation) EdgeSamples() int {
	return c.SamplesPerTile + 1
}

// WorldWidth is the total extent of the terrain along one axis.
func (c Generation) WorldWidth() float64 {
	return float64(c.GridExtent) * c.TileSize
}

// Fingerprint returns the canonical digest of the config. Two configs with
// identical field values always produce the same fingerprint; any field
// change produces a different one.
func (c Generation) Fingerprint() string {
	b, err := json.Marshal(c)
	if err != nil {
		// Generation is a plain value struct; Marshal cannot fail on it.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
