package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	roundTrip := func(v any) any {
		t.Helper()
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var out any
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return out
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(roundTrip(v)); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	configSchema := compile("config.schema.json")
	buildSchema := compile("build.schema.json")
	tileSchema := compile("tile.schema.json")
	errorSchema := compile("error.schema.json")

	cfg := config.Defaults()
	cfg.Seed = 1337

	validate(helloSchema, protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "viewer1",
	})

	validate(configSchema, protocol.ConfigMsg{
		Type:            protocol.TypeConfig,
		ProtocolVersion: protocol.Version,
		Config:          cfg,
	})

	validate(buildSchema, protocol.BuildMsg{
		Type:             protocol.TypeBuild,
		Fingerprint:      cfg.Fingerprint(),
		GridExtent:       cfg.GridExtent,
		TileSize:         cfg.TileSize,
		SamplesPerTile:   cfg.SamplesPerTile,
		HeightMultiplier: cfg.HeightMultiplier,
		WaterLevel:       cfg.WaterLevel,
		TileCount:        cfg.GridExtent * cfg.GridExtent,
	})

	validate(tileSchema, protocol.TileMsg{
		Type:        protocol.TypeTile,
		Fingerprint: cfg.Fingerprint(),
		Row:         0,
		Col:         1,
		OffsetX:     0,
		OffsetZ:     10,
		EdgeSamples: cfg.EdgeSamples(),
		Heights:     "AAAA",
	})

	validate(errorSchema, protocol.ErrorMsg{
		Type:    protocol.TypeError,
		Code:    protocol.ErrBadConfig,
		Message: "octaves must be >= 1",
	})
}

func TestSchemas_RejectBadConfig(t *testing.T) {
	p := filepath.Join("..", "..", "schemas", "config.schema.json")
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var v any
	_ = json.Unmarshal([]byte(`{
	  "type":"CONFIG",
	  "protocol_version":"1.0",
	  "config":{
	    "grid_extent":0,
	    "tile_size":10,
	    "samples_per_tile":32,
	    "octaves":4,
	    "persistence":0.5,
	    "lacunarity":2,
	    "height_multiplier":2.5,
	    "noise_scale":3,
	    "island_mode":false,
	    "water_level":0.45,
	    "seed":1
	  }
	}`), &v)
	if err := s.Validate(v); err == nil {
		t.Fatalf("expected schema rejection for grid_extent 0")
	}
}
