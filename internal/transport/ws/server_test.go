package ws

import (
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/protocol"
	"heightfield.dev/internal/terrain/encoding"
	"heightfield.dev/internal/terrain/field"
)

func testConfig(seed int64) config.Generation {
	cfg := config.Defaults()
	cfg.GridExtent = 2
	cfg.SamplesPerTile = 4
	cfg.Seed = seed
	return cfg
}

func newTestServer(t *testing.T, hook BuildHook) *Server {
	t.Helper()
	return NewServer(nil, log.New(io.Discard, "", 0), hook)
}

func TestReconcileBuildsOnce(t *testing.T) {
	builds := 0
	s := newTestServer(t, func(f *field.Field, took time.Duration) { builds++ })

	cfg := testConfig(11)
	f1, rebuilt, err := s.Reconcile(cfg)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !rebuilt || f1 == nil {
		t.Fatalf("first reconcile should build")
	}

	// Same config by value: no rebuild.
	f2, rebuilt, err := s.Reconcile(cfg)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if rebuilt || f2 != f1 {
		t.Fatalf("matching fingerprint should be a no-op")
	}
	if builds != 1 {
		t.Fatalf("build hook calls: got %d want 1", builds)
	}
}

func TestReconcileRebuildsOnChange(t *testing.T) {
	s := newTestServer(t, nil)
	f1, _, err := s.Reconcile(testConfig(11))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	cfg2 := testConfig(11)
	cfg2.Octaves = 6
	f2, rebuilt, err := s.Reconcile(cfg2)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !rebuilt || f2 == f1 {
		t.Fatalf("changed config should rebuild")
	}
	// The old field was torn down with the swap.
	if f1.Tiles() != nil {
		t.Fatalf("previous field not torn down")
	}
	if s.Current() != f2 {
		t.Fatalf("current field not swapped")
	}
}

func TestReconcileKeepsPreviousFieldOnFailure(t *testing.T) {
	s := newTestServer(t, nil)
	f1, _, err := s.Reconcile(testConfig(11))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	bad := testConfig(11)
	bad.Octaves = 0
	got, rebuilt, err := s.Reconcile(bad)
	if err == nil || rebuilt {
		t.Fatalf("invalid config must fail without rebuilding")
	}
	if got != f1 || s.Current() != f1 {
		t.Fatalf("previous field must stay live after a failed build")
	}
	if f1.Tiles() == nil {
		t.Fatalf("previous field was torn down on failure")
	}
}

func TestFramesRoundTrip(t *testing.T) {
	cfg := testConfig(5)
	f, err := field.Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	frames, err := Frames(f)
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(frames) != 1+4 {
		t.Fatalf("frame count: got %d want 5", len(frames))
	}

	var build protocol.BuildMsg
	if err := json.Unmarshal(frames[0], &build); err != nil {
		t.Fatalf("unmarshal BUILD: %v", err)
	}
	if build.Type != protocol.TypeBuild || build.Fingerprint != f.Fingerprint() || build.TileCount != 4 {
		t.Fatalf("unexpected BUILD: %+v", build)
	}

	var tile protocol.TileMsg
	if err := json.Unmarshal(frames[1], &tile); err != nil {
		t.Fatalf("unmarshal TILE: %v", err)
	}
	if tile.Row != 0 || tile.Col != 0 || tile.EdgeSamples != cfg.EdgeSamples() {
		t.Fatalf("unexpected first TILE: %+v", tile)
	}
	heights, err := encoding.DecodeHeights(tile.Heights, tile.EdgeSamples*tile.EdgeSamples)
	if err != nil {
		t.Fatalf("decode heights: %v", err)
	}
	want := f.TileAt(0, 0).Heights()
	const tol = 1.0 / 65535
	for i := range want {
		d := heights[i] - want[i]
		if d < -tol || d > tol {
			t.Fatalf("height %d drifted: got %g want %g", i, heights[i], want[i])
		}
	}
}
