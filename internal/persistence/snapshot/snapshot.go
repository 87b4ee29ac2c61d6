// Package snapshot persists a built terrain field to disk: a JSON header
// line followed by a gob body, zstd compressed. Snapshots exist for
// inspection and replay tooling; the engine itself never reads one during
// a build.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/terrain/field"
)

type Header struct {
	Version     int    `json:"version"`
	Fingerprint string `json:"fingerprint"`
	CreatedAt   string `json:"created_at"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Config      config.Generation `json:"config"`
	ObservedMin float64           `json:"observed_min"`
	ObservedMax float64           `json:"observed_max"`

	Tiles []TileV1 `json:"tiles"`
}

type TileV1 struct {
	Row         int       `json:"row"`
	Col         int       `json:"col"`
	OffsetX     float64   `json:"offset_x"`
	OffsetZ     float64   `json:"offset_z"`
	EdgeSamples int       `json:"edge_samples"`
	Heights     []float64 `json:"heights"`
}

// Capture copies a built field into snapshot form.
func Capture(f *field.Field) SnapshotV1 {
	min, max := f.ObservedRange()
	snap := SnapshotV1{
		Header: Header{
			Version:     1,
			Fingerprint: f.Fingerprint(),
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		},
		Config:      f.Config(),
		ObservedMin: min,
		ObservedMax: max,
	}
	for _, t := range f.Tiles() {
		heights := make([]float64, len(t.Heights()))
		copy(heights, t.Heights())
		snap.Tiles = append(snap.Tiles, TileV1{
			Row:         t.Row,
			Col:         t.Col,
			OffsetX:     t.OffsetX,
			OffsetZ:     t.OffsetZ,
			EdgeSamples: t.EdgeSamples(),
			Heights:     heights,
		})
	}
	return snap
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Skip the header line; the gob body carries the header too.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
