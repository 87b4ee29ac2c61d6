package indexdb

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestRecordAndQueryBuilds(t *testing.T) {
	d := openTestDB(t)

	if _, ok, err := d.LatestBuild(); err != nil || ok {
		t.Fatalf("empty db: ok=%v err=%v", ok, err)
	}

	first := BuildRow{
		Fingerprint:    "fp-1",
		Seed:           7,
		GridExtent:     3,
		SamplesPerTile: 32,
		Tiles:          9,
		ObservedMin:    0.4,
		ObservedMax:    1.6,
		SnapshotPath:   "/data/snaps/fp-1.zst",
	}
	if err := d.RecordBuild(first); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}
	second := first
	second.Fingerprint = "fp-2"
	second.Seed = 8
	if err := d.RecordBuild(second); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}

	latest, ok, err := d.LatestBuild()
	if err != nil || !ok {
		t.Fatalf("LatestBuild: ok=%v err=%v", ok, err)
	}
	if latest.Fingerprint != "fp-2" || latest.Seed != 8 {
		t.Fatalf("unexpected latest: %+v", latest)
	}
	if latest.CreatedAt == "" {
		t.Fatalf("CreatedAt not filled")
	}

	byFP, ok, err := d.BuildByFingerprint("fp-1")
	if err != nil || !ok {
		t.Fatalf("BuildByFingerprint: ok=%v err=%v", ok, err)
	}
	if byFP.Seed != 7 || byFP.SnapshotPath != "/data/snaps/fp-1.zst" {
		t.Fatalf("unexpected row: %+v", byFP)
	}

	if _, ok, err := d.BuildByFingerprint("missing"); err != nil || ok {
		t.Fatalf("missing fingerprint: ok=%v err=%v", ok, err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
