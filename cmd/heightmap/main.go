// Command heightmap builds a terrain from a config file and writes it out
// as PNG images (grayscale heights and material-band colors), plus an
// optional snapshot.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"heightfield.dev/internal/config"
	"heightfield.dev/internal/persistence/snapshot"
	"heightfield.dev/internal/terrain/field"
	"heightfield.dev/internal/terrain/material"
)

func main() {
	var (
		configPath = flag.String("config", "./configs/terrain.yaml", "terrain config path (local file or go-getter URL)")
		outDir     = flag.String("o", ".", "output directory")
		snapPath   = flag.String("snapshot", "", "also write a snapshot to this path (optional)")
		seed       = flag.Int64("seed", 0, "override config seed (0 keeps the config's seed)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[heightmap] ", log.LstdFlags)

	localPath, err := config.Resolve(*configPath, filepath.Join(*outDir, ".cache"))
	if err != nil {
		logger.Fatalf("resolve config: %v", err)
	}
	cfg, err := config.Load(localPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	f, err := field.Build(cfg)
	if err != nil {
		logger.Fatalf("build: %v", err)
	}
	min, max := f.ObservedRange()
	logger.Printf("built fp=%s tiles=%d range=[%g,%g]", f.Fingerprint()[:12], len(f.Tiles()), min, max)

	gray, bands := render(f)
	if err := writePNG(filepath.Join(*outDir, "heights.png"), gray); err != nil {
		logger.Fatalf("write heights.png: %v", err)
	}
	if err := writePNG(filepath.Join(*outDir, "materials.png"), bands); err != nil {
		logger.Fatalf("write materials.png: %v", err)
	}
	logger.Printf("wrote %s and %s", filepath.Join(*outDir, "heights.png"), filepath.Join(*outDir, "materials.png"))

	if *snapPath != "" {
		if err := snapshot.WriteSnapshot(*snapPath, snapshot.Capture(f)); err != nil {
			logger.Fatalf("write snapshot: %v", err)
		}
		logger.Printf("wrote snapshot %s", *snapPath)
	}
}

// render flattens the tile grid into two images. Border samples between
// neighbouring tiles map to the same pixel; the later tile wins, matching
// generation order.
func render(f *field.Field) (gray *image.Gray, bands *image.RGBA) {
	cfg := f.Config()
	cells := cfg.SamplesPerTile
	size := cfg.GridExtent*cells + 1

	gray = image.NewGray(image.Rect(0, 0, size, size))
	bands = image.NewRGBA(image.Rect(0, 0, size, size))

	for _, t := range f.Tiles() {
		edge := t.EdgeSamples()
		for i := 0; i < edge; i++ {
			for j := 0; j < edge; j++ {
				h := t.Height(i, j)
				px := t.Col*cells + j
				py := t.Row*cells + i
				gray.SetGray(px, py, color.Gray{Y: uint8(h*255 + 0.5)})
				band, _ := material.Classify(h)
				r, g, b := band.Color()
				bands.SetRGBA(px, py, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}
	return gray, bands
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
