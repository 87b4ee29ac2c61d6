package field

import (
	"heightfield.dev/internal/config"
	"heightfield.dev/internal/terrain/falloff"
	"heightfield.dev/internal/terrain/sampler"
)

// Tile is one square patch of the terrain: its grid coordinates, its world
// offset and a grid of normalized heights. Immutable once built; a rebuild
// of the terrain discards and reconstructs every tile.
//
// The grid holds EdgeSamples×EdgeSamples values (cells + 1 per edge) so that
// the last row/column of one tile samples the same world coordinates as the
// first row/column of its neighbour.
type Tile struct {
	Row, Col int

	OffsetX float64
	OffsetZ float64

	edge    int
	heights []float64
}

func buildTile(row, col int, cfg config.Generation, smp *sampler.Sampler, mask *falloff.Mask) *Tile {
	edge := cfg.EdgeSamples()
	spacing := cfg.CellSpacing()
	t := &Tile{
		Row:     row,
		Col:     col,
		OffsetX: float64(row) * cfg.TileSize,
		OffsetZ: float64(col) * cfg.TileSize,
		edge:    edge,
		heights: make([]float64, edge*edge),
	}
	for i := 0; i < edge; i++ {
		for j := 0; j < edge; j++ {
			wx := t.OffsetX + float64(i)*spacing
			wz := t.OffsetZ + float64(j)*spacing
			h := smp.HeightAt(wx, wz)
			if mask != nil {
				h -= mask.At(i, j)
				if h < 0 {
					h = 0
				}
			}
			t.heights[i*edge+j] = h
		}
	}
	return t
}

// EdgeSamples is the number of samples along one edge of the tile grid.
func (t *Tile) EdgeSamples() int {
	return t.edge
}

// Height returns the normalized height at local cell (i, j).
func (t *Tile) Height(i, j int) float64 {
	return t.heights[i*t.edge+j]
}

// Heights exposes the row-major height grid. The slice is borrowed: callers
// must not mutate it.
func (t *Tile) Heights() []float64 {
	return t.heights
}

// WorldAt returns the world coordinates of local cell (i, j) for the given
// cell spacing.
func (t *Tile) WorldAt(i, j int, spacing float64) (x, z float64) {
	return t.OffsetX + float64(i)*spacing, t.OffsetZ + float64(j)*spacing
}
