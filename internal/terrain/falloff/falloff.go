// Package falloff precomputes the island attenuation mask. The mask is
// subtracted from normalized heights when island mode is enabled, pushing
// edge samples into the water band.
package falloff

import "math"

// Shape constants of the attenuation curve d^a / (d^a + (b - b*d)^a).
const (
	curveA = 3.0
	curveB = 2.2
)

// Mask is a square grid of attenuation values in [0, 1]: ~0 at the center,
// approaching 1 at the edges. Chebyshev distance gives the island a squarish
// silhouette rather than a circular one.
type Mask struct {
	n      int
	values []float64
}

// New builds an n×n mask. Cell (i, j) maps to normalized coordinates in
// [-1, 1]² with the corners landing exactly on ±1.
func New(n int) *Mask {
	m := &Mask{n: n, values: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Single ratio with an integer numerator, so mirrored cells
			// land on the exact same float and the mask stays symmetric.
			x, y := 0.0, 0.0
			if n > 1 {
				x = float64(2*i-(n-1)) / float64(n-1)
				y = float64(2*j-(n-1)) / float64(n-1)
			}
			d := math.Max(math.Abs(x), math.Abs(y))
			m.values[i*n+j] = curve(d)
		}
	}
	return m
}

func (m *Mask) Size() int {
	return m.n
}

func (m *Mask) At(i, j int) float64 {
	return m.values[i*m.n+j]
}

func curve(d float64) float64 {
	if d <= 0 {
		return 0
	}
	num := math.Pow(d, curveA)
	den := num + math.Pow(curveB-curveB*d, curveA)
	return num / den
}
