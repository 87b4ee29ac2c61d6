// Package encoding carries height grids over the wire and into snapshots:
// 16-bit quantization plus zigzag-delta varints, base64 wrapped. Deltas
// between neighbouring samples of a continuous surface are small, which
// keeps the varints short.
package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

const quantSteps = math.MaxUint16

// EncodeHeights encodes normalized heights in [0, 1] into
// base64(zigzag-delta varints of uint16 quantized values).
func EncodeHeights(heights []float64) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	prev := int64(0)
	for _, h := range heights {
		q := int64(math.Round(clamp01(h) * quantSteps))
		n := binary.PutVarint(tmp[:], q-prev)
		buf.Write(tmp[:n])
		prev = q
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeHeights reverses EncodeHeights. n is the expected sample count; a
// payload with any other count is rejected.
func DecodeHeights(b64 string, n int) ([]float64, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, n)
	prev := int64(0)
	for i := 0; i < len(raw); {
		d, w := binary.Varint(raw[i:])
		if w <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += w
		q := prev + d
		if q < 0 || q > quantSteps {
			return nil, fmt.Errorf("quantized height out of range: %d", q)
		}
		out = append(out, float64(q)/quantSteps)
		prev = q
	}
	if len(out) != n {
		return nil, fmt.Errorf("height count mismatch: got %d want %d", len(out), n)
	}
	return out, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
