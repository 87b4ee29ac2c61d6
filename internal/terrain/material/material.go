// Package material maps normalized heights to visual material bands. Pure
// functions: the rendering side applies them per sample.
package material

// Band is a visual material class.
type Band int

const (
	Water Band = iota
	Sand
	Grass
	Rock
	Snow
)

func (b Band) String() string {
	switch b {
	case Water:
		return "water"
	case Sand:
		return "sand"
	case Grass:
		return "grass"
	case Rock:
		return "rock"
	default:
		return "snow"
	}
}

// Band thresholds. Boundaries are closed on the upper band: a height of
// exactly 0.45 is sand, not water.
const (
	waterMax = 0.45
	sandMax  = 0.5
	grassMax = 0.7
	rockMax  = 0.9
)

// DefaultWaterFloor is the surface level water samples are clamped to.
const DefaultWaterFloor = 0.45

// Classify maps a normalized height to its band and clamped surface height
// using the default water floor.
func Classify(h float64) (Band, float64) {
	return ClassifyFloor(h, DefaultWaterFloor)
}

// ClassifyFloor is Classify with an explicit water floor. Total over [0,1]:
// every in-range height gets a band.
func ClassifyFloor(h, waterFloor float64) (Band, float64) {
	switch {
	case h < waterMax:
		return Water, waterFloor
	case h < sandMax:
		return Sand, h
	case h < grassMax:
		return Grass, h
	case h < rockMax:
		return Rock, h
	default:
		return Snow, h
	}
}

// Elevation converts a clamped surface height into world units.
func Elevation(clamped, heightMultiplier float64) float64 {
	return clamped * heightMultiplier
}

// Color returns the band's display color, used by the offline renderer.
func (b Band) Color() (r, g, bl uint8) {
	switch b {
	case Water:
		return 52, 108, 202
	case Sand:
		return 212, 200, 148
	case Grass:
		return 86, 152, 72
	case Rock:
		return 110, 102, 98
	default:
		return 240, 244, 248
	}
}
