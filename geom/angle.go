package geom

import "math"

// Bearing is a compass bearing in whole degrees (0 = north, 90 = east) that may
// be unknown. The zero value is unknown, which keeps a legitimate 0° apart from
// "could not be determined".
type Bearing struct {
	deg   int
	valid bool
}

// NewBearing returns a known bearing normalized to [0, 360).
func NewBearing(deg int) Bearing {
	return Bearing{deg: normalizeDegrees(deg), valid: true}
}

// NoBearing is the unknown bearing.
var NoBearing = Bearing{}

// Degrees returns the bearing and whether it is known.
func (b Bearing) Degrees() (int, bool) {
	return b.deg, b.valid
}

// Valid reports whether the bearing is known.
func (b Bearing) Valid() bool {
	return b.valid
}

// Deg returns the bearing in degrees; 0 when unknown.
func (b Bearing) Deg() int {
	return b.deg
}

// AngleDelta returns b-a as a signed turn in (-180, 180]. Positive is a
// clockwise (right) turn.
func AngleDelta(a, b int) int {
	d := normalizeDegrees(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

// AngleMedian returns the bearing halfway along the shorter arc from a to b.
func AngleMedian(a, b int) int {
	return normalizeDegrees(a + AngleDelta(a, b)/2)
}

// AngleOpposite returns the reverse bearing.
func AngleOpposite(a int) int {
	return normalizeDegrees(a + 180)
}

// RoundBearing converts a floating point bearing (any range) into whole degrees
// in [0, 360).
func RoundBearing(deg float64) int {
	return normalizeDegrees(int(math.Round(deg)))
}

func normalizeDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d
}

// Abs returns the absolute value of an integer angle.
func Abs(d int) int {
	if d < 0 {
		return -d
	}
	return d
}
