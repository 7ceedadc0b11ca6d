package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// SegmentBearing returns the bearing from a to b in whole degrees.
func SegmentBearing(a, b orb.Point) int {
	return RoundBearing(geo.Bearing(a, b))
}

// Oriented returns ls in travel order: a reversed copy when dir < 0, ls itself
// otherwise.
func Oriented(ls orb.LineString, dir int) orb.LineString {
	if dir >= 0 {
		return ls
	}
	rev := ls.Clone()
	rev.Reverse()
	return rev
}

// LineLength returns the haversine length of ls in meters.
func LineLength(ls orb.LineString) float64 {
	return geo.Length(ls)
}

// EntryBearing is the bearing of the first segment of ls when travelled in
// direction dir, i.e. looking outward from the node the travel starts at.
func EntryBearing(ls orb.LineString, dir int) Bearing {
	return BearingAt(Oriented(ls, dir), 0)
}

// ExitBearing is the bearing of the last segment of ls when travelled in
// direction dir.
func ExitBearing(ls orb.LineString, dir int) Bearing {
	line := Oriented(ls, dir)
	last := len(line) - 1
	for i := last - 1; i >= 0; i-- {
		if line[i] != line[last] {
			return NewBearing(SegmentBearing(line[i], line[last]))
		}
	}
	return NoBearing
}

// BearingAt returns the bearing of the segment of line (in travel order) that
// straddles dist meters from its start. Repeated points are skipped. A line
// shorter than dist yields the bearing of its last segment.
func BearingAt(line orb.LineString, dist float64) Bearing {
	if len(line) < 2 || dist < 0 || math.IsNaN(dist) {
		return NoBearing
	}
	b := NoBearing
	for i := 1; i < len(line); i++ {
		if line[i] == line[i-1] {
			continue
		}
		b = NewBearing(SegmentBearing(line[i-1], line[i]))
		dist -= geo.Distance(line[i-1], line[i])
		if dist <= 0 {
			return b
		}
	}
	return b
}

// MaxBearingDeviation scans the segments of line (in travel order) that start
// within dist meters and returns the signed delta from ref with the largest
// magnitude. On equal magnitudes tieBreak >= 0 keeps the first one found
// scanning forward, tieBreak < 0 the first one found scanning backward.
func MaxBearingDeviation(line orb.LineString, ref int, dist float64, tieBreak int) (int, bool) {
	if len(line) < 2 || dist <= 0 || math.IsNaN(dist) {
		return 0, false
	}

	var deltas []int
	left := dist
	for i := 1; i < len(line) && left > 0; i++ {
		if line[i] == line[i-1] {
			continue
		}
		deltas = append(deltas, AngleDelta(ref, SegmentBearing(line[i-1], line[i])))
		left -= geo.Distance(line[i-1], line[i])
	}
	if len(deltas) == 0 {
		return 0, false
	}

	best := deltas[0]
	if tieBreak < 0 {
		best = deltas[len(deltas)-1]
		for i := len(deltas) - 2; i >= 0; i-- {
			if Abs(deltas[i]) > Abs(best) {
				best = deltas[i]
			}
		}
		return best, true
	}
	for _, d := range deltas[1:] {
		if Abs(d) > Abs(best) {
			best = d
		}
	}
	return best, true
}

// Tail returns the part of line covering its last dist meters, including the
// segment that straddles the cut.
func Tail(line orb.LineString, dist float64) orb.LineString {
	if len(line) < 2 {
		return line
	}
	for i := len(line) - 1; i > 0; i-- {
		dist -= geo.Distance(line[i-1], line[i])
		if dist <= 0 {
			return line[i-1:]
		}
	}
	return line
}
