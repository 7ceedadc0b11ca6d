package geom

import (
	"math"

	"github.com/paulmach/orb"
)

const EarthRadiusMeters = 6371000.0

// PointToSegmentDistance returns the shortest distance in meters from p to the segment ab.
// Uses an equirectangular projection around a, which is accurate for the short
// distances used when snapping to junctions and ways.
func PointToSegmentDistance(p, a, b orb.Point) float64 {
	_, d := projectOnSegment(p, a, b)
	return d
}

// projectOnSegment returns the point of ab closest to p and its distance in meters.
func projectOnSegment(p, a, b orb.Point) (orb.Point, float64) {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180.0 }

	cosLat := math.Cos(toRad(a.Lat()))
	project := func(q orb.Point) (float64, float64) {
		return toRad(q.Lon()) * cosLat * EarthRadiusMeters, toRad(q.Lat()) * EarthRadiusMeters
	}
	ax, ay := project(a)
	bx, by := project(b)
	px, py := project(p)

	dx := bx - ax
	dy := by - ay
	if dx == 0 && dy == 0 {
		return a, math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	closest := orb.Point{a.Lon() + t*(b.Lon()-a.Lon()), a.Lat() + t*(b.Lat()-a.Lat())}
	return closest, math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// Project returns the point of ls closest to p and the index of the segment
// (its first vertex) holding it. It returns -1 for lines with fewer than two
// points.
func Project(p orb.Point, ls orb.LineString) (orb.Point, int) {
	if len(ls) < 2 {
		return p, -1
	}
	best, bestIdx, bestDist := ls[0], -1, -1.0
	for i := 1; i < len(ls); i++ {
		q, d := projectOnSegment(p, ls[i-1], ls[i])
		if bestDist < 0 || d < bestDist {
			best, bestIdx, bestDist = q, i-1, d
		}
	}
	return best, bestIdx
}

// MinDistanceToLine returns the distance in meters from p to the closest segment
// of ls, or -1 for an empty line.
func MinDistanceToLine(p orb.Point, ls orb.LineString) float64 {
	switch len(ls) {
	case 0:
		return -1
	case 1:
		return PointToSegmentDistance(p, ls[0], ls[0])
	}
	minDist := -1.0
	for i := 1; i < len(ls); i++ {
		d := PointToSegmentDistance(p, ls[i-1], ls[i])
		if minDist < 0 || d < minDist {
			minDist = d
		}
	}
	return minDist
}

// DegreesAround converts a radius in meters around p into a lon/lat bound.
func DegreesAround(p orb.Point, meters float64) orb.Bound {
	metersPerDegreeLat := EarthRadiusMeters * math.Pi / 180.0
	metersPerDegreeLon := metersPerDegreeLat * math.Cos(p.Lat()*math.Pi/180.0)

	dLon := meters / metersPerDegreeLon
	dLat := meters / metersPerDegreeLat
	return orb.Bound{
		Min: orb.Point{p.Lon() - dLon, p.Lat() - dLat},
		Max: orb.Point{p.Lon() + dLon, p.Lat() + dLat},
	}
}
