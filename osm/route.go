package osm

import (
	"fmt"
	"slices"
	"time"

	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/geom"
	"kuanb/gosm-navigator/navigation"
)

// WayRef is a graph segment driven in a direction: +1 along its geometry, -1
// against it.
type WayRef struct {
	Way OsmWayId
	Dir int
}

func (g *OsmGraph) way(id OsmWayId) (*OsmWay, error) {
	w, ok := g.Ways[int64(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWay, id)
	}
	return w, nil
}

// exitNode is the node a ref is left at.
func (g *OsmGraph) exitNode(r WayRef) OsmNodeId {
	w := g.Ways[int64(r.Way)]
	if r.Dir < 0 {
		return w.start()
	}
	return w.end()
}

func sharedNode(a, b *OsmWay) (OsmNodeId, bool) {
	for _, n := range []OsmNodeId{a.end(), a.start()} {
		if n == b.start() || n == b.end() {
			return n, true
		}
	}
	return 0, false
}

// OrientPath turns a sequence of segment ids, as produced by map matching,
// into driving directions. Repeated ids are collapsed.
func (g *OsmGraph) OrientPath(ids []OsmWayId) ([]WayRef, error) {
	ids = slices.Compact(slices.Clone(ids))
	refs := make([]WayRef, 0, len(ids))
	for i, id := range ids {
		w, err := g.way(id)
		if err != nil {
			return nil, err
		}
		dir := 1
		if i == 0 {
			if len(ids) == 1 {
				if w.Flags&navigation.FlagOnewayReverse != 0 {
					dir = -1
				}
			} else {
				next, err := g.way(ids[1])
				if err != nil {
					return nil, err
				}
				shared, ok := sharedNode(w, next)
				if !ok {
					return nil, fmt.Errorf("%w: %d and %d", ErrDisconnected, id, ids[1])
				}
				if w.start() == shared && w.end() != shared {
					dir = -1
				}
			}
		} else {
			entry := g.exitNode(refs[i-1])
			switch entry {
			case w.start():
			case w.end():
				dir = -1
			default:
				return nil, fmt.Errorf("%w: %d and %d", ErrDisconnected, ids[i-1], id)
			}
		}
		refs = append(refs, WayRef{Way: id, Dir: dir})
	}
	return refs, nil
}

func segment(w *OsmWay, dir int, points orb.LineString) navigation.RouteSegment {
	length := geom.LineLength(points)
	m := &navigation.Metrics{Length: length, Speed: w.SpeedKmh}
	if w.SpeedKmh > 0 {
		m.Time = time.Duration(length / (w.SpeedKmh / 3.6) * float64(time.Second))
	}
	return navigation.RouteSegment{
		Way:     navigation.WayID(w.ID),
		Dir:     dir,
		Points:  points,
		Metrics: m,
	}
}

// Segments builds the route handed to navigation for refs.
func (g *OsmGraph) Segments(refs []WayRef) ([]navigation.RouteSegment, error) {
	segs := make([]navigation.RouteSegment, 0, len(refs))
	for _, r := range refs {
		w, err := g.way(r.Way)
		if err != nil {
			return nil, err
		}
		segs = append(segs, segment(w, r.Dir, geom.Oriented(w.Geometry, r.Dir)))
	}
	return segs, nil
}

// SegmentsFrom is Segments with the first segment cut at the projection of
// pos, so that it starts where the vehicle is.
func (g *OsmGraph) SegmentsFrom(pos orb.Point, refs []WayRef) ([]navigation.RouteSegment, error) {
	segs, err := g.Segments(refs)
	if err != nil || len(segs) == 0 {
		return segs, err
	}
	points := segs[0].Points
	proj, idx := geom.Project(pos, points)
	if idx < 0 {
		return segs, nil
	}
	head := orb.LineString{proj}
	if points[idx+1] == proj {
		head = head[:0]
	}
	head = append(head, points[idx+1:]...)
	if len(head) < 2 {
		head = points[len(points)-2:]
	}
	w := g.Ways[int64(refs[0].Way)]
	segs[0] = segment(w, refs[0].Dir, head)
	return segs, nil
}

// Locate returns the index of the ref nearest to pos, searching from index
// from onward, or -1 when refs[from:] is empty.
func (g *OsmGraph) Locate(pos orb.Point, refs []WayRef, from int) int {
	best, bestDist := -1, -1.0
	for i := max(from, 0); i < len(refs); i++ {
		w, ok := g.Ways[int64(refs[i].Way)]
		if !ok {
			continue
		}
		if d := w.MinDistanceToPoint(pos); d >= 0 && (bestDist < 0 || d < bestDist) {
			best, bestDist = i, d
		}
	}
	return best
}
