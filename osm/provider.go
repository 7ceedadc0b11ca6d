package osm

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"kuanb/gosm-navigator/navigation"
)

// junctionTolerance is how far (meters) a queried point may sit from a node
// and still resolve to it.
const junctionTolerance = 1.0

var _ navigation.Graph = (*OsmGraph)(nil)

// Street implements navigation.Graph.
func (g *OsmGraph) Street(id navigation.WayID) (navigation.Street, bool) {
	w, ok := g.Ways[int64(id)]
	if !ok {
		return navigation.Street{}, false
	}
	return navigation.Street{
		ID:                  id,
		Type:                w.Type,
		Flags:               w.Flags,
		Name:                w.Name,
		NameSystematic:      w.Ref,
		Destination:         w.Destination,
		DestinationForward:  w.DestinationForward,
		DestinationBackward: w.DestinationBackward,
		Geometry:            w.Geometry,
	}, true
}

// Junction implements navigation.Graph. Every segment touching the node at p
// is returned once per end attached to it.
func (g *OsmGraph) Junction(p orb.Point) []navigation.JunctionSegment {
	nid, ok := g.nodeAt(p)
	if !ok {
		return nil
	}
	var segs []navigation.JunctionSegment
	for _, id := range g.nodeWays[nid] {
		w := g.Ways[int64(id)]
		if w.start() == nid {
			segs = append(segs, navigation.JunctionSegment{Way: navigation.WayID(id), Dir: 1})
		}
		if w.end() == nid {
			segs = append(segs, navigation.JunctionSegment{Way: navigation.WayID(id), Dir: -1})
		}
	}
	return segs
}

// ExitAt implements navigation.Graph.
func (g *OsmGraph) ExitAt(p orb.Point) (navigation.Exit, bool) {
	nid, ok := g.nodeAt(p)
	if !ok {
		return navigation.Exit{}, false
	}
	n, ok := g.exits[nid]
	if !ok {
		return navigation.Exit{}, false
	}
	return navigation.Exit{Ref: n.ExitRef, Label: n.ExitLabel, To: n.ExitTo}, true
}

// nodeAt resolves p to a junction node: exactly, or else the nearest segment
// end within junctionTolerance.
func (g *OsmGraph) nodeAt(p orb.Point) (OsmNodeId, bool) {
	if nid, ok := g.pointNodes[p]; ok {
		return nid, true
	}
	best := -1.0
	var found OsmNodeId
	for _, id := range g.RTree.SearchNearPoint(p, junctionTolerance) {
		w, ok := g.Ways[id]
		if !ok || len(w.Geometry) == 0 {
			continue
		}
		ends := [2]struct {
			nid OsmNodeId
			pt  orb.Point
		}{
			{w.start(), w.Geometry[0]},
			{w.end(), w.Geometry[len(w.Geometry)-1]},
		}
		for _, e := range ends {
			if d := geo.Distance(p, e.pt); d <= junctionTolerance && (best < 0 || d < best) {
				best, found = d, e.nid
			}
		}
	}
	return found, best >= 0
}
