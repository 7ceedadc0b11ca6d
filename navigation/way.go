package navigation

import (
	"log/slog"

	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/geom"
)

// CandidateWay is a road leaving a junction, either the route's own
// continuation or an alternative to it.
type CandidateWay struct {
	Way            WayID
	Dir            int
	Type           RoadType
	Flags          WayFlags
	Name           string
	NameSystematic string
	// EntryBearing looks outward from the junction toward the far end.
	EntryBearing geom.Bearing
	// ExitBearing is the bearing of the last segment driving in Dir.
	ExitBearing  geom.Bearing
	ExitRef      string
	ExitLabel    string
	Destinations []DestinationSign
}

func newCandidateWay(s Street, dir int) CandidateWay {
	return CandidateWay{
		Way:            s.ID,
		Dir:            dir,
		Type:           s.Type,
		Flags:          s.Flags,
		Name:           s.Name,
		NameSystematic: s.NameSystematic,
		EntryBearing:   geom.EntryBearing(s.Geometry, dir),
		ExitBearing:    geom.ExitBearing(s.Geometry, dir),
		Destinations:   SplitDestinations(streetDestination(s, dir)),
	}
}

func (w *CandidateWay) isRamp() bool {
	return w.Type == RoadRamp
}

func (w *CandidateWay) isRoundabout() bool {
	return w.Flags&FlagRoundabout != 0
}

func (w *CandidateWay) isOneway() bool {
	return w.Flags&FlagOnewayMask != 0
}

// motorwayLike reports highways and one-way multi-lane roads. In extended
// mode ramps and service roads count too.
func (w *CandidateWay) motorwayLike(extended bool) bool {
	switch w.Type {
	case RoadHighwayLand, RoadHighwayCity:
		return true
	case RoadStreetNLanes:
		return w.isOneway()
	case RoadRamp, RoadStreetService:
		return extended
	}
	return false
}

// sameStreet reports whether both ways carry the same name or the same
// systematic name.
func (w *CandidateWay) sameStreet(o *CandidateWay) bool {
	if w.Name != "" && o.Name != "" && w.Name == o.Name {
		return true
	}
	return w.NameSystematic != "" && o.NameSystematic != "" && w.NameSystematic == o.NameSystematic
}

// allowed reports whether profile may drive w in its direction. A missing
// profile or a way without flags allows everything.
func (p *VehicleProfile) allowed(w *CandidateWay) bool {
	if p == nil || w.Flags == 0 {
		return true
	}
	mask := p.ForwardMask
	if w.Dir < 0 {
		mask = p.ReverseMask
	}
	return w.Flags&mask == p.Flags
}

// buildCatalog returns the ways leaving the junction at p, skipping turn
// restrictions and the excluded ways. A segment the graph cannot resolve is
// kept with an unknown bearing so that it is ignored downstream.
func buildCatalog(g Graph, p orb.Point, logger *slog.Logger, exclude ...WayID) []CandidateWay {
	segs := g.Junction(p)
	ways := make([]CandidateWay, 0, len(segs))
next:
	for _, seg := range segs {
		if seg.TurnRestriction {
			continue
		}
		for _, id := range exclude {
			if seg.Way == id {
				continue next
			}
		}
		s, ok := g.Street(seg.Way)
		if !ok {
			logger.Warn("junction segment not found in graph", "way", seg.Way)
			ways = append(ways, CandidateWay{Way: seg.Way, Dir: seg.Dir})
			continue
		}
		ways = append(ways, newCandidateWay(s, seg.Dir))
	}
	return ways
}
