package navigation

import (
	"log/slog"
	"time"

	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/geom"
)

// RouteItem is one segment of the remaining route.
type RouteItem struct {
	ref int

	// Way is the route's own way; Ways are the alternatives at Start.
	Way  CandidateWay
	Ways []CandidateWay

	Points       orb.LineString
	Start, End   orb.Point
	EntryBearing int
	ExitBearing  int

	Length float64
	Time   time.Duration
	Speed  float64

	DestLength float64
	DestTime   time.Duration
	DestCount  int

	told           bool
	streetNameTold bool
}

// Ref is the item's stable handle within its sequence.
func (it *RouteItem) Ref() int { return it.ref }

func (it *RouteItem) isRoundabout() bool { return it.Way.isRoundabout() }

func (it *RouteItem) isRamp() bool { return it.Way.isRamp() }

// isDestination reports the trailing sentinel item.
func (it *RouteItem) isDestination() bool { return it.Way.Way == 0 && it.Way.Type == RoadUnknown }

// update copies the travel metrics; missing metrics leave the old values.
func (it *RouteItem) update(m *Metrics) bool {
	if m == nil {
		return false
	}
	it.Length = m.Length
	it.Time = m.Time
	it.Speed = m.Speed
	return true
}

// sequence owns the route items from the vehicle position to the
// destination. Handles stay valid while the head is trimmed.
type sequence struct {
	base  int
	items []*RouteItem
	byWay map[WayID]int
}

func newSequence() *sequence {
	return &sequence{byWay: make(map[WayID]int)}
}

func (s *sequence) len() int { return len(s.items) }

func (s *sequence) get(ref int) *RouteItem {
	i := ref - s.base
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return s.items[i]
}

func (s *sequence) first() *RouteItem {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[0]
}

func (s *sequence) last() *RouteItem {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *sequence) prev(it *RouteItem) *RouteItem {
	if it == nil {
		return nil
	}
	return s.get(it.ref - 1)
}

func (s *sequence) next(it *RouteItem) *RouteItem {
	if it == nil {
		return nil
	}
	return s.get(it.ref + 1)
}

func (s *sequence) lookup(id WayID) *RouteItem {
	ref, ok := s.byWay[id]
	if !ok {
		return nil
	}
	return s.get(ref)
}

func (s *sequence) append(it *RouteItem) {
	it.ref = s.base + len(s.items)
	s.items = append(s.items, it)
	if it.Way.Way != 0 {
		s.byWay[it.Way.Way] = it.ref
	}
}

// trimBefore drops every item ahead of it.
func (s *sequence) trimBefore(it *RouteItem) {
	n := it.ref - s.base
	if n <= 0 {
		return
	}
	for _, old := range s.items[:n] {
		if ref, ok := s.byWay[old.Way.Way]; ok && ref == old.ref {
			delete(s.byWay, old.Way.Way)
		}
	}
	s.items = s.items[n:]
	s.base = it.ref
}

func (s *sequence) reset() {
	s.base += len(s.items)
	s.items = nil
	s.byWay = make(map[WayID]int)
}

// newRouteItem builds the item for seg. It returns nil when the graph does not
// know the segment's way.
func newRouteItem(g Graph, seg RouteSegment, prev *RouteItem, logger *slog.Logger) *RouteItem {
	street, ok := g.Street(seg.Way)
	if !ok {
		logger.Warn("route segment not found in graph", "way", seg.Way)
		return nil
	}
	it := &RouteItem{
		Way:    newCandidateWay(street, seg.Dir),
		Points: seg.Points,
	}
	if !it.update(seg.Metrics) {
		logger.Warn("route segment without length, time or speed", "way", seg.Way)
	}
	if len(seg.Points) > 0 {
		it.Start = seg.Points[0]
		it.End = seg.Points[len(seg.Points)-1]
	}
	// Points are already in travel order.
	it.EntryBearing = geom.EntryBearing(seg.Points, 1).Deg()
	it.ExitBearing = geom.ExitBearing(seg.Points, 1).Deg()

	if it.isRamp() && len(seg.Points) > 0 {
		if exit, ok := g.ExitAt(it.Start); ok {
			it.Way.ExitRef = exit.Ref
			it.Way.ExitLabel = exit.Label
			// exit_to only stands in for missing signage, and not when the
			// route already runs on a ramp.
			if exit.To != "" && len(it.Way.Destinations) == 0 && prev != nil && !prev.isRamp() {
				it.Way.Destinations = SplitDestinations(exit.To)
			}
		}
	}
	return it
}

// destinationItem is the sentinel closing the sequence.
func destinationItem(last *RouteItem) *RouteItem {
	it := &RouteItem{}
	if last != nil {
		it.Start, it.End = last.End, last.End
		it.EntryBearing, it.ExitBearing = last.ExitBearing, last.ExitBearing
	}
	return it
}

// updateWays rebuilds the alternatives at the start of it.
func (s *sequence) updateWays(g Graph, it *RouteItem, logger *slog.Logger) {
	prev := s.prev(it)
	if prev == nil || it.isDestination() {
		it.Ways = nil
		return
	}
	it.Ways = buildCatalog(g, it.Start, logger, it.Way.Way, prev.Way.Way)
}

// routeTime sums travel time from from to to, both included. It returns false
// when to does not follow from.
func (s *sequence) routeTime(from, to *RouteItem) (time.Duration, bool) {
	if from == nil || to == nil || to.ref < from.ref {
		return 0, false
	}
	var total time.Duration
	for it := from; it != nil; it = s.next(it) {
		total += it.Time
		if it == to {
			return total, true
		}
	}
	return 0, false
}

// calculateDestDistance fills the cumulative distance, time and count to the
// destination. The incremental form only refreshes the first item.
func (s *sequence) calculateDestDistance(incremental bool) {
	if len(s.items) == 0 {
		return
	}
	if incremental {
		first := s.items[0]
		if next := s.next(first); next != nil {
			first.DestLength = next.DestLength + first.Length
			first.DestTime = next.DestTime + first.Time
			first.DestCount = next.DestCount + 1
		}
		return
	}
	var length float64
	var t time.Duration
	count := 0
	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		length += it.Length
		t += it.Time
		it.DestLength = length
		it.DestTime = t
		it.DestCount = count
		count++
	}
}
