package navigation

import (
	"kuanb/gosm-navigator/geom"
)

// Command is one scheduled announcement, firing at the junction at the start
// of its item.
type Command struct {
	item     *RouteItem
	Maneuver Maneuver
	Delta    int
	// RoundaboutDelta is the corrected bearing change through a roundabout.
	RoundaboutDelta int
	// Length is the estimated distance driven inside a roundabout.
	Length float64
}

// Item returns the route item the command fires at.
func (c *Command) Item() *RouteItem { return c.item }

// newCommand finalizes m for the junction at the start of it.
func (n *Navigation) newCommand(it *RouteItem, m Maneuver) *Command {
	cmd := &Command{item: it, Delta: m.Delta}
	if m.Kind != KindDestination {
		if prev := n.seq.prev(it); prev != nil && prev.isRoundabout() && !it.isRoundabout() {
			n.roundaboutExit(cmd, it, &m)
		} else {
			m.Kind = n.cfg.turnKind(m.Delta, m.Left, m.Right)
		}
		// Exit numbers are posted on the exit itself, whatever the
		// geometry says.
		if it.Way.ExitRef != "" {
			switch {
			case m.Delta < 0:
				m.MergeOrExit = MexExitLeft
			case m.Delta > 0:
				m.MergeOrExit = MexExitRight
			}
			if geom.Abs(m.Delta) < n.cfg.StraightLimit {
				m.Kind = KindStraight
			}
		}
	}
	cmd.Maneuver = m
	return cmd
}

// roundaboutWay finds the roundabout continuation among the ways at it.
func roundaboutWay(it *RouteItem) *CandidateWay {
	for i := range it.Ways {
		if it.Ways[i].isRoundabout() {
			return &it.Ways[i]
		}
	}
	return nil
}

// roundaboutExit corrects the bearing change of a roundabout exit at it and
// picks the roundabout kind. Two estimates are blended: the approach roads
// (delta1), which overestimate V-shaped approaches, and the roundabout
// tangents (delta2), which underestimate widely spaced ones.
func (n *Navigation) roundaboutExit(cmd *Command, it *RouteItem, m *Maneuver) {
	prev := n.seq.prev(it)
	dtsir := 0
	rd := 0

	if w := roundaboutWay(it); w != nil {
		// Error of the tangent estimate: the central angle of the roundabout
		// segment after the exit.
		error2 := 0
		if exit, ok := w.ExitBearing.Degrees(); ok {
			error2 = geom.Abs(geom.AngleDelta(prev.ExitBearing, exit))
		}
		dtsir = geom.AngleDelta(prev.ExitBearing, w.EntryBearing.Deg())
		exitAngle := geom.AngleMedian(prev.ExitBearing, w.EntryBearing.Deg())

		entry := it
		var length float64
		angle := 0
		for p := n.seq.prev(entry); p != nil && p.isRoundabout(); p = n.seq.prev(entry) {
			entry = p
			length += entry.Length
			angle = entry.ExitBearing
		}

		var entryAngle int
		if w2 := roundaboutWay(entry); w2 != nil {
			if exit, ok := w2.ExitBearing.Degrees(); ok {
				error2 = (error2 + geom.Abs(geom.AngleDelta(geom.AngleOpposite(entry.EntryBearing), exit))) / 2
			}
			entryAngle = geom.AngleMedian(geom.AngleOpposite(entry.EntryBearing), w2.EntryBearing.Deg())
		} else {
			entryAngle = geom.AngleOpposite(angle)
		}
		delta2 := geom.AngleDelta(entryAngle, exitAngle)

		if approach := n.seq.prev(entry); approach != nil {
			delta1 := geom.AngleDelta(approach.ExitBearing, it.EntryBearing)
			// Turning around with V-shaped approaches points delta1 the
			// wrong way round.
			if m.Delta > dtsir && delta2 < 0 && delta1 > 90 {
				delta1 -= 360
			}
			if m.Delta < dtsir && delta2 > 0 && delta1 < -90 {
				delta1 += 360
			}

			side := -180
			if m.Delta < dtsir {
				side = 180
			}
			circumference := length
			if central := geom.Abs((delta1+delta2)/2 + side); central != 0 {
				circumference = length * 360 / float64(central)
			}
			capDist := circumference / 2

			error1 := geom.Abs(n.approachDeviation(approach, capDist))
			error1 = (error1 + geom.Abs(n.departureDeviation(it, capDist)) + 1) / 2

			error1 = (error1 + 1) / 2
			error2 = (error2 + 1) / 2
			switch {
			case m.Delta > dtsir && delta1 < delta2:
				delta1 += error1
				delta2 -= error2
			case m.Delta < dtsir && delta1 > delta2:
				delta1 -= error1
				delta2 += error2
			}

			if error1 == 0 && error2 == 0 {
				rd = (delta1 + delta2) / 2
			} else {
				rd = (delta1*error2 + delta2*error1) / (error1 + error2)
			}
		} else {
			rd = delta2
		}
		cmd.Length = length + n.cfg.RoundaboutExtra
	}

	cmd.RoundaboutDelta = rd
	m.Kind = roundaboutKind(rd, m.Delta < dtsir)
}

// approachStops reports where an approach road begins: a road turning into a
// ramp, or a two-way road.
func approachStops(it, toward *RouteItem) bool {
	return (toward != nil && toward.isRamp() && !it.isRamp()) || !it.Way.isOneway()
}

// approachDeviation returns the largest bearing deviation of the road leading
// into a roundabout, within capDist of it, relative to the bearing the road
// enters with.
func (n *Navigation) approachDeviation(last *RouteItem, capDist float64) int {
	ref := last.ExitBearing
	dmax := 0
	keep := func(d int, ok bool) {
		if ok && geom.Abs(d) > geom.Abs(dmax) {
			dmax = d
		}
	}

	left := capDist
	stopped := false
	it := last
	for n.seq.prev(it) != nil && left >= it.Length {
		if approachStops(it, n.seq.next(it)) {
			stopped = true
			break
		}
		keep(geom.MaxBearingDeviation(it.Points, ref, it.Length, -1))
		left -= it.Length
		it = n.seq.prev(it)
		if len(n.seq.next(it).Ways) > 0 {
			stopped = true
			break
		}
	}
	switch {
	case stopped:
		keep(geom.AngleDelta(ref, it.ExitBearing), true)
	case left <= it.Length:
		keep(geom.MaxBearingDeviation(geom.Tail(it.Points, left), ref, left, -1))
	default:
		keep(geom.AngleDelta(ref, it.EntryBearing), true)
	}
	return dmax
}

// departureDeviation is approachDeviation for the road leaving a roundabout,
// starting at first.
func (n *Navigation) departureDeviation(first *RouteItem, capDist float64) int {
	ref := first.EntryBearing
	dmax := 0
	keep := func(d int, ok bool) {
		if ok && geom.Abs(d) > geom.Abs(dmax) {
			dmax = d
		}
	}

	left := capDist
	stopped := false
	it := first
	for n.seq.next(it) != nil && left >= it.Length {
		if approachStops(it, n.seq.prev(it)) {
			stopped = true
			break
		}
		keep(geom.MaxBearingDeviation(it.Points, ref, left, 1))
		left -= it.Length
		it = n.seq.next(it)
		if len(it.Ways) > 0 {
			stopped = true
			break
		}
	}
	switch {
	case stopped:
		keep(geom.AngleDelta(ref, it.EntryBearing), true)
	case left <= it.Length:
		keep(geom.MaxBearingDeviation(it.Points, ref, left, 1))
	default:
		keep(geom.AngleDelta(ref, it.ExitBearing), true)
	}
	return dmax
}

// makeManeuvers rebuilds the command list from the whole sequence.
func (n *Navigation) makeManeuvers() {
	n.cmds = n.cmds[:0]
	var prev *RouteItem
	for _, it := range n.seq.items {
		if prev != nil {
			if m, ok := n.engine.decide(n.seq, prev, it); ok {
				n.cmds = append(n.cmds, n.newCommand(it, m))
			}
		}
		prev = it
	}
	if last := n.seq.last(); last != nil {
		n.cmds = append(n.cmds, n.newCommand(last, Maneuver{Kind: KindDestination}))
	}
}
