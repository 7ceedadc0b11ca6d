package navigation

import (
	"log/slog"

	"kuanb/gosm-navigator/geom"
)

// Maneuver is the analysis of one junction.
type Maneuver struct {
	Kind        Kind
	Delta       int
	MergeOrExit MergeOrExit

	ComplexTJunction bool
	Unambiguous      bool
	SameStreet       bool

	NumOptions      int
	NumNewMotorways int
	NumOtherWays    int
	NumSimilarWays  int

	OldCat, NewCat, MaxCat int
	// Left and Right are the deltas of the nearest other options on either
	// side of Delta (-180 and 180 when there are none).
	Left, Right int

	// Reason explains the decision.
	Reason string
}

// engine decides which junctions need a maneuver.
type engine struct {
	cfg     *Config
	profile *VehicleProfile
	logger  *slog.Logger
}

// junction aggregates every candidate at a junction in one pass.
type junction struct {
	motorwaysLeft   int
	motorwaysRight  int
	throughSegments int
	// dc is the delta of another option within the minimum turn on the
	// same side as the route, or the route's own delta.
	dc int
}

// alternatives returns the other ways at new's start, leaving out those with
// an unknown bearing and those overlapping the route's continuation.
func alternatives(new *RouteItem) []*CandidateWay {
	var alts []*CandidateWay
	for i := range new.Ways {
		w := &new.Ways[i]
		deg, ok := w.EntryBearing.Degrees()
		if !ok || deg == new.EntryBearing {
			continue
		}
		alts = append(alts, w)
	}
	return alts
}

// aggregate runs the single pass over the route continuation and its
// alternatives, filling the counters of m.
func (e *engine) aggregate(old, new *RouteItem, alts []*CandidateWay, m *Maneuver) junction {
	j := junction{dc: m.Delta}
	minTurn := e.cfg.MinTurnLimit
	oldMotorway := old.Way.motorwayLike(false)

	all := append([]*CandidateWay{&new.Way}, alts...)
	for _, w := range all {
		self := w == &new.Way
		dw := m.Delta
		if !self {
			dw = geom.AngleDelta(old.ExitBearing, w.EntryBearing.Deg())
		}
		if e.profile.allowed(w) {
			m.NumOptions++
			if w.Type.Category() == m.OldCat {
				m.NumSimilarWays++
			}
			if w.motorwayLike(false) {
				m.NumNewMotorways++
			} else if !w.motorwayLike(true) {
				m.NumOtherWays++
			}
			if !self {
				if w.motorwayLike(false) && oldMotorway && new.isRamp() {
					if dw < m.Delta {
						j.motorwaysLeft++
					} else {
						j.motorwaysRight++
					}
				}
				if dw < m.Delta {
					m.Left = max(m.Left, dw)
				} else {
					m.Right = min(m.Right, dw)
				}
				// Near-straight options make the maneuver ambiguous, unless
				// they are ramps or service roads next to a regular road.
				if dw > -minTurn && dw < minTurn && (w.Type.Category() != 0 || m.NewCat == 0) {
					m.Unambiguous = false
				}
				if dw < 0 && dw > -minTurn && m.Delta < 0 && m.Delta > -minTurn {
					j.dc = dw
				} else if dw >= 0 && dw < minTurn && m.Delta > 0 && m.Delta < minTurn {
					j.dc = dw
				}
				// Motorways split and ramps are often tagged with the
				// motorway's name, so those keep the same-street signal.
				if m.SameStreet && old.Way.sameStreet(w) &&
					(!oldMotorway || (!w.motorwayLike(false) && !w.isRamp())) {
					m.SameStreet = false
				}
				m.MaxCat = max(m.MaxCat, w.Type.Category())
			}
		} else if w.motorwayLike(false) && new.Way.motorwayLike(false) && old.isRamp() {
			if dw < 0 {
				j.motorwaysLeft++
			} else {
				j.motorwaysRight++
			}
		}
		if w.isOneway() && new.Way.sameStreet(w) {
			j.throughSegments++
		}
	}
	return j
}

// complexTJunction looks back from old for the other carriageway of a dual
// carriageway road that new turns onto.
func (e *engine) complexTJunction(seq *sequence, old, new *RouteItem) bool {
	hist := 0
	dist := old.Length
	for ni := old; ni != nil && hist == 0 && dist <= e.cfg.TJunctionLimit; {
		for i := range ni.Ways {
			w := &ni.Ways[i]
			if w.isOneway() && new.Way.sameStreet(w) {
				hist++
			}
		}
		ni = seq.prev(ni)
		if ni != nil {
			dist += ni.Length
		}
	}
	return hist == 2
}

// ambiguityWindow returns dlim: when no other option lies within +/-dlim of
// straight on, the maneuver is unambiguous.
func ambiguityWindow(m *Maneuver) int {
	dlim := 120
	if m.NewCat < m.OldCat {
		dlim = 80
	}
	abs := geom.Abs(m.Delta)
	if abs < 20 {
		dlim /= 2
	}
	switch {
	case (m.MaxCat == m.NewCat && m.MaxCat == m.OldCat) || (m.NewCat == 0 && m.OldCat == 0):
		dlim = abs * 620 / 256
	case max(m.OldCat, m.NewCat, m.MaxCat)-min(m.OldCat, m.NewCat, m.MaxCat) <= 1:
		dlim = abs + 1
	case m.MaxCat < m.NewCat && m.MaxCat < m.OldCat:
		dlim = abs * 128 / 256
	}
	return dlim
}

// motorwayRole classifies merges onto and exits off motorway-like roads.
func (e *engine) motorwayRole(seq *sequence, old, new *RouteItem, j junction, m *Maneuver) MergeOrExit {
	switch {
	case old.isRamp() && new.Way.motorwayLike(false):
		if j.motorwaysLeft > 0 {
			return MexMergeLeft
		}
		if j.motorwaysRight > 0 {
			return MexMergeRight
		}
	case new.isRamp() && old.Way.motorwayLike(false):
		// A chain of ramps that never touches a regular road and ends on a
		// motorway is an interchange, not an exit.
		leaves := false
		ni := seq.next(new)
		for ; !leaves && ni != nil && ni.isRamp(); ni = seq.next(ni) {
			if !ni.Way.motorwayLike(true) {
				leaves = true
			}
			for i := range ni.Ways {
				if !ni.Ways[i].motorwayLike(true) {
					leaves = true
					break
				}
			}
		}
		if ni != nil && !leaves && ni.Way.motorwayLike(false) {
			return MexInterchange
		}
		if j.motorwaysLeft > 0 && m.Left > -90 {
			return MexExitRight
		}
		if j.motorwaysRight > 0 && m.Right < 90 {
			return MexExitLeft
		}
	}
	return MexNone
}

// decide analyses the junction between old and new. It reports whether a
// maneuver must be announced there.
func (e *engine) decide(seq *sequence, old, new *RouteItem) (Maneuver, bool) {
	m := Maneuver{
		Delta:       geom.AngleDelta(old.ExitBearing, new.EntryBearing),
		OldCat:      old.Way.Type.Category(),
		NewCat:      new.Way.Type.Category(),
		MaxCat:      -1,
		Left:        -180,
		Right:       180,
		Unambiguous: true,
		SameStreet:  old.Way.sameStreet(&new.Way),
	}
	announce, reason := e.evaluate(seq, old, new, &m)
	m.Reason = reason
	e.logger.Debug("junction", "way", new.Way.Way, "announce", announce, "reason", reason,
		"delta", m.Delta, "left", m.Left, "right", m.Right, "mex", m.MergeOrExit)
	return m, announce
}

func (e *engine) evaluate(seq *sequence, old, new *RouteItem, m *Maneuver) (bool, string) {
	alts := alternatives(new)
	switch {
	case len(alts) == 0:
		return false, "no: only one possibility"
	case len(alts) == 1 && alts[0].isRamp() && !e.profile.allowed(alts[0]):
		return false, "no: only ramp and unallowed direction"
	}

	switch {
	case old.isRoundabout() && !new.isRoundabout():
		m.MergeOrExit = e.motorwayRole(seq, old, new, junction{}, m)
		return true, "yes: leaving roundabout"
	case len(alts) == 1 && !old.isRoundabout() && new.isRoundabout() && alts[0].isRoundabout():
		return false, "no: entering roundabout"
	case old.isRoundabout() && new.isRoundabout():
		return false, "no: staying in roundabout"
	}

	j := e.aggregate(old, new, alts, m)
	abs := geom.Abs(m.Delta)
	minTurn := e.cfg.MinTurnLimit

	announce, reason := false, ""
	switch {
	case m.NumOptions <= 1 && abs >= minTurn && j.throughSegments == 2 && e.complexTJunction(seq, old, new):
		m.ComplexTJunction = true
		announce, reason = true, "yes: turning into dual-carriageway through-road of T junction"
	case abs > e.cfg.SharpOverride:
		announce, reason = true, "yes: delta over sharp turn limit"
	case abs >= minTurn && m.NewCat >= RoadStreet2City.Category() && m.NumSimilarWays > 1:
		announce, reason = true, "yes: more than one similar road and delta >= min_turn_limit"
	case m.NumOptions <= 1:
		reason = "no: only one option permitted"
	case old.Way.motorwayLike(false) && m.NumOtherWays == 0 && m.NumNewMotorways > 1:
		m.MergeOrExit = MexInterchange
		announce, reason = true, "yes: motorway interchange (multiple motorways)"
	case old.Way.motorwayLike(false) && m.NumOtherWays == 0 && !m.SameStreet:
		announce, reason = true, "yes: motorway interchange (name changes)"
	case new.isRamp() && (m.NumOtherWays == 0 || abs >= minTurn) && (m.Left > -90 || m.Right < 90):
		announce, reason = true, "yes: entering ramp"
	default:
		dlim := ambiguityWindow(m)
		if m.Left >= -dlim || m.Right <= dlim || j.dc != m.Delta {
			m.Unambiguous = false
		}
		if !m.SameStreet && !m.Unambiguous {
			announce, reason = true, "yes: different street and ambiguous"
		} else {
			reason = "no: same street or unambiguous"
		}
	}

	if m.MergeOrExit == MexNone {
		if mex := e.motorwayRole(seq, old, new, j, m); mex != MexNone {
			m.MergeOrExit = mex
			if !announce {
				announce = true
				if mex.IsMerge() {
					reason = "yes: merging onto motorway-like road"
				} else {
					reason = "yes: exiting motorway-like road"
				}
			}
		}
	}
	return announce, reason
}

// turnKind assigns the kind of a non-roundabout maneuver from its delta and
// the nearest other options on either side.
func (c *Config) turnKind(delta, left, right int) Kind {
	abs := geom.Abs(delta)
	if abs < c.StraightLimit {
		hasLeft := left-delta > -c.KeepSideWindow
		hasRight := right-delta < c.KeepSideWindow
		switch {
		case hasLeft && !hasRight:
			return KindKeepRight
		case hasRight && !hasLeft:
			return KindKeepLeft
		}
		return KindStraight
	}
	strength := 0
	switch {
	case abs >= c.UTurnLimit:
		if delta > 0 {
			return KindTurnaroundRight
		}
		return KindTurnaroundLeft
	case abs >= c.SharpTurnLimit:
		strength = 2
	case abs >= c.Turn2Limit:
		strength = 1
	}
	if delta > 0 {
		return KindRight1 + Kind(strength)
	}
	return KindLeft1 + Kind(strength)
}

// roundaboutKind maps a corrected roundabout delta to its icon bucket.
// exitLeft selects the left-hand (clockwise) set, which mirrors the right-hand
// one: roundaboutKind(-rd, true) is the mirror of roundaboutKind(rd, false).
func roundaboutKind(rd int, exitLeft bool) Kind {
	if exitLeft {
		return roundaboutKind(-rd, false) - KindRoundaboutR1 + KindRoundaboutL1
	}
	idx := min(max((180+22-rd)/45, 0), 8)
	right := [...]Kind{
		KindRoundaboutR1, KindRoundaboutR1, KindRoundaboutR2, KindRoundaboutR3, KindRoundaboutR4,
		KindRoundaboutR5, KindRoundaboutR6, KindRoundaboutR7, KindRoundaboutR8,
	}
	return right[idx]
}
