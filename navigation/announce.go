package navigation

import "kuanb/gosm-navigator/geom"

// Announcement levels. 0 is "now", 1 the distance announcement, 2 "soon";
// levelTooFar is beyond every threshold.
const (
	levelConnect = -2
	levelTooFar  = 3
	levelUnset   = 4
)

// announceLevel returns the index of the first threshold of t's table that
// dist is within, or levelTooFar.
func (c *Config) announceLevel(t RoadType, dist float64) int {
	levels, ok := c.announceLevels(t)
	if !ok {
		return levelTooFar
	}
	for i, limit := range levels {
		if limit >= 0 && dist <= float64(limit) {
			return i
		}
	}
	return levelTooFar
}

// commandLevel evaluates the table of the vehicle's current road and of the
// road leading into the command, keeping the more urgent level.
func (n *Navigation) commandLevel(first *RouteItem, cmd *Command, dist float64) int {
	level := n.cfg.announceLevel(first.Way.Type, dist)
	if prev := n.seq.prev(cmd.item); prev != nil {
		level = min(level, n.cfg.announceLevel(prev.Way.Type, dist))
	}
	return level
}

// callCallbacks notifies update listeners and decides whether the next
// command must be spoken now.
func (n *Navigation) callCallbacks(force bool) {
	if len(n.cmds) == 0 {
		return
	}
	for _, f := range n.onUpdate {
		f(n)
	}

	first := n.seq.first()
	cmd := n.cmds[0]
	distance := float64(RoundDistance(int(first.DestLength - cmd.item.DestLength)))
	level := 0
	limit := n.cfg.TurnAroundLimit

	switch {
	case limit > 0 && n.turnAround == limit:
		if distance > float64(n.distanceTurn) {
			n.levelLast = levelUnset
			level = levelUnset
			force = true
			for distance > float64(n.distanceTurn) {
				n.distanceTurn = n.nextTurnDistance(n.distanceTurn)
			}
		}
	case limit == 0 || n.turnAround == -limit+1:
		n.distanceTurn = n.cfg.TurnAroundStart
		distance -= cmd.Length
		level = n.commandLevel(first, cmd, distance)
		if level < n.levelLast {
			// Only speak when the level holds for the lookahead at the
			// current speed.
			speedDistance := first.Speed / 3.6 * n.cfg.SpeechLookahead.Seconds()
			if distance < speedDistance || n.commandLevel(first, cmd, distance-speedDistance) == level {
				n.levelLast = level
				force = true
			}
		}
		if cmd.item.Way.Way != n.itemLast {
			n.itemLast = cmd.item.Way.Way
			if n.cfg.Delay > 0 {
				n.currDelay = n.cfg.Delay
			} else {
				force = true
			}
		} else if n.currDelay > 0 {
			n.currDelay--
			if n.currDelay == 0 {
				force = true
			}
		}
	}

	if !force {
		return
	}
	n.levelLast = level
	n.currDelay = 0
	text := n.showNextManeuvers(first, cmd, ModeSpeech)
	n.logger.Debug("speech", "level", level, "distance", distance, "text", text)
	for _, f := range n.onSpeech {
		f(text)
	}
}

// nextTurnDistance grows the turn-around repeat distance: from the start
// distance it jumps to the cap, then doubles.
func (n *Navigation) nextTurnDistance(d int) int {
	switch {
	case d <= 0:
		return n.cfg.TurnAroundStart
	case d < n.cfg.TurnAroundStepCap:
		return n.cfg.TurnAroundStepCap
	}
	return d * 2
}

// countPossibleTurns counts the junctions strictly between from and to where
// an allowed road leaves to the given side. It returns -1 when to does not
// follow from.
func (n *Navigation) countPossibleTurns(from, to *RouteItem, direction int) int {
	count := 0
	cur := n.seq.next(from)
	for ; cur != nil && cur != to; cur = n.seq.next(cur) {
		prev := n.seq.prev(cur)
		for i := range cur.Ways {
			w := &cur.Ways[i]
			deg, ok := w.EntryBearing.Degrees()
			if !ok || !n.profile.allowed(w) {
				continue
			}
			d := geom.AngleDelta(prev.ExitBearing, deg)
			if (direction < 0 && d < 0) || (direction > 0 && d > 0) {
				count++
				break
			}
		}
	}
	if cur == nil {
		return -1
	}
	return count
}
