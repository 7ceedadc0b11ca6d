package navigation

import (
	"fmt"
	"strings"
	"time"

	"kuanb/gosm-navigator/locale"
)

// Mode selects the wording of an instruction.
type Mode int

const (
	// ModeShort is the display text with rounded distances.
	ModeShort Mode = iota
	// ModeLong abbreviates distances to "m".
	ModeLong
	// ModeLongExact is ModeLong without rounding.
	ModeLongExact
	// ModeSpeech is what gets spoken; it depends on the announcement level.
	ModeSpeech
)

func (m Mode) String() string {
	switch m {
	case ModeShort:
		return "short"
	case ModeLong:
		return "long"
	case ModeLongExact:
		return "long_exact"
	case ModeSpeech:
		return "speech"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const (
	maxDestinationSigns     = 10
	maxDestinationLookahead = 10
	// speechGrace is the time a listener needs to take in an announcement.
	speechGrace = 3 * time.Second
)

// commandIndex returns the position of cmd in the command list, or -1.
func (n *Navigation) commandIndex(cmd *Command) int {
	for i, c := range n.cmds {
		if c == cmd {
			return i
		}
	}
	return -1
}

func hasDestination(signs []DestinationSign, name string) bool {
	for _, s := range signs {
		if s.Name == name {
			return true
		}
	}
	return false
}

// selectDestination picks the sign of cmd that keeps showing up in the
// following commands, so that one destination is followed across several
// announcements. It marks that sign in the next signed command.
func (n *Navigation) selectDestination(cmd *Command) (string, bool) {
	signs := cmd.item.Way.Destinations
	if len(signs) == 0 {
		return "", false
	}
	idx := n.commandIndex(cmd)
	if idx < 0 || idx+1 >= len(n.cmds) {
		return bestRanked(signs)
	}
	following := n.cmds[idx+1:]

	best, bestHits := 0, 0
	for i, s := range signs[:min(len(signs), maxDestinationSigns)] {
		hits := 0
		for _, c := range following[:min(len(following), maxDestinationLookahead)] {
			if hasDestination(c.item.Way.Destinations, s.Name) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	setHighRank(following, signs[best].Name)
	if bestHits > 0 {
		return signs[best].Name, true
	}
	return bestRanked(signs)
}

// setHighRank ranks the signs of the next command that has any: name gets
// highRank, everything else 0.
func setHighRank(following []*Command, name string) {
	for _, c := range following {
		signs := c.item.Way.Destinations
		if len(signs) == 0 {
			continue
		}
		for i := range signs {
			if signs[i].Name == name {
				signs[i].Rank = highRank
			} else {
				signs[i].Rank = 0
			}
		}
		return
	}
}

// streetPhrase names the road the command leads into, e.g. "into the street
// Main Street". It is empty when there is nothing to say.
func (n *Navigation) streetPhrase(cmd *Command, current *RouteItem) string {
	p := n.phrases
	w := &cmd.item.Way

	// A ramp is announced by its ref and signage, never by its own name.
	var name, systematic string
	if n.cfg.Vocabulary.Name && !cmd.item.isRamp() {
		name = w.Name
	}
	if n.cfg.Vocabulary.NameSystematic {
		systematic = w.NameSystematic
	}

	if cmd.Maneuver.MergeOrExit.IsMerge() {
		if name == "" && systematic == "" {
			return ""
		}
		return p.Sprintf("onto the %[1]s %[2]s", systematic, name)
	}
	if name == "" && systematic == "" {
		if cmd.item.isRamp() && n.cfg.Vocabulary.NameSystematic && !current.isRamp() {
			return p.Sprintf("into the ramp")
		}
		return ""
	}

	var text string
	if name != "" {
		sep := ""
		if systematic != "" {
			sep = " "
		}
		gender, full := p.Gender(name)
		switch gender {
		case locale.GenderMale:
			text = p.Sprintf("into the %[1]s%[2]s%[3]s|male form", full, sep, systematic)
		case locale.GenderFemale:
			text = p.Sprintf("into the %[1]s%[2]s%[3]s|female form", full, sep, systematic)
		case locale.GenderNeutral:
			text = p.Sprintf("into the %[1]s%[2]s%[3]s|neutral form", full, sep, systematic)
		default:
			text = p.Sprintf("into the street %[1]s%[2]s%[3]s", name, sep, systematic)
		}
	} else {
		text = p.Sprintf("into the %s", systematic)
	}
	// Translations may carry a gender hint after '|'.
	text, _, _ = strings.Cut(text, "|")
	return strings.ReplaceAll(text, "/", " ")
}

// roundaboutExitCount counts the usable exits passed inside the roundabout
// before cmd, the exit taken included.
func (n *Navigation) roundaboutExitCount(cmd *Command) int {
	count := 0
	for cur := n.seq.prev(cmd.item); cur != nil && cur.isRoundabout(); cur = n.seq.prev(cur) {
		next := n.seq.next(cur)
		if next == cmd.item {
			count++
			continue
		}
		for i := range next.Ways {
			w := &next.Ways[i]
			if !w.isRoundabout() && n.profile.allowed(w) {
				count++
				break
			}
		}
	}
	return count
}

func countWord(p Phrases, n int) string {
	switch n {
	case 1:
		return p.Sprintf("first")
	case 2:
		return p.Sprintf("second")
	case 3:
		return p.Sprintf("third")
	case 4:
		return p.Sprintf("fourth")
	case 5:
		return p.Sprintf("fifth")
	case 6:
		return p.Sprintf("sixth")
	}
	return p.Sprintf("%d.", n)
}

func exitCountWord(p Phrases, n int) string {
	switch n {
	case 1:
		return p.Sprintf("first exit")
	case 2:
		return p.Sprintf("second exit")
	case 3:
		return p.Sprintf("third exit")
	case 4:
		return p.Sprintf("fourth exit")
	case 5:
		return p.Sprintf("fifth exit")
	case 6:
		return p.Sprintf("sixth exit")
	}
	return p.Sprintf("exit %d", n)
}

// tidy collapses the whitespace left by empty phrase slots.
func tidy(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// showManeuver renders the instruction for cmd as seen from the item the
// vehicle is on. connect renders the "then ..." form appended to a preceding
// announcement.
func (n *Navigation) showManeuver(current *RouteItem, cmd *Command, mode Mode, connect bool) string {
	p := n.phrases
	distance := int(current.DestLength - cmd.item.DestLength)
	level := 1
	if connect {
		level = levelConnect
	}
	if mode != ModeLongExact {
		distance = RoundDistance(distance)
	}
	if mode == ModeSpeech {
		if limit := n.cfg.TurnAroundLimit; limit > 0 && n.turnAround == limit {
			// Counts every rendered request, so a request chained into one
			// utterance with its followers counts once per rendering.
			n.turnAroundCount++
			return p.Sprintf("When possible, please turn around")
		}
		n.turnAroundCount = 0
		if !connect {
			level = n.commandLevel(current, cmd, float64(distance)-cmd.Length)
		}
	}

	towards := ""
	if dest, ok := n.selectDestination(cmd); ok {
		towards = p.Sprintf("towards %s", dest)
	}

	if prev := n.seq.prev(cmd.item); prev != nil && prev.isRoundabout() {
		exits := n.roundaboutExitCount(cmd)
		switch level {
		case levelTooFar:
			return tidy(p.Sprintf("Follow the road for the next %s", n.formatDistance(distance, mode, true)))
		case 2:
			return p.Sprintf("Enter the roundabout soon")
		case 1:
			return tidy(p.Sprintf("Enter the roundabout %s", n.formatDistance(distance, mode, false)))
		case levelConnect:
			return tidy(p.Sprintf("then leave the roundabout at the %[1]s %[2]s", exitCountWord(p, exits), towards))
		case 0:
			return tidy(p.Sprintf("Leave the roundabout at the %[1]s %[2]s", exitCountWord(p, exits), towards))
		}
	}

	m := cmd.Maneuver
	w := &cmd.item.Way
	tell := false
	if n.cfg.TellStreetName && !cmd.item.isDestination() {
		if mode != ModeSpeech {
			tell = true
		} else {
			// Speech names the street once: at level 1, or at level 0 when
			// level 1 was skipped.
			switch level {
			case 1:
				cmd.item.streetNameTold = true
				tell = true
			case 0:
				if !cmd.item.streetNameTold {
					tell = true
				} else {
					cmd.item.streetNameTold = false
				}
			}
		}
	}
	street := func() string {
		if !tell {
			return ""
		}
		return n.streetPhrase(cmd, current)
	}

	var d string
	switch level {
	case 2:
		d = p.Sprintf("soon")
	case 1:
		d = n.formatDistance(distance, ModeShort, false)
	case 0:
		d = p.Sprintf("now")
	case levelConnect:
		d = p.Sprintf("then")
	}

	var instruction string
	switch m.MergeOrExit {
	case MexNone:
	case MexMergeLeft:
		instruction = p.Sprintf("%[1]s merge left %[2]s", d, street())
	case MexMergeRight:
		instruction = p.Sprintf("%[1]s merge right %[2]s", d, street())
	case MexExitLeft, MexExitRight:
		// The label is dropped when the destination already says it.
		label := w.ExitLabel
		if strings.Contains(p.Fold(towards), p.Fold(label)) {
			label = ""
		}
		if m.MergeOrExit == MexExitLeft {
			instruction = p.Sprintf("%[1]s left exit %[2]s %[3]s", d, w.ExitRef, label)
		} else {
			instruction = p.Sprintf("%[1]s right exit %[2]s %[3]s", d, w.ExitRef, label)
		}
	default:
		at := " "
		if w.ExitRef != "" || w.ExitLabel != "" {
			where := p.Sprintf(" at the exit ")
			if w.ExitRef == "" {
				where = p.Sprintf(" at the interchange ")
			}
			at = where + w.ExitRef + " " + w.ExitLabel
		}
		switch m.Kind {
		case KindStraight:
			instruction = p.Sprintf("%[1]s continue straight%[2]s", d, at)
		case KindKeepRight:
			instruction = p.Sprintf("%[1]s keep right%[2]s", d, at)
		case KindKeepLeft:
			instruction = p.Sprintf("%[1]s keep left%[2]s", d, at)
		}
	}

	if instruction == "" {
		switch m.Kind {
		case KindStraight:
			instruction = p.Sprintf("%[1]s continue straight", d)
		case KindKeepRight:
			instruction = p.Sprintf("%[1]s keep right", d)
		case KindKeepLeft:
			instruction = p.Sprintf("%[1]s keep left", d)
		case KindRight1, KindRight2, KindRight3, KindLeft1, KindLeft2, KindLeft3:
			instruction = n.turnInstruction(current, cmd, level, d, street())
		case KindTurnaroundLeft:
			instruction = p.Sprintf("%[1]s left turnaround", d)
		case KindTurnaroundRight:
			instruction = p.Sprintf("%[1]s right turnaround", d)
		case KindNone:
			instruction = p.Sprintf("follow ")
		case KindDestination:
			if level == levelConnect {
				instruction = p.Sprintf("then you have reached your destination.")
			} else {
				instruction = p.Sprintf("You have reached your destination %s", d)
			}
		default:
			n.logger.Error("unhandled maneuver kind", "kind", m.Kind)
		}
	}

	if level == levelTooFar {
		return tidy(p.Sprintf("Follow the road for the next %s", n.formatDistance(distance, mode, true)))
	}
	return tidy(instruction + " " + towards)
}

// turnInstruction renders a left or right turn. Right at the junction, roads
// on the same side before the turn are counted instead of giving a distance.
func (n *Navigation) turnInstruction(current *RouteItem, cmd *Command, level int, d, street string) string {
	p := n.phrases
	k := cmd.Maneuver.Kind
	right := k == KindRight1 || k == KindRight2 || k == KindRight3
	side, direction := p.Sprintf("left"), -90
	if right {
		side, direction = p.Sprintf("right"), 90
	}

	if level == levelConnect || level == 0 {
		from := current
		if i := n.commandIndex(cmd); i > 0 {
			from = n.cmds[i-1].item
		}
		skip := n.countPossibleTurns(from, cmd.item, direction)
		switch {
		case skip > 0 && skip < 6:
			return p.Sprintf("Take the %[1]s road to the %[2]s", countWord(p, skip+1), side)
		case skip >= 6:
			d = p.Sprintf("after %d roads", skip)
		}
	}

	strength := ""
	switch k {
	case KindRight1, KindLeft1:
		strength = p.Sprintf("easily ")
	case KindRight3, KindLeft3:
		strength = p.Sprintf("strongly ")
	}
	return p.Sprintf("Turn %[1]s%[2]s %[3]s %[4]s", strength, side, d, street)
}

// estimate returns how long the speech backend needs for text.
func (n *Navigation) estimate(text string) (time.Duration, bool) {
	if n.speech == nil {
		return 0, false
	}
	return n.speech.EstimateDuration(text)
}

// showNextManeuvers renders cmd and, in speech mode, chains up to two
// following commands that come too quickly to be announced on their own.
func (n *Navigation) showNextManeuvers(current *RouteItem, cmd *Command, mode Mode) string {
	if mode != ModeSpeech {
		return n.showManeuver(current, cmd, mode, false)
	}
	dist := current.DestLength - cmd.item.DestLength - cmd.Length
	if n.cfg.announceLevel(current.Way.Type, dist) > 1 {
		return n.showManeuver(current, cmd, mode, false)
	}
	if cmd.item.told {
		return ""
	}

	text := n.showManeuver(current, cmd, mode, false)
	timeToManeuver, _ := n.seq.routeTime(current, n.seq.prev(cmd.item))

	idx := n.commandIndex(cmd)
	prev := cmd
	for i := 1; i <= 2 && idx+i < len(n.cmds); i++ {
		cur := n.cmds[idx+i]
		speechTime, ok := n.estimate(n.showManeuver(prev.item, cur, mode, false))
		if !ok {
			speechTime = speechGrace
		}
		gap, _ := n.seq.routeTime(prev.item, n.seq.prev(cur.item))
		if gap >= speechTime+speechGrace {
			break
		}

		joined := text + ", " + n.showManeuver(prev.item, cur, mode, true)
		tooLong := false
		if d, ok := n.estimate(joined); ok && d > timeToManeuver {
			tooLong = true
		} else {
			text = joined
		}
		// Too close to be spoken separately in time.
		if gap <= speechTime {
			cur.item.told = true
		}
		if tooLong {
			break
		}
		prev = cur
	}
	return text
}
