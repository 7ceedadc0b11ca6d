// Package navigation turns a computed route into maneuvers and turn-by-turn
// announcements.
package navigation

import (
	"io"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
)

// Navigation owns the route items and commands of the current route and the
// announcement state. It is not safe for concurrent use.
type Navigation struct {
	graph   Graph
	cfg     *Config
	profile *VehicleProfile
	speech  Speech
	phrases Phrases
	logger  *slog.Logger
	engine  *engine

	seq  *sequence
	cmds []*Command

	levelLast       int
	itemLast        WayID
	turnAround      int
	turnAroundCount int
	distanceTurn    int
	currDelay       int

	onUpdate []func(*Navigation)
	onSpeech []func(string)
}

// Option configures a Navigation.
type Option func(*Navigation)

// WithConfig replaces the default thresholds.
func WithConfig(cfg Config) Option {
	return func(n *Navigation) {
		n.cfg = &cfg
	}
}

// WithVehicleProfile sets the profile deciding which roads count as options.
func WithVehicleProfile(p *VehicleProfile) Option {
	return func(n *Navigation) {
		n.profile = p
	}
}

// WithSpeech sets the backend used to estimate utterance durations.
func WithSpeech(s Speech) Option {
	return func(n *Navigation) {
		n.speech = s
	}
}

// WithLogger sets the logger; nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigation) {
		n.logger = l
	}
}

// New returns a navigation context reading road data from g and wording
// instructions with phrases.
func New(g Graph, phrases Phrases, opts ...Option) *Navigation {
	cfg := DefaultConfig()
	n := &Navigation{
		graph:     g,
		cfg:       &cfg,
		profile:   CarProfile(),
		phrases:   phrases,
		seq:       newSequence(),
		levelLast: levelUnset,
		itemLast:  -1,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	n.distanceTurn = n.cfg.TurnAroundStart
	// Start settled on a route driven in the right direction.
	if limit := n.cfg.TurnAroundLimit; limit > 0 {
		n.turnAround = -limit + 1
	}
	n.engine = &engine{cfg: n.cfg, profile: n.profile, logger: n.logger}
	return n
}

// OnUpdate registers f to run after every processed route update.
func (n *Navigation) OnUpdate(f func(*Navigation)) {
	n.onUpdate = append(n.onUpdate, f)
}

// OnSpeech registers f to receive every announcement that must be spoken.
func (n *Navigation) OnSpeech(f func(text string)) {
	n.onSpeech = append(n.onSpeech, f)
}

// TurnAroundCount is the number of turn-around requests spoken in a row.
func (n *Navigation) TurnAroundCount() int {
	return n.turnAroundCount
}

// Commands returns the current commands in route order; the last one is the
// destination.
func (n *Navigation) Commands() []*Command {
	return n.cmds
}

// flush drops the route.
func (n *Navigation) flush() {
	n.seq.reset()
	n.cmds = nil
}

// UpdateRoute processes a route computation result. A route that still starts
// on the current first item is updated in place; anything else rebuilds the
// item sequence and the commands.
func (n *Navigation) UpdateRoute(u RouteUpdate) {
	switch u.Status {
	case StatusNoDestination, StatusNotFound, StatusPathDoneNew:
		n.flush()
	}
	if u.Status != StatusPathDoneNew && u.Status != StatusPathDoneIncremental {
		return
	}

	if limit := n.cfg.TurnAroundLimit; limit > 0 {
		if u.StartReversed {
			if n.turnAround < limit {
				n.turnAround++
			}
		} else if n.turnAround > -limit+1 {
			n.turnAround--
		}
	}

	if len(u.Segments) == 0 {
		n.flush()
		return
	}

	head := u.Segments[0]
	if it := n.seq.lookup(head.Way); it != nil && it.Way.Dir == head.Dir {
		n.seq.trimBefore(it)
		n.trimCommands(it)
		if !it.update(head.Metrics) {
			n.logger.Warn("route segment without length, time or speed", "way", head.Way)
		}
		if len(head.Points) > 0 {
			it.Points = head.Points
			it.Start = head.Points[0]
		}
		n.seq.calculateDestDistance(true)
	} else {
		n.rebuild(u.Segments)
	}
	n.logger.Debug("route updated", "status", u.Status, "items", n.seq.len(), "commands", len(n.cmds))
	n.callCallbacks(false)
}

// trimCommands drops the commands at or before the new first item.
func (n *Navigation) trimCommands(first *RouteItem) {
	i := 0
	for i < len(n.cmds) && n.cmds[i].item.ref <= first.ref {
		i++
	}
	n.cmds = n.cmds[i:]
}

func (n *Navigation) rebuild(segs []RouteSegment) {
	n.flush()
	var prev *RouteItem
	for _, seg := range segs {
		it := newRouteItem(n.graph, seg, prev, n.logger)
		if it == nil {
			continue
		}
		n.seq.append(it)
		prev = it
	}
	if prev == nil {
		return
	}
	n.seq.append(destinationItem(prev))
	for _, it := range n.seq.items {
		n.seq.updateWays(n.graph, it, n.logger)
	}
	n.makeManeuvers()
	n.seq.calculateDestDistance(false)
}

// Announcement renders the next command for the given mode from the vehicle's
// current position. It is empty without a route.
func (n *Navigation) Announcement(mode Mode) string {
	first := n.seq.first()
	if first == nil || len(n.cmds) == 0 {
		return ""
	}
	return n.showNextManeuvers(first, n.cmds[0], mode)
}

// ManeuverInfo is one entry of the outward maneuver list.
type ManeuverInfo struct {
	Kind                 Kind
	Distance             float64
	Time                 time.Duration
	Level                int
	Short, Long          string
	StreetName           string
	StreetNameSystematic string
	Destination          string
	ExitRef, ExitLabel   string
	Point                orb.Point
	Delta                int
	RoundaboutDelta      int
}

// displayKind folds merges and exits into the kind shown to the driver.
func displayKind(cmd *Command) Kind {
	switch cmd.Maneuver.MergeOrExit {
	case MexMergeLeft:
		return KindMergeLeft
	case MexMergeRight:
		return KindMergeRight
	case MexExitLeft:
		return KindExitLeft
	case MexExitRight:
		return KindExitRight
	}
	return cmd.Maneuver.Kind
}

// Maneuvers lists the vehicle position followed by every command, the last
// being the destination.
func (n *Navigation) Maneuvers() []ManeuverInfo {
	first := n.seq.first()
	if first == nil {
		return nil
	}
	out := make([]ManeuverInfo, 0, len(n.cmds)+1)
	out = append(out, ManeuverInfo{
		Kind:                 KindPosition,
		StreetName:           first.Way.Name,
		StreetNameSystematic: first.Way.NameSystematic,
		Point:                first.Start,
	})
	for _, cmd := range n.cmds {
		it := cmd.item
		distance := first.DestLength - it.DestLength
		info := ManeuverInfo{
			Kind:                 displayKind(cmd),
			Distance:             distance,
			Time:                 first.DestTime - it.DestTime,
			Level:                n.commandLevel(first, cmd, distance-cmd.Length),
			Short:                n.showManeuver(first, cmd, ModeShort, false),
			Long:                 n.showManeuver(first, cmd, ModeLong, false),
			StreetName:           it.Way.Name,
			StreetNameSystematic: it.Way.NameSystematic,
			ExitRef:              it.Way.ExitRef,
			ExitLabel:            it.Way.ExitLabel,
			Point:                it.Start,
			Delta:                cmd.Delta,
			RoundaboutDelta:      cmd.RoundaboutDelta,
		}
		if dest, ok := bestRanked(it.Way.Destinations); ok {
			info.Destination = dest
		}
		out = append(out, info)
	}
	return out
}
