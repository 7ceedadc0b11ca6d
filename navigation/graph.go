package navigation

import (
	"time"

	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/locale"
)

// WayID identifies a graph segment (a way between two junctions).
type WayID int64

// Street holds the attributes of a graph segment.
type Street struct {
	ID             WayID
	Type           RoadType
	Flags          WayFlags
	Name           string
	NameSystematic string
	// Destination is used for one-way streets, DestinationForward and
	// DestinationBackward for the respective direction of two-way streets.
	Destination         string
	DestinationForward  string
	DestinationBackward string
	// Geometry is in storage order; Dir values are relative to it.
	Geometry orb.LineString
}

// JunctionSegment is one graph segment incident to a junction node. Dir is the
// direction that leaves the junction: +1 along the segment's geometry, -1
// against it.
type JunctionSegment struct {
	Way             WayID
	Dir             int
	TurnRestriction bool
}

// Exit is the signage of a motorway exit node.
type Exit struct {
	Ref   string
	Label string
	To    string
}

// Graph is the route-graph collaborator.
type Graph interface {
	// Street returns the attributes of a segment.
	Street(id WayID) (Street, bool)
	// Junction returns every segment touching the node at p.
	Junction(p orb.Point) []JunctionSegment
	// ExitAt returns exit signage at the node at p.
	ExitAt(p orb.Point) (Exit, bool)
}

// Metrics are the mandatory travel attributes of a route segment.
type Metrics struct {
	Length float64 // meters
	Time   time.Duration
	Speed  float64 // km/h
}

// RouteSegment is one piece of the computed route in driving order.
type RouteSegment struct {
	Way WayID
	Dir int
	// Points is in driving order; the first segment may start mid-way at the
	// vehicle position.
	Points orb.LineString
	// Metrics is nil when the router could not supply them.
	Metrics *Metrics
}

// RouteStatus is the state of the route computation an update reports.
type RouteStatus int

const (
	StatusCalculating RouteStatus = iota
	StatusNoDestination
	StatusNotFound
	StatusPathDoneNew
	StatusPathDoneIncremental
)

func (s RouteStatus) String() string {
	switch s {
	case StatusCalculating:
		return "calculating"
	case StatusNoDestination:
		return "no_destination"
	case StatusNotFound:
		return "not_found"
	case StatusPathDoneNew:
		return "path_done_new"
	case StatusPathDoneIncremental:
		return "path_done_incremental"
	}
	return "unknown"
}

// RouteUpdate is what the router hands over after each computation.
type RouteUpdate struct {
	Status   RouteStatus
	Segments []RouteSegment
	// StartReversed is set when the route begins by driving against the
	// vehicle's current heading.
	StartReversed bool
}

// Speech estimates how long an utterance takes to say.
type Speech interface {
	EstimateDuration(text string) (time.Duration, bool)
}

// Phrases renders localized text.
type Phrases interface {
	// Sprintf formats a message key in the target language.
	Sprintf(key string, args ...any) string
	// Nsprintf picks the singular or plural key by n.
	Nsprintf(n int, one, other string, args ...any) string
	// Gender returns the grammatical gender implied by a street name.
	Gender(name string) (locale.Gender, string)
	// Fold case-folds s for caseless comparison.
	Fold(s string) string
}
