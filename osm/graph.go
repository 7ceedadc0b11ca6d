package osm

import (
	"errors"
	"io"
	"log/slog"
	"slices"

	"github.com/paulmach/orb"

	"kuanb/gosm-navigator/geom"
	"kuanb/gosm-navigator/navigation"
)

var (
	// ErrUnknownWay is returned for a segment id the graph does not hold.
	ErrUnknownWay = errors.New("osm: unknown way")
	// ErrDisconnected is returned when consecutive segments share no node.
	ErrDisconnected = errors.New("osm: segments not connected")
)

type OsmWayId int64

type OsmNodeId int64

type OsmNode struct {
	ID  OsmNodeId
	Lat float64
	Lon float64

	// Exit signage of a motorway_junction node.
	ExitRef   string
	ExitLabel string
	ExitTo    string
}

func (n *OsmNode) Point() orb.Point {
	return orb.Point{n.Lon, n.Lat}
}

func (n *OsmNode) isExit() bool {
	return n.ExitRef != "" || n.ExitLabel != "" || n.ExitTo != ""
}

// RawWay is a way as decoded, before splitting at junctions.
type RawWay struct {
	ID    int64
	Nodes []OsmNodeId
	Tags  map[string]string
}

// OsmWay is a graph segment: the part of a source way between two junction
// nodes (or a junction and a dead end).
type OsmWay struct {
	ID     OsmWayId
	Source OsmWayId
	// Nodes holds the start and end node.
	Nodes   []OsmNodeId
	Highway string
	Type    navigation.RoadType
	Flags   navigation.WayFlags

	Name                string
	Ref                 string
	Destination         string
	DestinationForward  string
	DestinationBackward string

	Geometry     orb.LineString
	LengthMeters float64 // Total length of the way in meters
	SpeedKmh     float64
}

func (w *OsmWay) MinDistanceToPoint(p orb.Point) float64 {
	return geom.MinDistanceToLine(p, w.Geometry)
}

func (w *OsmWay) start() OsmNodeId { return w.Nodes[0] }

func (w *OsmWay) end() OsmNodeId { return w.Nodes[len(w.Nodes)-1] }

type OsmGraph struct {
	Nodes map[int64]*OsmNode
	Ways  map[int64]*OsmWay
	RTree *geom.RTree

	nodeWays   map[OsmNodeId][]OsmWayId
	pointNodes map[orb.Point]OsmNodeId
	exits      map[OsmNodeId]*OsmNode
}

// Build splits the routable ways at shared nodes and indexes the resulting
// segments. Nodes referenced by no routable way are dropped.
func Build(nodes map[int64]*OsmNode, raw []RawWay, logger *slog.Logger) *OsmGraph {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ways := make([]RawWay, 0, len(raw))
	for _, w := range raw {
		if _, ok := RoadTypeOf(w.Tags["highway"]); ok && len(w.Nodes) >= 2 {
			ways = append(ways, w)
		}
	}
	// Segment ids follow source way order so that loads are reproducible.
	slices.SortFunc(ways, func(a, b RawWay) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	logger.Info("filtered ways", "dropped", len(raw)-len(ways), "kept", len(ways))

	// 1. Split points: nodes shared by ways (or repeated within one) and way
	// ends.
	nodeWayCount := make(map[OsmNodeId]int)
	split := make(map[OsmNodeId]struct{})
	for _, w := range ways {
		for _, nid := range w.Nodes {
			nodeWayCount[nid]++
		}
		split[w.Nodes[0]] = struct{}{}
		split[w.Nodes[len(w.Nodes)-1]] = struct{}{}
	}
	for nid, count := range nodeWayCount {
		if count > 1 {
			split[nid] = struct{}{}
		}
	}

	g := &OsmGraph{
		Nodes:      make(map[int64]*OsmNode, len(split)),
		Ways:       make(map[int64]*OsmWay),
		RTree:      geom.NewRTree(),
		nodeWays:   make(map[OsmNodeId][]OsmWayId),
		pointNodes: make(map[orb.Point]OsmNodeId),
		exits:      make(map[OsmNodeId]*OsmNode),
	}
	for nid := range split {
		if n, ok := nodes[int64(nid)]; ok {
			g.Nodes[int64(nid)] = n
			g.pointNodes[n.Point()] = nid
			if n.isExit() {
				g.exits[nid] = n
			}
		}
	}

	// 2. Break each way into segments between split points.
	var newWayID int64 = 1
	for _, w := range ways {
		roadType, _ := RoadTypeOf(w.Tags["highway"])
		flags := wayFlags(w.Tags)
		speed := maxSpeed(w.Tags)
		segStart := 0
		for i := 1; i < len(w.Nodes); i++ {
			if _, ok := split[w.Nodes[i]]; !ok {
				continue
			}
			from := w.Nodes[segStart]
			line := buildLineString(w.Nodes[segStart:i+1], nodes)
			segStart = i
			if len(line) < 2 {
				continue
			}
			seg := &OsmWay{
				ID:                  OsmWayId(newWayID),
				Source:              OsmWayId(w.ID),
				Nodes:               []OsmNodeId{from, w.Nodes[i]},
				Highway:             w.Tags["highway"],
				Type:                roadType,
				Flags:               flags,
				Name:                w.Tags["name"],
				Ref:                 w.Tags["ref"],
				Destination:         w.Tags["destination"],
				DestinationForward:  w.Tags["destination:forward"],
				DestinationBackward: w.Tags["destination:backward"],
				Geometry:            line,
				LengthMeters:        geom.LineLength(line),
				SpeedKmh:            speed,
			}
			g.addWay(seg)
			newWayID++
		}
	}
	logger.Info("built graph", "nodes", len(g.Nodes), "segments", len(g.Ways), "rtree", g.RTree.Size(), "exits", len(g.exits))
	return g
}

func (g *OsmGraph) addWay(w *OsmWay) {
	g.Ways[int64(w.ID)] = w
	g.RTree.Insert(int64(w.ID), w.Geometry.Bound())
	g.nodeWays[w.start()] = append(g.nodeWays[w.start()], w.ID)
	if w.end() != w.start() {
		g.nodeWays[w.end()] = append(g.nodeWays[w.end()], w.ID)
	}
}

// buildLineString creates a LineString geometry from a slice of node IDs
func buildLineString(nodeIDs []OsmNodeId, nodes map[int64]*OsmNode) orb.LineString {
	line := make(orb.LineString, 0, len(nodeIDs))
	for _, nid := range nodeIDs {
		if node, ok := nodes[int64(nid)]; ok {
			line = append(line, node.Point())
		}
	}
	return line
}
