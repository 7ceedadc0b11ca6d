package navigation

import (
	"slices"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/text/language"

	"kuanb/gosm-navigator/geom"
	"kuanb/gosm-navigator/locale"
)

// fakeGraph resolves junctions by exact endpoint equality.
type fakeGraph struct {
	streets map[WayID]Street
	exits   map[orb.Point]Exit
}

func newFakeGraph(streets ...Street) *fakeGraph {
	g := &fakeGraph{streets: make(map[WayID]Street), exits: make(map[orb.Point]Exit)}
	for _, s := range streets {
		g.streets[s.ID] = s
	}
	return g
}

func (g *fakeGraph) Street(id WayID) (Street, bool) {
	s, ok := g.streets[id]
	return s, ok
}

func (g *fakeGraph) Junction(p orb.Point) []JunctionSegment {
	ids := make([]WayID, 0, len(g.streets))
	for id := range g.streets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	var segs []JunctionSegment
	for _, id := range ids {
		line := g.streets[id].Geometry
		if line[0] == p {
			segs = append(segs, JunctionSegment{Way: id, Dir: 1})
		}
		if line[len(line)-1] == p {
			segs = append(segs, JunctionSegment{Way: id, Dir: -1})
		}
	}
	return segs
}

func (g *fakeGraph) ExitAt(p orb.Point) (Exit, bool) {
	e, ok := g.exits[p]
	return e, ok
}

const testSpeed = 50.0 // km/h

// routeOf drives the given ways of g in order, each in direction dir.
func routeOf(g *fakeGraph, dir int, ids ...WayID) []RouteSegment {
	segs := make([]RouteSegment, 0, len(ids))
	for _, id := range ids {
		segs = append(segs, segmentOf(g.streets[id].Geometry, id, dir))
	}
	return segs
}

func segmentOf(line orb.LineString, id WayID, dir int) RouteSegment {
	pts := geom.Oriented(line, dir)
	length := geom.LineLength(pts)
	return RouteSegment{
		Way:    id,
		Dir:    dir,
		Points: pts,
		Metrics: &Metrics{
			Length: length,
			Speed:  testSpeed,
			Time:   time.Duration(length / (testSpeed / 3.6) * float64(time.Second)),
		},
	}
}

// partial is seg cut down to its last meters, as when the vehicle is on it.
func partial(seg RouteSegment, meters float64) RouteSegment {
	last := seg.Points[len(seg.Points)-1]
	prev := seg.Points[len(seg.Points)-2]
	f := meters / geom.LineLength(orb.LineString{prev, last})
	start := orb.Point{last.Lon() - (last.Lon()-prev.Lon())*f, last.Lat() - (last.Lat()-prev.Lat())*f}
	seg.Points = orb.LineString{start, last}
	seg.Metrics = &Metrics{
		Length: meters,
		Speed:  testSpeed,
		Time:   time.Duration(meters / (testSpeed / 3.6) * float64(time.Second)),
	}
	return seg
}

func english(t *testing.T) *locale.Phrasebook {
	t.Helper()
	p, err := locale.New(language.English)
	if err != nil {
		t.Fatalf("phrasebook: %v", err)
	}
	return p
}

func german(t *testing.T) *locale.Phrasebook {
	t.Helper()
	p, err := locale.New(language.German)
	if err != nil {
		t.Fatalf("phrasebook: %v", err)
	}
	return p
}

// speechRecorder collects everything a Navigation speaks.
type speechRecorder struct {
	said []string
}

func (r *speechRecorder) say(text string) { r.said = append(r.said, text) }

func (r *speechRecorder) last() string {
	if len(r.said) == 0 {
		return ""
	}
	return r.said[len(r.said)-1]
}

func street(id WayID, t RoadType, flags WayFlags, name string, pts ...orb.Point) Street {
	return Street{ID: id, Type: t, Flags: flags, Name: name, Geometry: orb.LineString(pts)}
}

// Points of a plain T junction: Main Street runs north through B, Oak Street
// leaves B to the east. Each leg is about 222 m.
var (
	ptA = orb.Point{0, 0}
	ptB = orb.Point{0, 0.002}
	ptC = orb.Point{0.002, 0.002}
	ptD = orb.Point{0, 0.004}
)

func tJunction() *fakeGraph {
	return newFakeGraph(
		street(1, RoadStreet1City, FlagCar, "Main Street", ptA, ptB),
		street(2, RoadStreet1City, FlagCar, "Main Street", ptB, ptD),
		street(3, RoadStreet1City, FlagCar, "Oak Street", ptB, ptC),
	)
}

func TestFakeGraphJunction(t *testing.T) {
	g := tJunction()
	got := g.Junction(ptB)
	want := []JunctionSegment{{Way: 1, Dir: -1}, {Way: 2, Dir: 1}, {Way: 3, Dir: 1}}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
