package routing

import (
	"errors"
	"math"
	"slices"
	"testing"

	"kuanb/gosm-navigator/osm"
)

// tGraph is a street running north from (0,0) with a branch leaving east at
// (0,0.002). Segments: 1 south of the junction, 2 north of it, 3 east.
func tGraph() *osm.OsmGraph {
	nodes := map[int64]*osm.OsmNode{
		1: {ID: 1, Lon: 0, Lat: 0},
		2: {ID: 2, Lon: 0, Lat: 0.002},
		3: {ID: 3, Lon: 0.002, Lat: 0.002},
		4: {ID: 4, Lon: 0, Lat: 0.004},
	}
	raw := []osm.RawWay{
		{ID: 1, Nodes: []osm.OsmNodeId{1, 2, 4}, Tags: map[string]string{"highway": "residential"}},
		{ID: 2, Nodes: []osm.OsmNodeId{2, 3}, Tags: map[string]string{"highway": "residential"}},
	}
	return osm.Build(nodes, raw, nil)
}

func TestMatchRoute(t *testing.T) {
	m := NewHMMMapMatcher(tGraph())
	trace := []Coordinate{
		{Lon: 0.00001, Lat: 0.0005},
		{Lon: 0.00001, Lat: 0.0015},
		{Lon: 0.0005, Lat: 0.00201},
		{Lon: 0.0015, Lat: 0.00201},
	}
	refs, res, err := m.MatchRoute(trace)
	if err != nil {
		t.Fatalf("MatchRoute: %v", err)
	}
	if want := []osm.OsmWayId{1, 1, 3, 3}; !slices.Equal(res.MatchedWays, want) {
		t.Fatalf("matched %v, want %v", res.MatchedWays, want)
	}
	if want := []osm.WayRef{{Way: 1, Dir: 1}, {Way: 3, Dir: 1}}; !slices.Equal(refs, want) {
		t.Fatalf("route %v, want %v", refs, want)
	}
	if res.Confidence < 0 || res.Confidence > 1 {
		t.Fatalf("confidence %v out of range", res.Confidence)
	}
}

func TestMatchWithoutCandidates(t *testing.T) {
	m := NewHMMMapMatcher(tGraph())
	tests := []struct {
		name  string
		trace []Coordinate
	}{
		{"empty", nil},
		{"far away", []Coordinate{{Lon: 0.00001, Lat: 0.0005}, {Lon: 1, Lat: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := m.MatchRoute(tt.trace); !errors.Is(err, ErrNoCandidates) {
				t.Fatalf("err = %v, want ErrNoCandidates", err)
			}
			if res := m.Match(tt.trace); len(res.MatchedWays) != 0 {
				t.Fatalf("Match = %v, want empty", res.MatchedWays)
			}
		})
	}
}

func TestTransitionAgainstOneway(t *testing.T) {
	nodes := map[int64]*osm.OsmNode{
		1: {ID: 1, Lon: 0, Lat: 0},
		2: {ID: 2, Lon: 0, Lat: 0.001},
		3: {ID: 3, Lon: 0, Lat: 0.002},
		4: {ID: 4, Lon: 0, Lat: 0.003},
	}
	raw := []osm.RawWay{
		{ID: 10, Nodes: []osm.OsmNodeId{1, 2}, Tags: map[string]string{"highway": "residential"}},
		{ID: 20, Nodes: []osm.OsmNodeId{2, 3}, Tags: map[string]string{"highway": "residential", "oneway": "yes"}},
		{ID: 30, Nodes: []osm.OsmNodeId{3, 4}, Tags: map[string]string{"highway": "residential"}},
	}
	m := NewHMMMapMatcher(osm.Build(nodes, raw, nil))

	along := m.transitionProbability(1, 2, 50)
	against := m.transitionProbability(3, 2, 50)
	if math.Abs(against-along*0.01) > 1e-12 {
		t.Fatalf("against one-way = %v, want %v", against, along*0.01)
	}
	if stay := m.transitionProbability(2, 2, 50); stay != 1 {
		t.Fatalf("staying = %v, want 1", stay)
	}
	if detached := m.transitionProbability(1, 3, 50); detached >= along {
		t.Fatalf("unconnected %v must score below connected %v", detached, along)
	}

	m.Profile = nil
	if got := m.transitionProbability(3, 2, 50); got != along {
		t.Fatalf("without profile = %v, want %v", got, along)
	}
}

func TestCalculateConfidence(t *testing.T) {
	if got := calculateConfidence(nil, 0); got != 0 {
		t.Fatalf("empty = %v", got)
	}
	if got := calculateConfidence([]float64{-3}, 0); got != 0 {
		t.Fatalf("single state = %v, want 0", got)
	}
	winner := calculateConfidence([]float64{0, -10}, 0)
	race := calculateConfidence([]float64{0, -0.1}, 0)
	if winner <= race || winner > 1 || race < 0 {
		t.Fatalf("clear winner %v, close race %v", winner, race)
	}
}
