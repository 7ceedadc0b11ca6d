// Package routing turns GPS traces into routes over the segment graph.
package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"kuanb/gosm-navigator/navigation"
	"kuanb/gosm-navigator/osm"
)

// ErrNoCandidates is returned when an observation has no road within reach.
var ErrNoCandidates = errors.New("routing: observation without candidate roads")

// Coordinate represents a GPS observation point
type Coordinate struct {
	Lon float64
	Lat float64
}

func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lon, c.Lat}
}

// Candidate is a segment an observation may lie on.
type Candidate struct {
	WayID    osm.OsmWayId
	Distance float64 // meters from the observation
}

// MatchResult represents the output of the HMM map matching
type MatchResult struct {
	MatchedWays []osm.OsmWayId // one segment per observation
	Confidence  float64        // 0-1
}

// HMMMapMatcher snaps traces to segments with a hidden Markov model: states
// are candidate segments, emissions are scored by snapping distance and
// transitions by connectivity.
type HMMMapMatcher struct {
	Graph            *osm.OsmGraph
	SigmaZ           float64 // GPS noise in meters
	Beta             float64 // transition scale
	MaxCandidateDist float64 // meters
	// Profile, when set, penalizes transitions that drive a segment against
	// its one-way restriction.
	Profile *navigation.VehicleProfile
}

// NewHMMMapMatcher returns a matcher tuned for car traces.
func NewHMMMapMatcher(graph *osm.OsmGraph) *HMMMapMatcher {
	return &HMMMapMatcher{
		Graph:            graph,
		SigmaZ:           4.07,
		Beta:             3.0,
		MaxCandidateDist: 35.0,
		Profile:          navigation.CarProfile(),
	}
}

// Match snaps coords to one segment each. A trace with an unmatched point
// yields an empty result.
func (m *HMMMapMatcher) Match(coords []Coordinate) MatchResult {
	res, err := m.match(coords)
	if err != nil {
		return MatchResult{}
	}
	return res
}

// MatchRoute matches coords and orients the matched segments into a drivable
// route.
func (m *HMMMapMatcher) MatchRoute(coords []Coordinate) ([]osm.WayRef, MatchResult, error) {
	res, err := m.match(coords)
	if err != nil {
		return nil, res, err
	}
	refs, err := m.Graph.OrientPath(res.MatchedWays)
	if err != nil {
		return nil, res, err
	}
	return refs, res, nil
}

func (m *HMMMapMatcher) match(coords []Coordinate) (MatchResult, error) {
	if len(coords) == 0 {
		return MatchResult{}, fmt.Errorf("%w: empty trace", ErrNoCandidates)
	}
	candidates := m.findCandidates(coords)
	for i, c := range candidates {
		if len(c) == 0 {
			return MatchResult{}, fmt.Errorf("%w: point %d (%f, %f)", ErrNoCandidates, i, coords[i].Lon, coords[i].Lat)
		}
	}
	path, confidence := m.viterbi(coords, candidates)
	return MatchResult{MatchedWays: path, Confidence: confidence}, nil
}

// findCandidates collects the segments within MaxCandidateDist of every
// observation.
func (m *HMMMapMatcher) findCandidates(coords []Coordinate) [][]Candidate {
	candidates := make([][]Candidate, len(coords))
	for i, coord := range coords {
		p := coord.Point()
		for _, id := range m.Graph.RTree.SearchNearPoint(p, m.MaxCandidateDist) {
			way := m.Graph.Ways[id]
			if way == nil {
				continue
			}
			if d := way.MinDistanceToPoint(p); d >= 0 && d <= m.MaxCandidateDist {
				candidates[i] = append(candidates[i], Candidate{WayID: way.ID, Distance: d})
			}
		}
	}
	return candidates
}

// emissionProbability is a Gaussian in the snapping distance.
func (m *HMMMapMatcher) emissionProbability(distance float64) float64 {
	return math.Exp(-0.5 * math.Pow(distance/m.SigmaZ, 2))
}

// transitionProbability favours staying on a segment, then moving to a
// segment that continues from it, decaying with the distance travelled.
func (m *HMMMapMatcher) transitionProbability(fromWay, toWay osm.OsmWayId, gcDist float64) float64 {
	if fromWay == toWay {
		return 1.0
	}
	from, ok1 := m.Graph.Ways[int64(fromWay)]
	to, ok2 := m.Graph.Ways[int64(toWay)]
	if !ok1 || !ok2 {
		return 0.001
	}

	p := math.Exp(-gcDist/m.Beta) * 0.1
	if shared, ok := connection(from, to); ok {
		p = math.Exp(-gcDist / (m.Beta * 100))
		if !m.drivable(to, shared) {
			p *= 0.01
		}
	}
	return p
}

// connection returns the node where to continues from, if they touch.
func connection(from, to *osm.OsmWay) (osm.OsmNodeId, bool) {
	for _, n1 := range from.Nodes {
		for _, n2 := range to.Nodes {
			if n1 == n2 {
				return n1, true
			}
		}
	}
	return 0, false
}

// drivable reports whether the profile may drive w leaving node entry.
func (m *HMMMapMatcher) drivable(w *osm.OsmWay, entry osm.OsmNodeId) bool {
	p := m.Profile
	if p == nil || w.Flags == 0 {
		return true
	}
	mask := p.ForwardMask
	if w.Nodes[0] != entry {
		mask = p.ReverseMask
	}
	return w.Flags&mask == p.Flags
}

// viterbi returns the most likely candidate per observation and a confidence
// for it.
func (m *HMMMapMatcher) viterbi(coords []Coordinate, candidates [][]Candidate) ([]osm.OsmWayId, float64) {
	n := len(coords)
	if n == 0 {
		return nil, 0
	}

	// V[t][i] is the log probability of the best path ending in candidate i at
	// t; back[t][i] its predecessor.
	V := make([][]float64, n)
	back := make([][]int, n)
	for t := 0; t < n; t++ {
		V[t] = make([]float64, len(candidates[t]))
		back[t] = make([]int, len(candidates[t]))
	}
	for i, c := range candidates[0] {
		V[0][i] = math.Log(m.emissionProbability(c.Distance) + 1e-10)
		back[0][i] = -1
	}

	for t := 1; t < n; t++ {
		gcDist := geo.Distance(coords[t-1].Point(), coords[t].Point())
		for j, cur := range candidates[t] {
			best, bestIdx := math.Inf(-1), 0
			for i, prev := range candidates[t-1] {
				prob := V[t-1][i] + math.Log(m.transitionProbability(prev.WayID, cur.WayID, gcDist)+1e-10)
				if prob > best {
					best, bestIdx = prob, i
				}
			}
			V[t][j] = best + math.Log(m.emissionProbability(cur.Distance)+1e-10)
			back[t][j] = bestIdx
		}
	}

	last := 0
	for i, prob := range V[n-1] {
		if prob > V[n-1][last] {
			last = i
		}
	}
	path := make([]osm.OsmWayId, n)
	for t, idx := n-1, last; t >= 0; t-- {
		path[t] = candidates[t][idx].WayID
		idx = back[t][idx]
	}
	return path, calculateConfidence(V[n-1], last)
}

// calculateConfidence compares the best final state with the mean of all final
// states, mapped onto [0, 1].
func calculateConfidence(final []float64, best int) float64 {
	if len(final) == 0 {
		return 0
	}
	bestLog := final[best]
	sum := 0.0
	for _, lp := range final {
		sum += math.Exp(lp - bestLog)
	}
	avgLog := bestLog + math.Log(sum/float64(len(final)))
	return min(max(1.0-math.Exp(-(bestLog-avgLog)), 0), 1)
}
