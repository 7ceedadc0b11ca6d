package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

// northThenEast runs north for about 111 m and then east for about 111 m.
var northThenEast = orb.LineString{{0, 0}, {0, 0.001}, {0.001, 0.001}}

func TestSegmentBearing(t *testing.T) {
	tests := []struct {
		name string
		a, b orb.Point
		want int
	}{
		{"north", orb.Point{0, 0}, orb.Point{0, 0.001}, 0},
		{"east", orb.Point{0, 0}, orb.Point{0.001, 0}, 90},
		{"south", orb.Point{0, 0}, orb.Point{0, -0.001}, 180},
		{"west", orb.Point{0, 0}, orb.Point{-0.001, 0}, 270},
		{"north east", orb.Point{0, -0.0003}, orb.Point{0.0003, 0}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentBearing(tt.a, tt.b); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEntryAndExitBearing(t *testing.T) {
	tests := []struct {
		name      string
		dir       int
		wantEntry int
		wantExit  int
	}{
		{"forward", 1, 0, 90},
		{"reverse", -1, 270, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := EntryBearing(northThenEast, tt.dir).Degrees()
			if !ok || entry != tt.wantEntry {
				t.Fatalf("entry = %d, %v, want %d", entry, ok, tt.wantEntry)
			}
			exit, ok := ExitBearing(northThenEast, tt.dir).Degrees()
			if !ok || exit != tt.wantExit {
				t.Fatalf("exit = %d, %v, want %d", exit, ok, tt.wantExit)
			}
		})
	}
}

func TestBearingOfDegenerateLine(t *testing.T) {
	line := orb.LineString{{1, 1}, {1, 1}}
	if EntryBearing(line, 1).Valid() {
		t.Fatal("entry bearing of a point-like line must be unknown")
	}
	if ExitBearing(line, -1).Valid() {
		t.Fatal("exit bearing of a point-like line must be unknown")
	}
}

func TestOrientedDoesNotModifyInput(t *testing.T) {
	rev := Oriented(northThenEast, -1)
	if rev[0] != (orb.Point{0.001, 0.001}) {
		t.Fatalf("reversed start = %v", rev[0])
	}
	if northThenEast[0] != (orb.Point{0, 0}) {
		t.Fatal("input line was reversed in place")
	}
}

func TestTail(t *testing.T) {
	if got := Tail(northThenEast, 50); len(got) != 2 || got[0] != northThenEast[1] {
		t.Fatalf("Tail(50) = %v", got)
	}
	if got := Tail(northThenEast, 1000); len(got) != 3 {
		t.Fatalf("Tail(1000) = %v, want whole line", got)
	}
}

func TestBearingAt(t *testing.T) {
	tests := []struct {
		name string
		line orb.LineString
		dist float64
		want int
		ok   bool
	}{
		{"start", northThenEast, 0, 0, true},
		{"first segment", northThenEast, 50, 0, true},
		{"second segment", northThenEast, 150, 90, true},
		{"past the end", northThenEast, 1000, 90, true},
		{"repeated start point", orb.LineString{{0, 0}, {0, 0}, {0.001, 0}}, 0, 90, true},
		{"repeated end point", orb.LineString{{0, 0}, {0, 0.001}, {0, 0.001}}, 1000, 0, true},
		{"point-like", orb.LineString{{1, 1}, {1, 1}}, 0, 0, false},
		{"negative distance", northThenEast, -1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BearingAt(tt.line, tt.dist).Degrees()
			if got != tt.want || ok != tt.ok {
				t.Fatalf("got %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMaxBearingDeviation(t *testing.T) {
	tests := []struct {
		name string
		dist float64
		want int
		ok   bool
	}{
		{"first segment only", 50, 0, true},
		{"both segments", 500, 90, true},
		{"no distance", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MaxBearingDeviation(northThenEast, 0, tt.dist, 1)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("got %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMaxBearingDeviationTieBreak(t *testing.T) {
	// Bearing 30 and then bearing 330: deviations of +30 and -30 from north.
	zigzag := orb.LineString{{0, 0}, {0.0005, 0.000866025}, {0, 0.00173205}}
	tests := []struct {
		name     string
		tieBreak int
		want     int
	}{
		{"forward keeps the first", 1, 30},
		{"zero scans forward", 0, 30},
		{"backward keeps the last", -1, -30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MaxBearingDeviation(zigzag, 0, 1000, tt.tieBreak)
			if !ok || got != tt.want {
				t.Fatalf("got %d, %v, want %d", got, ok, tt.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	p, idx := Project(orb.Point{0.0005, 0.0012}, northThenEast)
	if idx != 1 {
		t.Fatalf("segment = %d, want 1", idx)
	}
	if math.Abs(p.Lon()-0.0005) > 1e-12 || p.Lat() != 0.001 {
		t.Fatalf("projection = %v, want [0.0005 0.001]", p)
	}

	if _, idx := Project(orb.Point{0, 0}, orb.LineString{{0, 0}}); idx != -1 {
		t.Fatalf("single point line: segment = %d, want -1", idx)
	}
}

func TestMinDistanceToLine(t *testing.T) {
	if d := MinDistanceToLine(orb.Point{0, 0}, nil); d != -1 {
		t.Fatalf("empty line distance = %v, want -1", d)
	}
	// 0.0001 degrees of longitude at the equator is about 11.1 m.
	d := MinDistanceToLine(orb.Point{0.0001, 0.0005}, northThenEast)
	if d < 11 || d > 11.2 {
		t.Fatalf("distance = %v, want about 11.1", d)
	}
}
