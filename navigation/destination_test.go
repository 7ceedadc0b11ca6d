package navigation

import (
	"slices"
	"testing"
)

func names(signs []DestinationSign) []string {
	out := make([]string, 0, len(signs))
	for _, s := range signs {
		out = append(out, s.Name)
	}
	return out
}

func TestSplitDestinations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "Köln", []string{"Köln"}},
		{"semicolons keep order", "Köln; Bonn;Aachen", []string{"Köln", "Bonn", "Aachen"}},
		{"comma fallback", "Berlin, Potsdam", []string{"Berlin", "Potsdam"}},
		{"semicolons win over commas", "Berlin, Mitte;Potsdam", []string{"Berlin, Mitte", "Potsdam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := names(SplitDestinations(tt.raw)); !slices.Equal(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStreetDestination(t *testing.T) {
	s := Street{Destination: "Oneway", DestinationForward: "Forward", DestinationBackward: "Backward"}
	tests := []struct {
		name  string
		flags WayFlags
		dir   int
		want  string
	}{
		{"one-way", FlagOneway, 1, "Oneway"},
		{"forward", 0, 1, "Forward"},
		{"backward", 0, -1, "Backward"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Flags = tt.flags
			if got := streetDestination(s, tt.dir); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBestRanked(t *testing.T) {
	if _, ok := bestRanked(nil); ok {
		t.Fatal("no signs must yield nothing")
	}
	signs := SplitDestinations("A;B;C")
	if got, _ := bestRanked(signs); got != "A" {
		t.Fatalf("got %q, want first sign", got)
	}
	signs[2].Rank = highRank
	if got, _ := bestRanked(signs); got != "C" {
		t.Fatalf("got %q, want ranked sign", got)
	}
}
