package navigation

import "testing"

func TestShortInstructions(t *testing.T) {
	tests := []struct {
		name  string
		graph func() *fakeGraph
		ways  []WayID
		want  string
	}{
		{
			name:  "turn into named street",
			graph: tJunction,
			ways:  []WayID{1, 3},
			want:  "Turn right in 225 meters into the Oak Street",
		},
		{
			name: "exit label folded into destination",
			graph: func() *fakeGraph {
				return motorwayExit("Köln;Bonn", Exit{Ref: "12", Label: "KÖLN"})
			},
			ways: []WayID{1, 3},
			want: "in 100 meters left exit 12 towards Köln",
		},
		{
			name: "exit_to stands in for missing signage",
			graph: func() *fakeGraph {
				return motorwayExit("", Exit{Ref: "12", Label: "Bonn Nord", To: "Bonn;Köln"})
			},
			ways: []WayID{1, 3},
			want: "in 100 meters left exit 12 Bonn Nord towards Bonn",
		},
		{
			name:  "roundabout ahead",
			graph: func() *fakeGraph { return roundabout(false) },
			ways:  []WayID{10, 11, 20},
			want:  "Enter the roundabout in 350 meters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.graph()
			nav, _ := newTestNavigation(t, g)
			nav.UpdateRoute(RouteUpdate{Status: StatusPathDoneNew, Segments: routeOf(g, 1, tt.ways...)})
			if got := nav.Announcement(ModeShort); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoundaboutDistanceByMode(t *testing.T) {
	g := roundabout(false)
	nav, _ := newTestNavigation(t, g)
	nav.UpdateRoute(RouteUpdate{Status: StatusPathDoneNew, Segments: routeOf(g, 1, 10, 11, 20)})

	tests := []struct {
		mode Mode
		want string
	}{
		{ModeShort, "Enter the roundabout in 350 meters"},
		{ModeLong, "Enter the roundabout in 350 m"},
		{ModeLongExact, "Enter the roundabout in 347 meters"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := nav.Announcement(tt.mode); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGermanInstruction(t *testing.T) {
	g := newFakeGraph(
		street(1, RoadStreet1City, FlagCar, "Hauptstraße", ptA, ptB),
		street(2, RoadStreet1City, FlagCar, "Hauptstraße", ptB, ptD),
		street(3, RoadStreet1City, FlagCar, "Bahnhofstr.", ptB, ptC),
	)
	nav := New(g, german(t))
	nav.UpdateRoute(RouteUpdate{Status: StatusPathDoneNew, Segments: routeOf(g, 1, 1, 3)})

	if got, want := nav.Announcement(ModeShort), "in 225 Metern rechts abbiegen in die Bahnhofstraße"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStreetNamesCanBeSuppressed(t *testing.T) {
	g := tJunction()
	cfg := DefaultConfig()
	cfg.TellStreetName = false
	nav, _ := newTestNavigation(t, g, WithConfig(cfg))
	nav.UpdateRoute(RouteUpdate{Status: StatusPathDoneNew, Segments: routeOf(g, 1, 1, 3)})

	if got, want := nav.Announcement(ModeShort), "Turn right in 225 meters"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDestinationFollowedAcrossCommands(t *testing.T) {
	nav := New(newFakeGraph(), english(t))
	first := &Command{item: &RouteItem{Way: CandidateWay{Destinations: SplitDestinations("Köln; Bonn; Aachen")}}}
	second := &Command{item: &RouteItem{Way: CandidateWay{Destinations: SplitDestinations("Aachen;Bonn")}}}
	third := &Command{item: &RouteItem{Way: CandidateWay{Destinations: SplitDestinations("Bonn")}}}
	nav.cmds = []*Command{first, second, third}

	got, ok := nav.selectDestination(first)
	if !ok || got != "Bonn" {
		t.Fatalf("got %q, %v, want Bonn", got, ok)
	}
	if second.item.Way.Destinations[1].Rank != highRank || second.item.Way.Destinations[0].Rank != 0 {
		t.Fatalf("next signed command ranks = %+v", second.item.Way.Destinations)
	}
	if got, _ := bestRanked(second.item.Way.Destinations); got != "Bonn" {
		t.Fatalf("second command shows %q, want Bonn", got)
	}
}

func TestTidy(t *testing.T) {
	if got := tidy("  Turn  right   into the  Oak Street "); got != "Turn right into the Oak Street" {
		t.Fatalf("got %q", got)
	}
}

func TestCountWords(t *testing.T) {
	p := english(t)
	if got := exitCountWord(p, 2); got != "second exit" {
		t.Fatalf("got %q", got)
	}
	if got := exitCountWord(p, 8); got != "exit 8" {
		t.Fatalf("got %q", got)
	}
	if got := countWord(p, 7); got != "7." {
		t.Fatalf("got %q", got)
	}
	if got := countWord(german(t), 3); got != "dritte" {
		t.Fatalf("got %q", got)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{ModeShort: "short", ModeSpeech: "speech", Mode(9): "Mode(9)"} {
		if got := m.String(); got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}
