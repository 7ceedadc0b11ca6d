package navigation

import "time"

// AnnounceLevels holds the near, mid and far announcement distances in meters
// for one road type. Negative entries never match.
type AnnounceLevels [3]int

// Vocabulary describes what a speech backend can pronounce.
type Vocabulary struct {
	// Name and NameSystematic allow street names and route numbers in speech.
	Name           bool
	NameSystematic bool
	// Distances allows arbitrary numbers; when false spoken distances snap
	// to distanceVocabulary.
	Distances bool
}

// FullVocabulary allows everything.
var FullVocabulary = Vocabulary{Name: true, NameSystematic: true, Distances: true}

// Config holds the tuning constants of the engine. Use DefaultConfig and
// override fields as needed.
type Config struct {
	// Turn bands in degrees.
	StraightLimit   int
	MinTurnLimit    int
	Turn2Limit      int
	SharpTurnLimit  int
	UTurnLimit      int
	SharpOverride   int
	KeepSideWindow  int
	TJunctionLimit  float64
	RoundaboutExtra float64

	// Announce is the per road type distance table.
	Announce map[RoadType]AnnounceLevels

	// SpeechLookahead is how long a newly reached level must stay valid at the
	// current speed before it is spoken.
	SpeechLookahead time.Duration
	// Delay, when positive, defers speech after a command change by this many
	// updates.
	Delay int

	// TurnAroundLimit is the number of reversed updates before a turn
	// around is requested. The request repeats once the vehicle is
	// TurnAroundStart meters past it, then TurnAroundStepCap, then at double
	// the previous distance.
	TurnAroundLimit   int
	TurnAroundStart   int
	TurnAroundStepCap int

	TellStreetName bool
	Imperial       bool
	Vocabulary     Vocabulary
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		StraightLimit:   2,
		MinTurnLimit:    25,
		Turn2Limit:      45,
		SharpTurnLimit:  105,
		UTurnLimit:      165,
		SharpOverride:   75,
		KeepSideWindow:  50,
		TJunctionLimit:  100,
		RoundaboutExtra: 50,

		Announce: map[RoadType]AnnounceLevels{
			RoadStreet0:       {25, 100, 200},
			RoadStreet1City:   {25, 100, 200},
			RoadStreetService: {25, 100, 200},
			RoadRoundabout:    {25, 100, 200},
			RoadStreet2City:   {50, 200, 500},
			RoadStreet3City:   {50, 200, 500},
			RoadStreet4City:   {50, 200, 500},
			RoadRamp:          {50, 200, 500},
			RoadHighwayCity:   {100, 400, 1000},
			RoadStreet1Land:   {100, 400, 1000},
			RoadStreet2Land:   {100, 400, 1000},
			RoadStreet3Land:   {100, 400, 1000},
			RoadStreet4Land:   {100, 400, 1000},
			RoadStreetNLanes:  {300, 1000, 2000},
			RoadHighwayLand:   {300, 1000, 2000},
		},

		SpeechLookahead: 3 * time.Second,

		TurnAroundLimit:   3,
		TurnAroundStart:   50,
		TurnAroundStepCap: 500,

		TellStreetName: true,
		Vocabulary:     FullVocabulary,
	}
}

func (c *Config) announceLevels(t RoadType) (AnnounceLevels, bool) {
	l, ok := c.Announce[t]
	return l, ok
}
