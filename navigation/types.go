package navigation

import "fmt"

// RoadType is the class of a road as far as guidance is concerned.
type RoadType int

const (
	RoadUnknown RoadType = iota
	RoadStreet0
	RoadStreet1City
	RoadStreet2City
	RoadStreet3City
	RoadStreet4City
	RoadHighwayCity
	RoadStreet1Land
	RoadStreet2Land
	RoadStreet3Land
	RoadStreet4Land
	RoadStreetNLanes
	RoadHighwayLand
	RoadRamp
	RoadRoundabout
	RoadFerry
	RoadStreetService

	numRoadTypes
)

var roadTypeNames = [...]string{
	RoadUnknown:       "unknown",
	RoadStreet0:       "street_0",
	RoadStreet1City:   "street_1_city",
	RoadStreet2City:   "street_2_city",
	RoadStreet3City:   "street_3_city",
	RoadStreet4City:   "street_4_city",
	RoadHighwayCity:   "highway_city",
	RoadStreet1Land:   "street_1_land",
	RoadStreet2Land:   "street_2_land",
	RoadStreet3Land:   "street_3_land",
	RoadStreet4Land:   "street_4_land",
	RoadStreetNLanes:  "street_n_lanes",
	RoadHighwayLand:   "highway_land",
	RoadRamp:          "ramp",
	RoadRoundabout:    "roundabout",
	RoadFerry:         "ferry",
	RoadStreetService: "street_service",
}

func (t RoadType) String() string {
	if t < 0 || t >= numRoadTypes {
		return fmt.Sprintf("RoadType(%d)", int(t))
	}
	return roadTypeNames[t]
}

// Category is the coarse rank (0-7) used to compare roads at a junction.
// Ramps, roundabouts, ferries and anything unclassified rank 0.
func (t RoadType) Category() int {
	switch t {
	case RoadStreet0:
		return 1
	case RoadStreet1City, RoadStreet1Land:
		return 2
	case RoadStreet2City, RoadStreet2Land:
		return 3
	case RoadStreet3City, RoadStreet3Land:
		return 4
	case RoadStreet4City, RoadStreet4Land:
		return 5
	case RoadStreetNLanes:
		return 6
	case RoadHighwayCity, RoadHighwayLand:
		return 7
	}
	return 0
}

// WayFlags carries one-way, roundabout and access information of a way.
type WayFlags uint32

const (
	FlagOneway WayFlags = 1 << iota
	FlagOnewayReverse
	FlagRoundabout
	FlagCar
	FlagBicycle
	FlagPedestrian
	FlagHGV

	FlagOnewayMask = FlagOneway | FlagOnewayReverse
)

// Has reports whether all bits of f2 are set.
func (f WayFlags) Has(f2 WayFlags) bool {
	return f&f2 == f2
}

// VehicleProfile decides which ways a vehicle may drive in which direction.
// A way is allowed when its flags masked with the direction mask equal Flags.
type VehicleProfile struct {
	Name        string
	Flags       WayFlags
	ForwardMask WayFlags
	ReverseMask WayFlags
}

// CarProfile allows car-accessible ways, honouring one-way restrictions.
func CarProfile() *VehicleProfile {
	return &VehicleProfile{
		Name:        "car",
		Flags:       FlagCar,
		ForwardMask: FlagCar | FlagOnewayReverse,
		ReverseMask: FlagCar | FlagOneway,
	}
}

// Kind is the maneuver kind; its String form doubles as an icon name.
type Kind int

const (
	KindNone Kind = iota
	KindPosition
	KindDestination
	KindStraight
	KindKeepLeft
	KindKeepRight
	KindLeft1
	KindLeft2
	KindLeft3
	KindRight1
	KindRight2
	KindRight3
	KindTurnaroundLeft
	KindTurnaroundRight
	KindMergeLeft
	KindMergeRight
	KindExitLeft
	KindExitRight
	KindRoundaboutR1
	KindRoundaboutR2
	KindRoundaboutR3
	KindRoundaboutR4
	KindRoundaboutR5
	KindRoundaboutR6
	KindRoundaboutR7
	KindRoundaboutR8
	KindRoundaboutL1
	KindRoundaboutL2
	KindRoundaboutL3
	KindRoundaboutL4
	KindRoundaboutL5
	KindRoundaboutL6
	KindRoundaboutL7
	KindRoundaboutL8
)

var kindNames = map[Kind]string{
	KindNone:            "nav_none",
	KindPosition:        "nav_position",
	KindDestination:     "nav_destination",
	KindStraight:        "nav_straight",
	KindKeepLeft:        "nav_keep_left",
	KindKeepRight:       "nav_keep_right",
	KindLeft1:           "nav_left_1",
	KindLeft2:           "nav_left_2",
	KindLeft3:           "nav_left_3",
	KindRight1:          "nav_right_1",
	KindRight2:          "nav_right_2",
	KindRight3:          "nav_right_3",
	KindTurnaroundLeft:  "nav_turnaround_left",
	KindTurnaroundRight: "nav_turnaround_right",
	KindMergeLeft:       "nav_merge_left",
	KindMergeRight:      "nav_merge_right",
	KindExitLeft:        "nav_exit_left",
	KindExitRight:       "nav_exit_right",
}

func (k Kind) String() string {
	if k >= KindRoundaboutR1 && k <= KindRoundaboutR8 {
		return fmt.Sprintf("nav_roundabout_r%d", k-KindRoundaboutR1+1)
	}
	if k >= KindRoundaboutL1 && k <= KindRoundaboutL8 {
		return fmt.Sprintf("nav_roundabout_l%d", k-KindRoundaboutL1+1)
	}
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsRoundabout reports whether k is one of the roundabout exit buckets.
func (k Kind) IsRoundabout() bool {
	return k >= KindRoundaboutR1 && k <= KindRoundaboutL8
}

// IsTurn reports whether k is a left/right turn of any strength.
func (k Kind) IsTurn() bool {
	return k >= KindLeft1 && k <= KindRight3
}

// MergeOrExit classifies motorway-like transitions. The low bits say what
// happens, mexRight/mexLeft say on which side.
type MergeOrExit int

const (
	MexNone        MergeOrExit = 0
	MexMerge       MergeOrExit = 1
	MexExit        MergeOrExit = 2
	MexInterchange MergeOrExit = 4

	mexRight = 8
	mexLeft  = 16

	MexMergeRight = MexMerge | mexRight
	MexExitRight  = MexExit | mexRight
	MexMergeLeft  = MexMerge | mexLeft
	MexExitLeft   = MexExit | mexLeft
)

// IsMerge reports a merge onto a motorway-like road.
func (m MergeOrExit) IsMerge() bool { return m&MexMerge != 0 }

// IsExit reports an exit off a motorway-like road.
func (m MergeOrExit) IsExit() bool { return m&MexExit != 0 }

// Left reports the left-hand variant.
func (m MergeOrExit) Left() bool { return m&mexLeft != 0 }

// Right reports the right-hand variant.
func (m MergeOrExit) Right() bool { return m&mexRight != 0 }

func (m MergeOrExit) String() string {
	switch m {
	case MexNone:
		return "mex_none"
	case MexMerge:
		return "mex_merge"
	case MexExit:
		return "mex_exit"
	case MexInterchange:
		return "mex_interchange"
	case MexMergeRight:
		return "mex_merge_right"
	case MexExitRight:
		return "mex_exit_right"
	case MexMergeLeft:
		return "mex_merge_left"
	case MexExitLeft:
		return "mex_exit_left"
	}
	return fmt.Sprintf("MergeOrExit(%d)", int(m))
}
