package osm

import (
	"strconv"
	"strings"

	"kuanb/gosm-navigator/navigation"
)

// highwayTypes maps the routable highway values to their guidance class.
var highwayTypes = map[string]navigation.RoadType{
	"motorway":       navigation.RoadHighwayLand,
	"motorway_link":  navigation.RoadRamp,
	"trunk":          navigation.RoadStreetNLanes,
	"trunk_link":     navigation.RoadRamp,
	"primary":        navigation.RoadStreet4Land,
	"primary_link":   navigation.RoadStreet4Land,
	"secondary":      navigation.RoadStreet3Land,
	"secondary_link": navigation.RoadStreet3Land,
	"tertiary":       navigation.RoadStreet2Land,
	"tertiary_link":  navigation.RoadStreet2Land,
	"unclassified":   navigation.RoadStreet1Land,
	"residential":    navigation.RoadStreet1City,
	"living_street":  navigation.RoadStreet0,
	"service":        navigation.RoadStreetService,
}

// defaultSpeeds in km/h, used when maxspeed is missing or unparsable.
var defaultSpeeds = map[string]float64{
	"motorway":       120,
	"motorway_link":  60,
	"trunk":          100,
	"trunk_link":     60,
	"primary":        80,
	"primary_link":   50,
	"secondary":      70,
	"secondary_link": 50,
	"tertiary":       50,
	"tertiary_link":  40,
	"unclassified":   50,
	"residential":    30,
	"living_street":  10,
	"service":        20,
}

const kmPerMile = 1.609344

// RoadTypeOf returns the guidance class of a highway value and whether the
// highway is routable at all.
func RoadTypeOf(highway string) (navigation.RoadType, bool) {
	t, ok := highwayTypes[highway]
	return t, ok
}

func isMotorway(highway string) bool {
	return highway == "motorway" || highway == "motorway_link"
}

func denied(v string) bool {
	return v == "no" || v == "private"
}

// wayFlags derives one-way, roundabout and access flags from a way's tags.
func wayFlags(tags map[string]string) navigation.WayFlags {
	var f navigation.WayFlags
	highway := tags["highway"]
	junction := tags["junction"]
	roundabout := junction == "roundabout" || junction == "circular"

	switch tags["oneway"] {
	case "yes", "1", "true":
		f |= navigation.FlagOneway
	case "-1", "reverse":
		f |= navigation.FlagOnewayReverse
	case "no":
	default:
		if isMotorway(highway) || roundabout {
			f |= navigation.FlagOneway
		}
	}
	if roundabout {
		f |= navigation.FlagRoundabout
	}

	car := !denied(tags["access"])
	for _, k := range []string{"vehicle", "motor_vehicle", "motorcar"} {
		if v, ok := tags[k]; ok {
			car = !denied(v)
		}
	}
	if car {
		f |= navigation.FlagCar
		if !denied(tags["hgv"]) {
			f |= navigation.FlagHGV
		}
	}
	if !isMotorway(highway) && highway != "trunk" && highway != "trunk_link" {
		if !denied(tags["bicycle"]) {
			f |= navigation.FlagBicycle
		}
		if !denied(tags["foot"]) {
			f |= navigation.FlagPedestrian
		}
	}
	return f
}

// maxSpeed parses a maxspeed tag into km/h, falling back to the highway
// default.
func maxSpeed(tags map[string]string) float64 {
	fallback := defaultSpeeds[tags["highway"]]
	raw := strings.TrimSpace(tags["maxspeed"])
	if raw == "" {
		return fallback
	}
	num, unit, _ := strings.Cut(raw, " ")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	if unit == "mph" {
		v *= kmPerMile
	}
	return v
}
