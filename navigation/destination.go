package navigation

import (
	"strings"
	"unicode"
)

// DestinationSign is one entry of a way's destination signage. Rank is
// volatile and owned by the instruction composer.
type DestinationSign struct {
	Name string
	Rank int
}

// highRank marks the sign that stays in view across announcements.
const highRank = 99

// SplitDestinations splits raw signage on ';', falling back to ',' when that
// yields at most one entry. Leading whitespace is trimmed from each entry and
// the input order is kept.
func SplitDestinations(raw string) []DestinationSign {
	if raw == "" {
		return nil
	}
	signs := splitOn(raw, ";")
	if len(signs) <= 1 {
		signs = splitOn(raw, ",")
	}
	return signs
}

func splitOn(raw, sep string) []DestinationSign {
	parts := strings.Split(raw, sep)
	signs := make([]DestinationSign, 0, len(parts))
	for _, p := range parts {
		signs = append(signs, DestinationSign{Name: strings.TrimLeftFunc(p, unicode.IsSpace)})
	}
	return signs
}

// streetDestination picks the signage that applies when driving s in direction dir.
func streetDestination(s Street, dir int) string {
	if s.Flags&FlagOnewayMask != 0 {
		return s.Destination
	}
	if dir > 0 {
		return s.DestinationForward
	}
	return s.DestinationBackward
}

// bestRanked returns the first sign with a positive rank, or the first sign.
func bestRanked(signs []DestinationSign) (string, bool) {
	if len(signs) == 0 {
		return "", false
	}
	for _, s := range signs {
		if s.Rank > 0 {
			return s.Name, true
		}
	}
	return signs[0].Name, true
}
