package locale

import "strings"

// Gender is the grammatical gender a street name implies.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	GenderNeutral
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderNeutral:
		return "neutral"
	}
	return "unknown"
}

type suffix struct {
	full   string
	abbrev string
	gender Gender
}

// suffixes is checked in order; the first full form or abbreviation that
// ends the name wins.
var suffixes = []suffix{
	{"weg", "", GenderMale},
	{"platz", "pl.", GenderMale},
	{"ring", "", GenderMale},
	{"bogen", "", GenderMale},
	{"allee", "", GenderFemale},
	{"gasse", "", GenderFemale},
	{"straße", "str.", GenderFemale},
	{"straat", "", GenderNeutral},
	{"baan", "", GenderNeutral},
	{"laan", "", GenderNeutral},
	{"wegel", "", GenderNeutral},
	{"street", "", GenderMale},
	{"drive", "", GenderMale},
}

// hasSuffix reports a caseless match of suf at the end of name and returns
// the byte offset where it starts.
func hasSuffix(name, suf string) (int, bool) {
	if suf == "" || len(name) < len(suf) {
		return 0, false
	}
	at := len(name) - len(suf)
	return at, strings.EqualFold(name[at:], suf)
}

// StreetGender looks up the gender implied by name's suffix. An abbreviated
// suffix is expanded in the returned name.
func StreetGender(name string) (Gender, string) {
	for _, s := range suffixes {
		if _, ok := hasSuffix(name, s.full); ok {
			return s.gender, name
		}
		if at, ok := hasSuffix(name, s.abbrev); ok {
			return s.gender, name[:at] + s.full
		}
	}
	return GenderUnknown, name
}
