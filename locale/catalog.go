package locale

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys are the English texts; English needs no entries.
var german = map[string]string{
	"%d meters":           "%d Meter",
	"in %d meters":        "in %d Metern",
	"%d feet":             "%d Fuß",
	"in %d feet":          "in %d Fuß",
	"%d.%d kilometers":    "%d,%d Kilometer",
	"in %d.%d kilometers": "in %d,%d Kilometern",
	"%d.%d miles":         "%d,%d Meilen",
	"in %d.%d miles":      "in %d,%d Meilen",
	"one kilometer":       "ein Kilometer",
	"%d kilometers":       "%d Kilometer",
	"in one kilometer":    "in einem Kilometer",
	"in %d kilometers":    "in %d Kilometern",
	"one mile":            "eine Meile",
	"%d miles":            "%d Meilen",
	"in one mile":         "in einer Meile",
	"in %d miles":         "in %d Meilen",

	"into the %[1]s%[2]s%[3]s|male form":    "in den %[1]s%[2]s%[3]s",
	"into the %[1]s%[2]s%[3]s|female form":  "in die %[1]s%[2]s%[3]s",
	"into the %[1]s%[2]s%[3]s|neutral form": "in das %[1]s%[2]s%[3]s",
	"into the street %[1]s%[2]s%[3]s":       "in die Straße %[1]s%[2]s%[3]s",
	"into the %s":                           "auf die %s",
	"onto the %[1]s %[2]s":                  "auf die %[1]s %[2]s",
	"into the ramp":                         "in die Auffahrt",

	"first":       "erste",
	"second":      "zweite",
	"third":       "dritte",
	"fourth":      "vierte",
	"fifth":       "fünfte",
	"sixth":       "sechste",
	"first exit":  "ersten Ausfahrt",
	"second exit": "zweiten Ausfahrt",
	"third exit":  "dritten Ausfahrt",
	"fourth exit": "vierten Ausfahrt",
	"fifth exit":  "fünften Ausfahrt",
	"sixth exit":  "sechsten Ausfahrt",
	"exit %d":     "Ausfahrt %d",

	"When possible, please turn around":              "Bitte wenden Sie, wenn möglich",
	"towards %s":                                     "Richtung %s",
	"Follow the road for the next %s":                "Dem Straßenverlauf %s folgen",
	"Enter the roundabout soon":                      "In Kürze in den Kreisverkehr einfahren",
	"Enter the roundabout %s":                        "%s in den Kreisverkehr einfahren",
	"then leave the roundabout at the %[1]s %[2]s":   "dann den Kreisverkehr an der %[1]s verlassen %[2]s",
	"Leave the roundabout at the %[1]s %[2]s":        "Den Kreisverkehr an der %[1]s verlassen %[2]s",
	"soon":                                           "in Kürze",
	"now":                                            "jetzt",
	"then":                                           "dann",
	"%[1]s merge left %[2]s":                         "%[1]s links einfädeln %[2]s",
	"%[1]s merge right %[2]s":                        "%[1]s rechts einfädeln %[2]s",
	"%[1]s left exit %[2]s %[3]s":                    "%[1]s die Ausfahrt links nehmen %[2]s %[3]s",
	"%[1]s right exit %[2]s %[3]s":                   "%[1]s die Ausfahrt rechts nehmen %[2]s %[3]s",
	" at the exit ":                                  " an der Ausfahrt ",
	" at the interchange ":                           " am Autobahnkreuz ",
	"%[1]s continue straight%[2]s":                   "%[1]s geradeaus weiterfahren%[2]s",
	"%[1]s keep right%[2]s":                          "%[1]s rechts halten%[2]s",
	"%[1]s keep left%[2]s":                           "%[1]s links halten%[2]s",
	"%[1]s continue straight":                        "%[1]s geradeaus weiterfahren",
	"%[1]s keep right":                               "%[1]s rechts halten",
	"%[1]s keep left":                                "%[1]s links halten",
	"%[1]s left turnaround":                          "%[1]s links wenden",
	"%[1]s right turnaround":                         "%[1]s rechts wenden",
	"follow ":                                        "folgen ",
	"then you have reached your destination.":        "dann haben Sie Ihr Ziel erreicht.",
	"You have reached your destination %s":           "Sie haben Ihr Ziel %s erreicht",
	"left":                                           "links",
	"right":                                          "rechts",
	"Take the %[1]s road to the %[2]s":               "Die %[1]s Straße %[2]s nehmen",
	"after %d roads":                                 "nach %d Straßen",
	"easily ":                                        "leicht ",
	"strongly ":                                      "scharf ",
	"Turn %[1]s%[2]s %[3]s %[4]s":                    "%[3]s %[1]s%[2]s abbiegen %[4]s",
}

// Supported lists the languages with a translation table.
var Supported = []language.Tag{language.English, language.German}

func newCatalog() (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range german {
		if err := b.SetString(language.German, key, msg); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", key, err)
		}
	}
	return b, nil
}
