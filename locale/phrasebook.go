// Package locale renders navigation phrases in the driver's language.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Phrasebook formats message keys for one language.
type Phrasebook struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns the phrasebook for the best supported match of tag.
func New(tag language.Tag) (*Phrasebook, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, err
	}
	matched, _, _ := language.NewMatcher(Supported).Match(tag)
	base, _ := matched.Base()
	tag = language.Make(base.String())
	return &Phrasebook{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}, nil
}

// Parse is New for a BCP 47 language string such as "de" or "en-GB".
func Parse(lang string) (*Phrasebook, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}
	return New(tag)
}

// Language returns the language the phrasebook renders.
func (p *Phrasebook) Language() language.Tag {
	return p.tag
}

// Sprintf formats the translation of key, or key itself when untranslated.
func (p *Phrasebook) Sprintf(key string, args ...any) string {
	return p.printer.Sprintf(key, args...)
}

// Nsprintf formats one when n is 1 and other otherwise. Keys without verbs
// are rendered without arguments.
func (p *Phrasebook) Nsprintf(n int, one, other string, args ...any) string {
	key := other
	if n == 1 {
		key = one
	}
	if !strings.Contains(key, "%") {
		return p.printer.Sprintf(key)
	}
	return p.printer.Sprintf(key, args...)
}

// Gender returns the grammatical gender of a street name and the name with
// abbreviated suffixes expanded.
func (p *Phrasebook) Gender(name string) (Gender, string) {
	return StreetGender(name)
}

// Fold case-folds s for caseless comparison.
func (p *Phrasebook) Fold(s string) string {
	return cases.Fold().String(s)
}
