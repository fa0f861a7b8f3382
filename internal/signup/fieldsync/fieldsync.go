// Package fieldsync keeps the derived phone fields of a registration draft
// (calling code, country, timezone) consistent with whichever of them the
// user edited last.
//
// Every operation runs one derivation pass and reports the fields it wrote.
// Operations never fail: unmatched or malformed input leaves the derived
// fields alone and stores the text as typed.
package fieldsync

import (
	"strings"

	"signup/internal/catalog"
	"signup/internal/signup/models"
)

// Catalog is the read-only reference data the synchronizer derives from.
type Catalog interface {
	Country(code string) (catalog.Country, bool)
	ByCallingCode(code string) (catalog.Country, bool)
	MatchPrefix(text string) (catalog.Country, bool)
	Timezones(code string) []catalog.Timezone
}

// Synchronizer applies edit events to a draft. It holds no per-draft state
// and is safe for concurrent use on distinct drafts.
type Synchronizer struct {
	catalog Catalog
}

// New creates a synchronizer over c.
func New(c Catalog) *Synchronizer {
	return &Synchronizer{catalog: c}
}

// PhoneTextChanged handles a keystroke in the phone field.
//
// Text whose first digit is not preceded by '+' is stored as typed (digits,
// '+' and '-' kept) with no derivation. Text that starts with the current calling code
// has that prefix stripped and nothing else changes. Otherwise the longest
// known calling code prefixing the text selects the country; the calling
// code, country, remaining national digits and timezone are written together.
func (s *Synchronizer) PhoneTextChanged(d *models.Draft, text string) models.Change {
	var ch models.Change
	d.LastEdited = models.FieldPhone

	normalized := normalize(text)
	if !strings.HasPrefix(normalized, "+") {
		ch.Set(models.FieldPhone, &d.PhoneNational, sanitize(text))
		return ch
	}

	if d.CallingCode != "" && strings.HasPrefix(normalized, d.CallingCode) {
		ch.Set(models.FieldPhone, &d.PhoneNational, normalized[len(d.CallingCode):])
		return ch
	}

	match, ok := s.catalog.MatchPrefix(normalized)
	if !ok || match.CallingCode == d.CallingCode {
		ch.Set(models.FieldPhone, &d.PhoneNational, sanitize(text))
		return ch
	}

	ch.Set(models.FieldCallingCode, &d.CallingCode, match.CallingCode)
	ch.Set(models.FieldCountry, &d.Country, match.Code)
	ch.Set(models.FieldPhone, &d.PhoneNational, normalized[len(match.CallingCode):])
	s.keepOrResetTimezone(d, &ch)
	return ch
}

// CountrySelected handles an explicit country pick. The country's calling
// code and canonical timezone always replace the current values. Unknown
// codes are ignored.
func (s *Synchronizer) CountrySelected(d *models.Draft, code string) models.Change {
	var ch models.Change
	country, ok := s.catalog.Country(code)
	if !ok {
		return ch
	}
	d.LastEdited = models.FieldCountry

	ch.Set(models.FieldCountry, &d.Country, country.Code)
	ch.Set(models.FieldCallingCode, &d.CallingCode, country.CallingCode)
	if zones := s.catalog.Timezones(country.Code); len(zones) > 0 {
		ch.Set(models.FieldTimezone, &d.Timezone, zones[0].Name)
	}
	return ch
}

// CallingCodeSelected handles an explicit calling code pick. The first
// country in catalog order with exactly that code becomes the country; the
// timezone is kept when still valid for it. Unknown codes are ignored.
func (s *Synchronizer) CallingCodeSelected(d *models.Draft, code string) models.Change {
	var ch models.Change
	country, ok := s.catalog.ByCallingCode(strings.TrimSpace(code))
	if !ok {
		return ch
	}
	d.LastEdited = models.FieldCallingCode

	ch.Set(models.FieldCallingCode, &d.CallingCode, country.CallingCode)
	ch.Set(models.FieldCountry, &d.Country, country.Code)
	s.keepOrResetTimezone(d, &ch)
	return ch
}

// TimezoneSelected sets the timezone. It never cascades.
func (s *Synchronizer) TimezoneSelected(d *models.Draft, tz string) models.Change {
	var ch models.Change
	ch.Set(models.FieldTimezone, &d.Timezone, tz)
	return ch
}

// LanguageSelected sets the interface language. It never cascades.
func (s *Synchronizer) LanguageSelected(d *models.Draft, lang string) models.Change {
	var ch models.Change
	ch.Set(models.FieldLanguage, &d.Language, lang)
	return ch
}

// Seed applies a best-guess country, e.g. from geolocation, to a draft the
// user has not touched yet. It is a no-op once a calling code is set and
// does not record provenance.
func (s *Synchronizer) Seed(d *models.Draft, code string) models.Change {
	var ch models.Change
	if d.CallingCode != "" {
		return ch
	}
	country, ok := s.catalog.Country(code)
	if !ok {
		return ch
	}
	ch.Set(models.FieldCountry, &d.Country, country.Code)
	ch.Set(models.FieldCallingCode, &d.CallingCode, country.CallingCode)
	s.keepOrResetTimezone(d, &ch)
	return ch
}

// keepOrResetTimezone is the conservative rule for automatic derivation: a
// timezone already valid for the draft's country stays, anything else becomes
// the country's canonical zone. Countries without zones leave it untouched.
func (s *Synchronizer) keepOrResetTimezone(d *models.Draft, ch *models.Change) {
	zones := s.catalog.Timezones(d.Country)
	if len(zones) == 0 {
		return
	}
	for _, tz := range zones {
		if tz.Name == d.Timezone {
			return
		}
	}
	ch.Set(models.FieldTimezone, &d.Timezone, zones[0].Name)
}

// normalize drops everything but digits and '+', then keeps a '+' only when
// it is the first remaining character: "(+880) 17" becomes "+88017".
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteByte('+')
		}
	}
	return b.String()
}

// sanitize keeps digits, '+' and '-', the characters the phone input accepts.
func sanitize(text string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' {
			return r
		}
		return -1
	}, text)
}
