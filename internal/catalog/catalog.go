// Package catalog holds the static reference data behind the registration
// form: countries with their calling codes, the time zones used in each
// country, and the selectable interface languages.
//
// A Catalog is immutable once built and safe for concurrent use.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Country is one selectable country. Countries inside a shared numbering
// plan carry their area code in CallingCode when they have a dedicated one
// ("+1242" for the Bahamas). Primary marks the region that owns a calling
// code shared by several countries ("US" for "+1", "RU" for "+7").
type Country struct {
	Name        string `json:"name"`
	Code        string `json:"country_code"`
	CallingCode string `json:"calling_code"`
	Primary     bool   `json:"-"`
}

// Timezone is an IANA zone with its standard UTC offset, e.g. "+06:00".
type Timezone struct {
	Name      string `json:"name"`
	UTCOffset string `json:"utc_offset"`
}

// Catalog is the read-only lookup table consulted by the field synchronizer
// and the submission validator.
type Catalog struct {
	countries []Country
	byCode    map[string]int
	zones     map[string][]Timezone
	allZones  []Timezone
	zoneNames map[string]struct{}
	languages []Language
}

// offsetReference is the instant used to compute standard offsets. A fixed
// date keeps offsets stable across runs.
var offsetReference = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

// New builds a catalog from countries in catalog order and a map of country
// code to zone names (canonical zone first). Codes are upper-cased; calling
// codes must start with '+'.
func New(countries []Country, zones map[string][]string) (*Catalog, error) {
	c := &Catalog{
		countries: make([]Country, 0, len(countries)),
		byCode:    make(map[string]int, len(countries)),
		zones:     make(map[string][]Timezone, len(zones)),
		zoneNames: make(map[string]struct{}),
		languages: defaultLanguages(),
	}

	for _, country := range countries {
		country.Code = strings.ToUpper(strings.TrimSpace(country.Code))
		country.CallingCode = strings.TrimSpace(country.CallingCode)
		if country.Code == "" {
			return nil, fmt.Errorf("country %q has no code", country.Name)
		}
		if !validCallingCode(country.CallingCode) {
			return nil, fmt.Errorf("country %s has invalid calling code %q", country.Code, country.CallingCode)
		}
		if _, dup := c.byCode[country.Code]; dup {
			return nil, fmt.Errorf("duplicate country code %s", country.Code)
		}
		c.byCode[country.Code] = len(c.countries)
		c.countries = append(c.countries, country)
	}

	for code, names := range zones {
		code = strings.ToUpper(code)
		seen := make(map[string]struct{}, len(names))
		list := make([]Timezone, 0, len(names))
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			tz := Timezone{Name: name, UTCOffset: standardOffset(name)}
			list = append(list, tz)
			if _, known := c.zoneNames[name]; !known {
				c.zoneNames[name] = struct{}{}
				c.allZones = append(c.allZones, tz)
			}
		}
		c.zones[code] = list
	}
	sort.Slice(c.allZones, func(i, j int) bool { return c.allZones[i].Name < c.allZones[j].Name })

	return c, nil
}

// Countries returns every country in catalog order.
func (c *Catalog) Countries() []Country {
	out := make([]Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// Country looks up a country by alpha-2 code (case-insensitive).
func (c *Catalog) Country(code string) (Country, bool) {
	i, ok := c.byCode[strings.ToUpper(code)]
	if !ok {
		return Country{}, false
	}
	return c.countries[i], true
}

// ByCallingCode returns the country whose calling code equals code exactly.
// Several countries can share one code ("+1", "+7"): the primary region wins,
// otherwise the first in catalog order.
func (c *Catalog) ByCallingCode(code string) (Country, bool) {
	var (
		best  Country
		found bool
	)
	for _, country := range c.countries {
		if country.CallingCode != code {
			continue
		}
		if !found || (country.Primary && !best.Primary) {
			best = country
			found = true
		}
	}
	return best, found
}

// MatchPrefix returns the country whose calling code is the longest prefix of
// text. Ties between countries sharing that code resolve like ByCallingCode.
func (c *Catalog) MatchPrefix(text string) (Country, bool) {
	var (
		best  Country
		found bool
	)
	for _, country := range c.countries {
		if !strings.HasPrefix(text, country.CallingCode) {
			continue
		}
		switch {
		case !found, len(country.CallingCode) > len(best.CallingCode):
		case len(country.CallingCode) == len(best.CallingCode) && country.Primary && !best.Primary:
		default:
			continue
		}
		best = country
		found = true
	}
	return best, found
}

// Timezones returns the ordered zone list for a country; the first entry is
// the canonical zone. Unknown countries yield nil.
func (c *Catalog) Timezones(code string) []Timezone {
	list := c.zones[strings.ToUpper(code)]
	if len(list) == 0 {
		return nil
	}
	out := make([]Timezone, len(list))
	copy(out, list)
	return out
}

// AllTimezones returns every known zone sorted by name.
func (c *Catalog) AllTimezones() []Timezone {
	out := make([]Timezone, len(c.allZones))
	copy(out, c.allZones)
	return out
}

// HasTimezone reports whether name is a zone of any catalog country.
func (c *Catalog) HasTimezone(name string) bool {
	_, ok := c.zoneNames[name]
	return ok
}

func validCallingCode(code string) bool {
	if len(code) < 2 || code[0] != '+' {
		return false
	}
	for _, r := range code[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// standardOffset formats the non-DST offset of zone, or "" when the zone
// cannot be loaded.
func standardOffset(zone string) string {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return ""
	}
	t := offsetReference.In(loc)
	if t.IsDST() {
		t = offsetReference.AddDate(0, 6, 0).In(loc)
	}
	_, secs := t.Zone()
	return formatOffset(secs)
}

func formatOffset(secs int) string {
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("%c%02d:%02d", sign, secs/3600, (secs%3600)/60)
}
