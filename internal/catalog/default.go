package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"

	// Zone offsets must resolve on hosts without a system zoneinfo.
	_ "time/tzdata"
)

//go:embed zones.yaml
var zonesYAML []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the process-wide catalog built from libphonenumber region
// metadata and the embedded zone table. It is built once on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		zones, err := LoadZones(zonesYAML)
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = New(PhoneCountries(), zones)
	})
	return defaultCatalog, defaultErr
}

// LoadZones decodes a YAML mapping of country code to zone names.
func LoadZones(data []byte) (map[string][]string, error) {
	var zones map[string][]string
	if err := yaml.Unmarshal(data, &zones); err != nil {
		return nil, fmt.Errorf("decode zone table: %w", err)
	}
	return zones, nil
}

// PhoneCountries lists every region libphonenumber knows a calling code for,
// named in English and sorted by name. Regions sharing a calling code with a
// dedicated area code (NANP members such as BS "242") get it appended, and
// the owner of each code is marked Primary.
func PhoneCountries() []Country {
	names := display.English.Regions()
	regions := phonenumbers.GetSupportedRegions()
	areaCodes := leadingDigits()

	countries := make([]Country, 0, len(regions))
	for region := range regions {
		code := phonenumbers.GetCountryCodeForRegion(region)
		if code == 0 {
			continue
		}
		name := region
		if r, err := language.ParseRegion(region); err == nil {
			if n := names.Name(r); n != "" {
				name = n
			}
		}
		primary := phonenumbers.GetRegionCodeForCountryCode(code) == region
		callingCode := "+" + strconv.Itoa(code)
		if digits := areaCodes[region]; !primary && isDigits(digits) {
			callingCode += digits
		}
		countries = append(countries, Country{
			Name:        name,
			Code:        region,
			CallingCode: callingCode,
			Primary:     primary,
		})
	}

	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Name != countries[j].Name {
			return countries[i].Name < countries[j].Name
		}
		return countries[i].Code < countries[j].Code
	})
	return countries
}

// leadingDigits maps region to the national leading digits that identify it
// within a shared calling code. Patterns with alternatives ("658|876") are
// returned as is and ignored by the caller.
func leadingDigits() map[string]string {
	out := make(map[string]string)
	coll, err := phonenumbers.MetadataCollection()
	if err != nil || coll == nil {
		return out
	}
	for _, m := range coll.GetMetadata() {
		if d := m.GetLeadingDigits(); d != "" {
			out[m.GetId()] = d
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
