package catalog

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CatalogSuite struct {
	suite.Suite
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	c, err := New([]Country{
		{Name: "Bahamas", Code: "BS", CallingCode: "+1242"},
		{Name: "Bangladesh", Code: "bd", CallingCode: "+880"},
		{Name: "Canada", Code: "CA", CallingCode: "+1"},
		{Name: "United States", Code: "US", CallingCode: "+1"},
	}, map[string][]string{
		"BD": {"Asia/Dhaka"},
		"CA": {"America/Toronto", "America/Vancouver"},
		"US": {"America/New_York", "America/Chicago", "America/New_York"},
	})
	s.Require().NoError(err)
	s.catalog = c
}

func (s *CatalogSuite) TestNewValidation() {
	s.Run("rejects missing country code", func() {
		_, err := New([]Country{{Name: "Nowhere", CallingCode: "+999"}}, nil)
		s.Error(err)
	})

	s.Run("rejects calling code without plus", func() {
		_, err := New([]Country{{Name: "France", Code: "FR", CallingCode: "33"}}, nil)
		s.Error(err)
	})

	s.Run("rejects duplicate country codes", func() {
		_, err := New([]Country{
			{Name: "France", Code: "FR", CallingCode: "+33"},
			{Name: "France again", Code: "fr", CallingCode: "+33"},
		}, nil)
		s.Error(err)
	})
}

func (s *CatalogSuite) TestCountryLookups() {
	s.Run("finds country case-insensitively", func() {
		c, ok := s.catalog.Country("bd")
		s.Require().True(ok)
		s.Equal("BD", c.Code)
		s.Equal("+880", c.CallingCode)
	})

	s.Run("unknown country is absent", func() {
		_, ok := s.catalog.Country("ZZ")
		s.False(ok)
	})

	s.Run("shared calling code resolves to first in catalog order", func() {
		c, ok := s.catalog.ByCallingCode("+1")
		s.Require().True(ok)
		s.Equal("CA", c.Code)
	})

	s.Run("calling code lookup is exact", func() {
		_, ok := s.catalog.ByCallingCode("+88")
		s.False(ok)
	})
}

func (s *CatalogSuite) TestMatchPrefix() {
	s.Run("prefers the longest calling code", func() {
		c, ok := s.catalog.MatchPrefix("+12425551234")
		s.Require().True(ok)
		s.Equal("BS", c.Code)
	})

	s.Run("ties resolve to first in catalog order", func() {
		c, ok := s.catalog.MatchPrefix("+14165551234")
		s.Require().True(ok)
		s.Equal("CA", c.Code)
	})

	s.Run("no match for unknown prefix", func() {
		_, ok := s.catalog.MatchPrefix("+999123")
		s.False(ok)
	})
}

func (s *CatalogSuite) TestPrimaryRegionOwnsSharedCode() {
	c, err := New([]Country{
		{Name: "American Samoa", Code: "AS", CallingCode: "+1"},
		{Name: "Bahamas", Code: "BS", CallingCode: "+1242"},
		{Name: "Kazakhstan", Code: "KZ", CallingCode: "+7"},
		{Name: "Russia", Code: "RU", CallingCode: "+7", Primary: true},
		{Name: "United States", Code: "US", CallingCode: "+1", Primary: true},
	}, nil)
	s.Require().NoError(err)

	s.Run("reverse lookup prefers the primary region", func() {
		us, ok := c.ByCallingCode("+1")
		s.Require().True(ok)
		s.Equal("US", us.Code)

		ru, ok := c.ByCallingCode("+7")
		s.Require().True(ok)
		s.Equal("RU", ru.Code)
	})

	s.Run("prefix tie prefers the primary region", func() {
		got, ok := c.MatchPrefix("+12125550100")
		s.Require().True(ok)
		s.Equal("US", got.Code)
	})

	s.Run("a longer code still beats the primary region", func() {
		got, ok := c.MatchPrefix("+12425550100")
		s.Require().True(ok)
		s.Equal("BS", got.Code)
	})
}

func (s *CatalogSuite) TestTimezones() {
	s.Run("keeps canonical zone first and drops duplicates", func() {
		zones := s.catalog.Timezones("us")
		s.Require().Len(zones, 2)
		s.Equal("America/New_York", zones[0].Name)
		s.Equal("-05:00", zones[0].UTCOffset)
		s.Equal("America/Chicago", zones[1].Name)
	})

	s.Run("standard offset ignores daylight saving", func() {
		zones := s.catalog.Timezones("BD")
		s.Require().Len(zones, 1)
		s.Equal("+06:00", zones[0].UTCOffset)
	})

	s.Run("unknown country has no zones", func() {
		s.Nil(s.catalog.Timezones("BS"))
	})

	s.Run("all timezones are sorted and unique", func() {
		all := s.catalog.AllTimezones()
		names := make([]string, 0, len(all))
		for _, tz := range all {
			names = append(names, tz.Name)
		}
		s.Equal([]string{
			"America/Chicago",
			"America/New_York",
			"America/Toronto",
			"America/Vancouver",
			"Asia/Dhaka",
		}, names)
		s.True(s.catalog.HasTimezone("America/Vancouver"))
		s.False(s.catalog.HasTimezone("Europe/Paris"))
	})

	s.Run("returned slices are copies", func() {
		zones := s.catalog.Timezones("CA")
		zones[0].Name = "mutated"
		s.Equal("America/Toronto", s.catalog.Timezones("CA")[0].Name)
	})
}

func (s *CatalogSuite) TestLanguages() {
	langs := s.catalog.Languages()
	s.Require().Len(langs, 11)
	s.Equal(Language{Country: "US", Tag: "en", Name: "English"}, langs[0])

	l, ok := s.catalog.Language(DefaultLanguage)
	s.Require().True(ok)
	s.Equal("en", l.Tag)

	l, ok = s.catalog.Language("FR")
	s.Require().True(ok, "lookup by tag is case-insensitive")
	s.Equal("Français", l.Name)

	_, ok = s.catalog.Language("Klingon")
	s.False(ok)
}

func TestFormatOffset(t *testing.T) {
	cases := []struct {
		secs int
		want string
	}{
		{0, "+00:00"},
		{6 * 3600, "+06:00"},
		{5*3600 + 1800, "+05:30"},
		{-(3*3600 + 1800), "-03:30"},
	}
	for _, tc := range cases {
		if got := formatOffset(tc.secs); got != tc.want {
			t.Fatalf("formatOffset(%d) = %q, want %q", tc.secs, got, tc.want)
		}
	}
}
