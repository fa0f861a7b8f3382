package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, c, again, "default catalog is built once")

	t.Run("knows common countries with canonical zones", func(t *testing.T) {
		cases := []struct {
			code, callingCode, zone string
		}{
			{"BD", "+880", "Asia/Dhaka"},
			{"FR", "+33", "Europe/Paris"},
			{"US", "+1", "America/New_York"},
			{"IN", "+91", "Asia/Kolkata"},
			{"GB", "+44", "Europe/London"},
		}
		for _, tc := range cases {
			country, ok := c.Country(tc.code)
			require.True(t, ok, tc.code)
			assert.Equal(t, tc.callingCode, country.CallingCode, tc.code)

			zones := c.Timezones(tc.code)
			require.NotEmpty(t, zones, tc.code)
			assert.Equal(t, tc.zone, zones[0].Name, tc.code)
		}
	})

	t.Run("countries are named and ordered by name", func(t *testing.T) {
		countries := c.Countries()
		require.NotEmpty(t, countries)
		for i := 1; i < len(countries); i++ {
			assert.LessOrEqual(t, countries[i-1].Name, countries[i].Name)
		}
		bd, _ := c.Country("BD")
		assert.Equal(t, "Bangladesh", bd.Name)
	})

	t.Run("shared calling codes resolve to their owner", func(t *testing.T) {
		cases := []struct {
			text, country, callingCode string
		}{
			{"+12125550100", "US", "+1"},
			{"+14165550100", "US", "+1"},
			{"+12425550100", "BS", "+1242"},
			{"+16845550100", "AS", "+1684"},
			{"+18765550100", "US", "+1"},
			{"+74951234567", "RU", "+7"},
			{"+8801712345678", "BD", "+880"},
		}
		for _, tc := range cases {
			got, ok := c.MatchPrefix(tc.text)
			require.True(t, ok, tc.text)
			assert.Equal(t, tc.country, got.Code, tc.text)
			assert.Equal(t, tc.callingCode, got.CallingCode, tc.text)
		}

		us, ok := c.ByCallingCode("+1")
		require.True(t, ok)
		assert.Equal(t, "US", us.Code)
		ru, ok := c.ByCallingCode("+7")
		require.True(t, ok)
		assert.Equal(t, "RU", ru.Code)
	})

	t.Run("countries without a dedicated area code keep the shared code", func(t *testing.T) {
		ca, ok := c.Country("CA")
		require.True(t, ok)
		assert.Equal(t, "+1", ca.CallingCode)
		assert.False(t, ca.Primary)
		kz, ok := c.Country("KZ")
		require.True(t, ok)
		assert.Equal(t, "+7", kz.CallingCode)
	})

	t.Run("every zone resolves to an offset", func(t *testing.T) {
		for _, tz := range c.AllTimezones() {
			assert.NotEmpty(t, tz.UTCOffset, tz.Name)
		}
	})
}

func TestLoadZonesRejectsMalformedYAML(t *testing.T) {
	_, err := LoadZones([]byte("BD: [Asia/Dhaka"))
	assert.Error(t, err)
}
