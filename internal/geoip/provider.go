// Package geoip guesses a visitor's country from their IP address. The guess
// only seeds a new registration draft; every failure leaves the draft's
// fields unset and the user picks manually.
package geoip

import (
	"context"
)

// Location is what a provider knows about an IP address.
type Location struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name,omitempty"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Provider resolves an IP address. An empty ip asks the provider to locate
// the caller's own address.
type Provider interface {
	ID() string
	Locate(ctx context.Context, ip string) (*Location, error)
}
