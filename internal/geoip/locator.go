package geoip

import (
	"context"
	"net/netip"
)

// Locator narrows a provider to the country code used to seed drafts.
type Locator struct {
	provider Provider
}

// NewLocator creates a locator over provider.
func NewLocator(provider Provider) *Locator {
	return &Locator{provider: provider}
}

// CountryCode returns the alpha-2 country of ip. Loopback, private and
// malformed addresses are not looked up.
func (l *Locator) CountryCode(ctx context.Context, ip string) (string, error) {
	if !IsPublic(ip) {
		return "", NewProviderError(ErrorNotFound, l.provider.ID(), "address is not public", nil)
	}
	loc, err := l.provider.Locate(ctx, ip)
	if err != nil {
		return "", err
	}
	return loc.CountryCode, nil
}

// IsPublic reports whether ip is a routable unicast address.
func IsPublic(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return addr.IsGlobalUnicast() && !addr.IsPrivate()
}
