// Package email normalizes and checks the address captured by the first
// sign-up step.
package email

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SuggestedDomains are offered as one-tap completions while typing.
var SuggestedDomains = []string{
	"@gmail.com",
	"@hotmail.com",
	"@yahoo.com",
	"@outlook.com",
	"@icloud.com",
}

// Normalize trims surrounding whitespace and lowercases the domain part.
// The local part is left as typed.
func Normalize(address string) string {
	address = strings.TrimSpace(address)
	at := strings.LastIndexByte(address, '@')
	if at < 0 {
		return address
	}
	return address[:at] + strings.ToLower(address[at:])
}

// Valid reports whether address looks like local@domain.tld.
func Valid(address string) bool {
	return pattern.MatchString(address)
}

// CompleteDomain applies a suggested domain to what has been typed so far.
// Anything after an existing '@' is replaced; otherwise the domain is appended.
func CompleteDomain(current, domain string) string {
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	if local, _, ok := strings.Cut(current, "@"); ok {
		return local + domain
	}
	return current + domain
}
