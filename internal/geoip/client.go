package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultURL is the ipapi lookup endpoint.
	DefaultURL = "https://ipapi.com/ip_api.php?type=json"

	maxResponseBytes = 64 << 10
)

// HTTPProvider queries an ipapi-compatible JSON endpoint.
type HTTPProvider struct {
	id      string
	baseURL string
	client  *http.Client
}

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithID overrides the provider ID reported in errors and metrics.
func WithID(id string) HTTPOption {
	return func(p *HTTPProvider) {
		p.id = id
	}
}

// NewHTTPProvider creates a provider for baseURL with a request timeout.
func NewHTTPProvider(baseURL string, timeout time.Duration, opts ...HTTPOption) *HTTPProvider {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	p := &HTTPProvider{
		id:      "ipapi",
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *HTTPProvider) ID() string {
	return p.id
}

// Locate resolves ip; an empty ip lets the endpoint use the request's source
// address.
func (p *HTTPProvider) Locate(ctx context.Context, ip string) (*Location, error) {
	target, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, NewProviderError(ErrorInternal, p.id, "invalid endpoint", err)
	}
	if ip != "" {
		q := target.Query()
		q.Set("ip", ip)
		target.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, NewProviderError(ErrorInternal, p.id, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewProviderError(ErrorTimeout, p.id, "lookup timed out", err)
		}
		return nil, NewProviderError(ErrorProviderOutage, p.id, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewProviderError(ErrorProviderOutage, p.id, "read response", err)
	}
	loc, err := parseResponse(p.id, resp.StatusCode, body)
	if err != nil {
		return nil, err
	}
	if loc.IP == "" {
		loc.IP = ip
	}
	return loc, nil
}

type ipapiResponse struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	RegionName  string `json:"region_name"`
	City        string `json:"city"`
	TimeZone    *struct {
		ID string `json:"id"`
	} `json:"time_zone"`
	// ipinfo-style responses carry the code in "country".
	Country string `json:"country"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

func parseResponse(providerID string, status int, body []byte) (*Location, error) {
	switch {
	case status == http.StatusTooManyRequests:
		return nil, NewProviderError(ErrorRateLimited, providerID, "rate limited", nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, NewProviderError(ErrorAuthentication, providerID, fmt.Sprintf("status %d", status), nil)
	case status == http.StatusNotFound:
		return nil, NewProviderError(ErrorNotFound, providerID, "address not found", nil)
	case status >= 500:
		return nil, NewProviderError(ErrorProviderOutage, providerID, fmt.Sprintf("status %d", status), nil)
	case status != http.StatusOK:
		return nil, NewProviderError(ErrorBadData, providerID, fmt.Sprintf("unexpected status %d", status), nil)
	}

	var r ipapiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, NewProviderError(ErrorBadData, providerID, "malformed response", err)
	}
	if r.Error != nil {
		return nil, NewProviderError(ErrorBadData, providerID, fmt.Sprintf("provider error %d: %s", r.Error.Code, r.Error.Type), nil)
	}

	code := r.CountryCode
	if code == "" {
		code = r.Country
	}
	if code == "" {
		return nil, NewProviderError(ErrorNotFound, providerID, "no country for address", nil)
	}

	loc := &Location{
		IP:          r.IP,
		CountryCode: strings.ToUpper(code),
		CountryName: r.CountryName,
		Region:      r.RegionName,
		City:        r.City,
	}
	if r.TimeZone != nil {
		loc.Timezone = r.TimeZone.ID
	}
	return loc, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
