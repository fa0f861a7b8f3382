package geoip

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"signup/pkg/platform/httputil"
	"signup/pkg/requestcontext"
)

// Handler serves the geolocation proxy used by browser clients to pre-fill
// the country.
type Handler struct {
	provider Provider
	logger   *slog.Logger
}

// NewHandler constructs the proxy handler.
func NewHandler(provider Provider, logger *slog.Logger) *Handler {
	return &Handler{provider: provider, logger: logger}
}

// Register mounts GET /api/geoip.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/geoip", h.HandleLookup)
}

// HandleLookup locates the requesting client. Private addresses fall back to
// the provider's view of the server's own address.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := requestcontext.ClientIP(ctx)
	if !IsPublic(ip) {
		ip = ""
	}

	loc, err := h.provider.Locate(ctx, ip)
	if err != nil {
		h.logger.WarnContext(ctx, "geoip lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"category", string(GetCategory(err)),
			"retryable", IsRetryable(err),
			"error", err,
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "GeoIP lookup failed"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loc)
}
