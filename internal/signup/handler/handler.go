// Package handler exposes the registration draft flow and its reference data
// over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"signup/internal/catalog"
	"signup/internal/signup/models"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/email"
	"signup/pkg/platform/httputil"
	"signup/pkg/requestcontext"
)

// Service defines the draft operations the handler delegates to.
type Service interface {
	StartDraft(ctx context.Context, address string) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	EditPhone(ctx context.Context, id uuid.UUID, text string) (*models.Draft, models.Change, error)
	SelectCountry(ctx context.Context, id uuid.UUID, code string) (*models.Draft, models.Change, error)
	SelectCallingCode(ctx context.Context, id uuid.UUID, code string) (*models.Draft, models.Change, error)
	SelectTimezone(ctx context.Context, id uuid.UUID, tz string) (*models.Draft, models.Change, error)
	SelectLanguage(ctx context.Context, id uuid.UUID, lang string) (*models.Draft, models.Change, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.Draft, models.Change, error)
	Submit(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	Discard(ctx context.Context, id uuid.UUID) error
	CompleteEmailDomain(current, domain string) (string, error)
}

// Catalog is the reference data listed to clients.
type Catalog interface {
	Countries() []catalog.Country
	Country(code string) (catalog.Country, bool)
	Timezones(code string) []catalog.Timezone
	AllTimezones() []catalog.Timezone
	Languages() []catalog.Language
}

// Handler handles registration endpoints.
type Handler struct {
	service Service
	catalog Catalog
	logger  *slog.Logger
}

// New creates a registration Handler.
func New(service Service, cat Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		catalog: cat,
		logger:  logger,
	}
}

// Register mounts the signup and catalog routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/signup", func(r chi.Router) {
		r.Get("/email/domains", h.handleEmailDomains)
		r.Post("/email", h.handleStartDraft)
		r.Post("/email/complete", h.handleCompleteEmail)

		r.Route("/drafts/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetDraft)
			r.Patch("/", h.handleUpdateProfile)
			r.Delete("/", h.handleDiscard)
			r.Put("/phone", h.handleEditPhone)
			r.Put("/country", h.handleSelectCountry)
			r.Put("/calling-code", h.handleSelectCallingCode)
			r.Put("/timezone", h.handleSelectTimezone)
			r.Put("/language", h.handleSelectLanguage)
			r.Post("/submit", h.handleSubmit)
		})
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/countries", h.handleCountries)
		r.Get("/countries/{code}/timezones", h.handleCountryTimezones)
		r.Get("/timezones", h.handleTimezones)
		r.Get("/languages", h.handleLanguages)
	})
}

func (h *Handler) handleEmailDomains(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, DomainsResponse{Domains: email.SuggestedDomains})
}

func (h *Handler) handleStartDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[StartDraftRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	d, err := h.service.StartDraft(ctx, req.Email)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to start draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDraftResponse(d, models.Change{}))
}

func (h *Handler) handleCompleteEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CompleteEmailRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	address, err := h.service.CompleteEmailDomain(req.Current, req.Domain)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to complete email", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EmailResponse{Email: address})
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}

	d, err := h.service.GetDraft(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to load draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDraftResponse(d, models.Change{}))
}

func (h *Handler) handleEditPhone(w http.ResponseWriter, r *http.Request) {
	editDraft(h, w, r, func(ctx context.Context, id uuid.UUID, req *PhoneRequest) (*models.Draft, models.Change, error) {
		return h.service.EditPhone(ctx, id, req.Text)
	})
}

func (h *Handler) handleSelectCountry(w http.ResponseWriter, r *http.Request) {
	editDraft(h, w, r, func(ctx context.Context, id uuid.UUID, req *CountryRequest) (*models.Draft, models.Change, error) {
		if _, known := h.catalog.Country(req.Country); !known {
			return nil, models.Change{}, dErrors.New(dErrors.CodeBadRequest, "unknown country")
		}
		return h.service.SelectCountry(ctx, id, req.Country)
	})
}

func (h *Handler) handleSelectCallingCode(w http.ResponseWriter, r *http.Request) {
	editDraft(h, w, r, func(ctx context.Context, id uuid.UUID, req *CallingCodeRequest) (*models.Draft, models.Change, error) {
		return h.service.SelectCallingCode(ctx, id, req.CallingCode)
	})
}

func (h *Handler) handleSelectTimezone(w http.ResponseWriter, r *http.Request) {
	editDraft(h, w, r, func(ctx context.Context, id uuid.UUID, req *TimezoneRequest) (*models.Draft, models.Change, error) {
		return h.service.SelectTimezone(ctx, id, req.Timezone)
	})
}

func (h *Handler) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	editDraft(h, w, r, func(ctx context.Context, id uuid.UUID, req *LanguageRequest) (*models.Draft, models.Change, error) {
		return h.service.SelectLanguage(ctx, id, req.Language)
	})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	editDraft(h, w, r, func(ctx context.Context, id uuid.UUID, req *ProfileRequest) (*models.Draft, models.Change, error) {
		return h.service.UpdateProfile(ctx, id, req.Update())
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}

	reg, err := h.service.Submit(ctx, id)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to submit draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toRegistrationResponse(reg))
}

func (h *Handler) handleDiscard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}

	if err := h.service.Discard(ctx, id); err != nil {
		h.writeServiceError(ctx, w, "failed to discard draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCountries(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CountriesResponse{Countries: h.catalog.Countries()})
}

func (h *Handler) handleCountryTimezones(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if _, ok := h.catalog.Country(code); !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown country"))
		return
	}
	zones := h.catalog.Timezones(code)
	if zones == nil {
		zones = []catalog.Timezone{}
	}
	httputil.WriteJSON(w, http.StatusOK, TimezonesResponse{Timezones: zones})
}

func (h *Handler) handleTimezones(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, TimezonesResponse{Timezones: h.catalog.AllTimezones()})
}

func (h *Handler) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LanguagesResponse{Languages: h.catalog.Languages()})
}

// editDraft decodes T, applies it to the draft named in the path and writes
// the resulting form state with the list of changed fields.
func editDraft[T any](h *Handler, w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id uuid.UUID, req *T) (*models.Draft, models.Change, error)) {
	ctx := r.Context()
	id, ok := h.draftID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	d, ch, err := apply(ctx, id, req)
	if err != nil {
		h.writeServiceError(ctx, w, "failed to edit draft", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDraftResponse(d, ch))
}

func (h *Handler) draftID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid draft id"))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError logs internal failures at error level and client errors
// at warn level before writing the envelope.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := requestcontext.RequestID(ctx)
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
	} else {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
	}
	httputil.WriteError(w, err)
}
