// Package service runs the registration draft lifecycle: start from an email,
// edit fields through the field synchronizer, submit or discard.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"signup/internal/catalog"
	"signup/internal/signup/events"
	"signup/internal/signup/fieldsync"
	"signup/internal/signup/metrics"
	"signup/internal/signup/models"
	"signup/internal/signup/validation"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/email"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

const (
	defaultDraftTTL      = 30 * time.Minute
	defaultLocateTimeout = 3 * time.Second
)

type DraftStore interface {
	Create(ctx context.Context, d *models.Draft) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	Update(ctx context.Context, id uuid.UUID, fn func(d *models.Draft) error) (*models.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type RegistrationStore interface {
	Create(ctx context.Context, r *models.Registration) error
	FindByEmail(ctx context.Context, email string) (*models.Registration, error)
}

type EventPublisher interface {
	Emit(ctx context.Context, e events.Event) error
}

// Locator guesses a country code from a client IP.
type Locator interface {
	CountryCode(ctx context.Context, ip string) (string, error)
}

// Service orchestrates registration drafts.
type Service struct {
	drafts        DraftStore
	registrations RegistrationStore
	sync          *fieldsync.Synchronizer
	validator     *validation.Validator
	locator       Locator
	publisher     EventPublisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	draftTTL      time.Duration
	locateTimeout time.Duration
	bcryptCost    int
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithLocator enables geolocation seeding of new drafts.
func WithLocator(l Locator) Option {
	return func(s *Service) {
		s.locator = l
	}
}

func WithDraftTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.draftTTL = ttl
		}
	}
}

// WithLocateTimeout bounds the geolocation call made while starting a draft.
func WithLocateTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.locateTimeout = d
		}
	}
}

// WithBcryptCost overrides the password hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service over the given stores and reference catalog.
func New(drafts DraftStore, registrations RegistrationStore, cat *catalog.Catalog, opts ...Option) (*Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft store is required")
	}
	if registrations == nil {
		return nil, fmt.Errorf("registration store is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	s := &Service{
		drafts:        drafts,
		registrations: registrations,
		sync:          fieldsync.New(cat),
		validator:     validation.New(cat),
		logger:        slog.Default(),
		tracer:        otel.Tracer("signup/service"),
		draftTTL:      defaultDraftTTL,
		locateTimeout: defaultLocateTimeout,
		bcryptCost:    bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartDraft opens a draft for a captured email address. The requester's
// country is guessed from their IP when a locator is configured; a failed
// guess only leaves the phone fields unset.
func (s *Service) StartDraft(ctx context.Context, address string) (*models.Draft, error) {
	ctx, span := s.tracer.Start(ctx, "signup.StartDraft")
	defer span.End()

	address = email.Normalize(address)
	if address == "" {
		return nil, fieldError(models.FieldEmail, validation.MsgRequired)
	}
	if !email.Valid(address) {
		return nil, fieldError(models.FieldEmail, validation.MsgEmailInvalid)
	}

	if _, err := s.registrations.FindByEmail(ctx, address); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email"))
	}

	now := requestcontext.Now(ctx)
	d := models.NewDraft(uuid.New(), address, catalog.DefaultLanguage, now, s.draftTTL)
	span.SetAttributes(attribute.String("draft.id", d.ID.String()))
	s.seed(ctx, d)

	if err := s.drafts.Create(ctx, d); err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create draft"))
	}

	s.logger.InfoContext(ctx, "draft started",
		"request_id", requestcontext.RequestID(ctx),
		"draft_id", d.ID,
		"country", d.Country,
	)
	if s.metrics != nil {
		s.metrics.IncrementDraftsStarted()
	}
	s.emit(ctx, events.Event{
		Type:       events.DraftStarted,
		DraftID:    d.ID,
		Country:    d.Country,
		Device:     events.DeviceLabel(requestcontext.UserAgent(ctx)),
		OccurredAt: now,
	})
	return d, nil
}

func (s *Service) seed(ctx context.Context, d *models.Draft) {
	if s.locator == nil {
		return
	}
	lctx, cancel := context.WithTimeout(ctx, s.locateTimeout)
	defer cancel()

	code, err := s.locator.CountryCode(lctx, requestcontext.ClientIP(ctx))
	if err != nil {
		s.logger.DebugContext(ctx, "country guess unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}
	s.sync.Seed(d, code)
}

// GetDraft loads a live draft.
func (s *Service) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, draftError(err)
	}
	return d, nil
}

// EditPhone applies typed phone text.
func (s *Service) EditPhone(ctx context.Context, id uuid.UUID, text string) (*models.Draft, models.Change, error) {
	return s.edit(ctx, id, models.FieldPhone, func(d *models.Draft) models.Change {
		return s.sync.PhoneTextChanged(d, text)
	})
}

// SelectCountry applies an explicit country pick.
func (s *Service) SelectCountry(ctx context.Context, id uuid.UUID, code string) (*models.Draft, models.Change, error) {
	return s.edit(ctx, id, models.FieldCountry, func(d *models.Draft) models.Change {
		return s.sync.CountrySelected(d, strings.TrimSpace(code))
	})
}

// SelectCallingCode applies an explicit calling code pick.
func (s *Service) SelectCallingCode(ctx context.Context, id uuid.UUID, code string) (*models.Draft, models.Change, error) {
	return s.edit(ctx, id, models.FieldCallingCode, func(d *models.Draft) models.Change {
		return s.sync.CallingCodeSelected(d, code)
	})
}

func (s *Service) SelectTimezone(ctx context.Context, id uuid.UUID, tz string) (*models.Draft, models.Change, error) {
	return s.edit(ctx, id, models.FieldTimezone, func(d *models.Draft) models.Change {
		return s.sync.TimezoneSelected(d, strings.TrimSpace(tz))
	})
}

func (s *Service) SelectLanguage(ctx context.Context, id uuid.UUID, lang string) (*models.Draft, models.Change, error) {
	return s.edit(ctx, id, models.FieldLanguage, func(d *models.Draft) models.Change {
		return s.sync.LanguageSelected(d, strings.TrimSpace(lang))
	})
}

// UpdateProfile sets the plain form fields that take part in no derivation.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.Draft, models.Change, error) {
	if upd.Empty() {
		return nil, models.Change{}, dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}
	return s.edit(ctx, id, "", func(d *models.Draft) models.Change {
		var ch models.Change
		if upd.FirstName != nil {
			ch.Set(models.FieldFirstName, &d.FirstName, strings.TrimSpace(*upd.FirstName))
		}
		if upd.LastName != nil {
			ch.Set(models.FieldLastName, &d.LastName, strings.TrimSpace(*upd.LastName))
		}
		if upd.Password != nil {
			ch.Set(models.FieldPassword, &d.Password, *upd.Password)
		}
		if upd.Agree != nil {
			ch.SetBool(models.FieldAgree, &d.Agree, *upd.Agree)
		}
		return ch
	})
}

// edit runs apply inside the store's atomic update and slides the draft's
// expiry. trigger names the field the user edited; empty skips derivation
// metrics.
func (s *Service) edit(ctx context.Context, id uuid.UUID, trigger models.Field, apply func(d *models.Draft) models.Change) (*models.Draft, models.Change, error) {
	ctx, span := s.tracer.Start(ctx, "signup.Edit", trace.WithAttributes(
		attribute.String("draft.id", id.String()),
		attribute.String("draft.trigger", string(trigger)),
	))
	defer span.End()

	var ch models.Change
	d, err := s.drafts.Update(ctx, id, func(d *models.Draft) error {
		ch = apply(d)
		d.Touch(requestcontext.Now(ctx), s.draftTTL)
		return nil
	})
	if err != nil {
		return nil, models.Change{}, s.fail(span, draftError(err))
	}

	span.SetAttributes(attribute.StringSlice("draft.changed", ch.Strings()))
	if trigger != "" && ch.Derived(trigger) && s.metrics != nil {
		s.metrics.IncrementDerivation(string(trigger))
	}
	s.logger.DebugContext(ctx, "draft edited",
		"request_id", requestcontext.RequestID(ctx),
		"draft_id", id,
		"trigger", string(trigger),
		"changed", ch.Strings(),
	)
	return d, ch, nil
}

// Submit validates the draft and turns it into a registration. Any failing
// field blocks the whole submission. The draft is discarded on success.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "signup.Submit", trace.WithAttributes(attribute.String("draft.id", id.String())))
	defer span.End()
	start := time.Now()

	d, err := s.drafts.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, draftError(err))
	}

	if errs := s.validator.Validate(d); !errs.Empty() {
		s.countSubmission("invalid")
		s.logger.InfoContext(ctx, "submission rejected",
			"request_id", requestcontext.RequestID(ctx),
			"draft_id", id,
			"fields", errs.Fields(),
		)
		return nil, dErrors.New(dErrors.CodeValidation, "registration has invalid fields").WithFields(errs.Map())
	}

	phone, err := validation.E164(d.CallingCode, d.PhoneNational)
	if err != nil {
		s.countSubmission("error")
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to format phone"))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), s.bcryptCost)
	if err != nil {
		s.countSubmission("error")
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password"))
	}

	reg := &models.Registration{
		ID:           uuid.New(),
		DraftID:      d.ID,
		Email:        d.Email,
		FirstName:    strings.TrimSpace(d.FirstName),
		LastName:     strings.TrimSpace(d.LastName),
		PasswordHash: string(hash),
		Phone:        phone,
		CallingCode:  d.CallingCode,
		Country:      d.Country,
		Timezone:     d.Timezone,
		Language:     d.Language,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.countSubmission("conflict")
			return nil, emailTaken()
		}
		s.countSubmission("error")
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save registration"))
	}

	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to discard submitted draft",
			"request_id", requestcontext.RequestID(ctx),
			"draft_id", id,
			"error", err,
		)
	}

	s.countSubmission("ok")
	if s.metrics != nil {
		s.metrics.ObserveSubmit(start)
	}
	s.logger.InfoContext(ctx, "registration completed",
		"request_id", requestcontext.RequestID(ctx),
		"draft_id", id,
		"registration_id", reg.ID,
		"country", reg.Country,
	)
	s.emit(ctx, events.Event{
		Type:           events.RegistrationCompleted,
		DraftID:        id,
		RegistrationID: reg.ID,
		Email:          reg.Email,
		Country:        reg.Country,
		OccurredAt:     reg.CreatedAt,
	})
	return reg, nil
}

// Discard drops a draft, e.g. when the user navigates away.
func (s *Service) Discard(ctx context.Context, id uuid.UUID) error {
	if err := s.drafts.Delete(ctx, id); err != nil {
		return draftError(err)
	}
	s.emit(ctx, events.Event{
		Type:       events.DraftDiscarded,
		DraftID:    id,
		OccurredAt: requestcontext.Now(ctx),
	})
	return nil
}

// CompleteEmailDomain applies a suggested domain to a partially typed
// address.
func (s *Service) CompleteEmailDomain(current, domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	for _, suggested := range email.SuggestedDomains {
		if suggested == domain {
			return email.CompleteDomain(strings.TrimSpace(current), domain), nil
		}
	}
	return "", dErrors.New(dErrors.CodeBadRequest, "unknown email domain")
}

func (s *Service) emit(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.publisher.Emit(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to emit signup event",
			"type", string(e.Type),
			"draft_id", e.DraftID,
			"error", err,
		)
	}
}

func (s *Service) countSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementSubmission(outcome)
	}
}

// fail records err on span. Only internal errors mark the span as failed.
func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		span.SetStatus(codes.Error, "internal error")
	}
	return err
}

func draftError(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "draft not found")
	case errors.Is(err, sentinel.ErrExpired):
		return dErrors.New(dErrors.CodeNotFound, "draft expired")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to access draft")
	}
}

func fieldError(field models.Field, msg string) error {
	return dErrors.New(dErrors.CodeValidation, msg).WithFields(map[string]string{string(field): msg})
}

func emailTaken() error {
	return dErrors.New(dErrors.CodeConflict, "email already registered").
		WithFields(map[string]string{string(models.FieldEmail): "Email is already registered"})
}
