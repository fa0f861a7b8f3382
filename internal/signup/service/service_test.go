package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"signup/internal/catalog"
	"signup/internal/signup/events"
	"signup/internal/signup/metrics"
	"signup/internal/signup/models"
	"signup/internal/signup/service/mocks"
	dErrors "signup/pkg/domain-errors"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	drafts        *mocks.MockDraftStore
	registrations *mocks.MockRegistrationStore
	publisher     *mocks.MockEventPublisher
	locator       *mocks.MockLocator
	catalog       *catalog.Catalog
	metrics       *metrics.Metrics
	service       *Service
	ctx           context.Context
	now           time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.drafts = mocks.NewMockDraftStore(s.ctrl)
	s.registrations = mocks.NewMockRegistrationStore(s.ctrl)
	s.publisher = mocks.NewMockEventPublisher(s.ctrl)
	s.locator = mocks.NewMockLocator(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())

	cat, err := catalog.New([]catalog.Country{
		{Name: "Bangladesh", Code: "BD", CallingCode: "+880"},
		{Name: "France", Code: "FR", CallingCode: "+33"},
		{Name: "United States", Code: "US", CallingCode: "+1"},
	}, map[string][]string{
		"BD": {"Asia/Dhaka"},
		"FR": {"Europe/Paris"},
		"US": {"America/New_York", "America/Chicago"},
	})
	s.Require().NoError(err)
	s.catalog = cat

	s.service, err = New(s.drafts, s.registrations, cat,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithEventPublisher(s.publisher),
		WithLocator(s.locator),
		WithDraftTTL(time.Hour),
		WithBcryptCost(bcrypt.MinCost),
	)
	s.Require().NoError(err)

	s.now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), s.now)
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.7", "test-agent")
	s.ctx = requestcontext.WithRequestID(ctx, "req-1")
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

// stored wires drafts.Update to apply the mutation to a copy of d.
func (s *ServiceSuite) stored(d *models.Draft) {
	s.drafts.EXPECT().Update(gomock.Any(), d.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, fn func(*models.Draft) error) (*models.Draft, error) {
			next := d.Clone()
			if err := fn(next); err != nil {
				return nil, err
			}
			return next, nil
		})
}

func (s *ServiceSuite) completeDraft() *models.Draft {
	d := models.NewDraft(uuid.New(), "rahim@example.com", catalog.DefaultLanguage, s.now, time.Hour)
	d.FirstName = "Rahim"
	d.Password = "secret123"
	d.CallingCode = "+880"
	d.Country = "BD"
	d.PhoneNational = "1712345678"
	d.Timezone = "Asia/Dhaka"
	return d
}

func (s *ServiceSuite) TestNew() {
	s.Run("requires a draft store", func() {
		_, err := New(nil, s.registrations, s.catalog)
		s.ErrorContains(err, "draft store is required")
	})

	s.Run("requires a registration store", func() {
		_, err := New(s.drafts, nil, s.catalog)
		s.ErrorContains(err, "registration store is required")
	})

	s.Run("requires a catalog", func() {
		_, err := New(s.drafts, s.registrations, nil)
		s.ErrorContains(err, "catalog is required")
	})
}

func (s *ServiceSuite) TestStartDraft() {
	s.Run("rejects malformed email with a field message", func() {
		_, err := s.service.StartDraft(s.ctx, "rahim@example")
		s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
		de, _ := dErrors.As(err)
		s.Equal(map[string]string{"email": "Email format invalid"}, de.Fields)
	})

	s.Run("rejects an already registered email", func() {
		s.registrations.EXPECT().FindByEmail(gomock.Any(), "rahim@example.com").
			Return(&models.Registration{}, nil)

		_, err := s.service.StartDraft(s.ctx, " rahim@EXAMPLE.com ")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("seeds country from the client address", func() {
		s.registrations.EXPECT().FindByEmail(gomock.Any(), "rahim@example.com").Return(nil, sentinel.ErrNotFound)
		s.locator.EXPECT().CountryCode(gomock.Any(), "203.0.113.7").Return("BD", nil)
		s.drafts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e events.Event) error {
				s.Equal(events.DraftStarted, e.Type)
				s.Equal("BD", e.Country)
				s.Equal("req-1", e.RequestID)
				return nil
			})

		d, err := s.service.StartDraft(s.ctx, "rahim@example.com")
		s.Require().NoError(err)
		s.Equal("rahim@example.com", d.Email)
		s.Equal("BD", d.Country)
		s.Equal("+880", d.CallingCode)
		s.Equal("Asia/Dhaka", d.Timezone)
		s.Equal("English", d.Language)
		s.True(d.Agree)
		s.Empty(d.LastEdited, "seeding is not a user edit")
		s.Equal(s.now.Add(time.Hour), d.ExpiresAt)
	})

	s.Run("locator failure leaves fields unset", func() {
		s.registrations.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		s.locator.EXPECT().CountryCode(gomock.Any(), gomock.Any()).Return("", errors.New("timeout"))
		s.drafts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		d, err := s.service.StartDraft(s.ctx, "rahim@example.com")
		s.Require().NoError(err, "event failures never fail the operation")
		s.Empty(d.Country)
		s.Empty(d.CallingCode)
	})

	s.Equal(2.0, testutil.ToFloat64(s.metrics.DraftsStarted))
}

func (s *ServiceSuite) TestEdits() {
	s.Run("phone prefix derives fields and counts a derivation", func() {
		d := models.NewDraft(uuid.New(), "rahim@example.com", "English", s.now, time.Hour)
		s.stored(d)

		got, ch, err := s.service.EditPhone(s.ctx, d.ID, "+8801712345678")
		s.Require().NoError(err)
		s.Equal("BD", got.Country)
		s.Equal("1712345678", got.PhoneNational)
		s.True(ch.Has(models.FieldTimezone))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Derivations.WithLabelValues("phone")))
	})

	s.Run("country selection resets timezone", func() {
		d := s.completeDraft()
		d.CallingCode, d.Country, d.Timezone = "+1", "US", "America/Chicago"
		s.stored(d)

		got, _, err := s.service.SelectCountry(s.ctx, d.ID, "FR")
		s.Require().NoError(err)
		s.Equal("+33", got.CallingCode)
		s.Equal("Europe/Paris", got.Timezone)
	})

	s.Run("calling code selection picks the country", func() {
		d := s.completeDraft()
		s.stored(d)

		got, ch, err := s.service.SelectCallingCode(s.ctx, d.ID, "+1")
		s.Require().NoError(err)
		s.Equal("US", got.Country)
		s.Equal("America/New_York", got.Timezone)
		s.Equal([]string{"calling_code", "country", "timezone"}, ch.Strings())
	})

	s.Run("timezone and language are plain sets", func() {
		d := s.completeDraft()
		s.stored(d)
		got, _, err := s.service.SelectTimezone(s.ctx, d.ID, "America/Chicago")
		s.Require().NoError(err)
		s.Equal("America/Chicago", got.Timezone)
		s.Equal("BD", got.Country)

		s.stored(d)
		got, _, err = s.service.SelectLanguage(s.ctx, d.ID, "Deutsch")
		s.Require().NoError(err)
		s.Equal("Deutsch", got.Language)
	})

	s.Run("edits slide the expiry window", func() {
		d := s.completeDraft()
		s.stored(d)
		later := requestcontext.WithTime(s.ctx, s.now.Add(20*time.Minute))

		got, _, err := s.service.EditPhone(later, d.ID, "1712345678")
		s.Require().NoError(err)
		s.Equal(s.now.Add(80*time.Minute), got.ExpiresAt)
	})

	s.Run("missing draft is not found", func() {
		s.drafts.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)
		_, _, err := s.service.EditPhone(s.ctx, uuid.New(), "1")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("expired draft is not found", func() {
		s.drafts.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrExpired)
		_, _, err := s.service.SelectCountry(s.ctx, uuid.New(), "FR")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("store failure is internal", func() {
		s.drafts.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
		_, _, err := s.service.SelectCountry(s.ctx, uuid.New(), "FR")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestUpdateProfile() {
	s.Run("empty update is rejected", func() {
		_, _, err := s.service.UpdateProfile(s.ctx, uuid.New(), models.ProfileUpdate{})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("sets provided fields only", func() {
		d := s.completeDraft()
		s.stored(d)
		first, agree := "  Karim ", false

		got, ch, err := s.service.UpdateProfile(s.ctx, d.ID, models.ProfileUpdate{FirstName: &first, Agree: &agree})
		s.Require().NoError(err)
		s.Equal("Karim", got.FirstName)
		s.False(got.Agree)
		s.Equal("secret123", got.Password)
		s.Equal([]string{"first_name", "agree"}, ch.Strings())
	})
}

func (s *ServiceSuite) TestSubmit() {
	s.Run("invalid draft is rejected with every field message", func() {
		d := models.NewDraft(uuid.New(), "rahim@example.com", "English", s.now, time.Hour)
		s.drafts.EXPECT().FindByID(gomock.Any(), d.ID).Return(d, nil)

		_, err := s.service.Submit(s.ctx, d.ID)
		s.Require().True(dErrors.HasCode(err, dErrors.CodeValidation))
		de, _ := dErrors.As(err)
		s.Equal(map[string]string{
			"first_name": "This field is required",
			"password":   "Password is required",
			"phone":      "Mobile number is required",
		}, de.Fields)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("invalid")))
	})

	s.Run("valid draft becomes a registration", func() {
		d := s.completeDraft()
		s.drafts.EXPECT().FindByID(gomock.Any(), d.ID).Return(d, nil)

		var saved *models.Registration
		s.registrations.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *models.Registration) error {
				saved = r
				return nil
			})
		s.drafts.EXPECT().Delete(gomock.Any(), d.ID).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e events.Event) error {
				s.Equal(events.RegistrationCompleted, e.Type)
				s.Equal(saved.ID, e.RegistrationID)
				return nil
			})

		reg, err := s.service.Submit(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Same(saved, reg)
		s.Equal("+8801712345678", reg.Phone)
		s.Equal("Asia/Dhaka", reg.Timezone)
		s.Equal(s.now, reg.CreatedAt)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(reg.PasswordHash), []byte("secret123")))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Submissions.WithLabelValues("ok")))
	})

	s.Run("duplicate email is a conflict and keeps the draft", func() {
		d := s.completeDraft()
		s.drafts.EXPECT().FindByID(gomock.Any(), d.ID).Return(d, nil)
		s.registrations.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Submit(s.ctx, d.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("draft cleanup failure does not fail the submission", func() {
		d := s.completeDraft()
		s.drafts.EXPECT().FindByID(gomock.Any(), d.ID).Return(d, nil)
		s.registrations.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.drafts.EXPECT().Delete(gomock.Any(), d.ID).Return(errors.New("redis down"))
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.Submit(s.ctx, d.ID)
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestDiscard() {
	id := uuid.New()
	s.drafts.EXPECT().Delete(gomock.Any(), id).Return(nil)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e events.Event) error {
			s.Equal(events.DraftDiscarded, e.Type)
			return nil
		})
	s.NoError(s.service.Discard(s.ctx, id))

	s.drafts.EXPECT().Delete(gomock.Any(), id).Return(sentinel.ErrNotFound)
	s.True(dErrors.HasCode(s.service.Discard(s.ctx, id), dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCompleteEmailDomain() {
	got, err := s.service.CompleteEmailDomain("rahim@gm", "gmail.com")
	s.Require().NoError(err)
	s.Equal("rahim@gmail.com", got)

	got, err = s.service.CompleteEmailDomain("rahim", "@icloud.com")
	s.Require().NoError(err)
	s.Equal("rahim@icloud.com", got)

	_, err = s.service.CompleteEmailDomain("rahim", "example.org")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}
