//go:build integration

package registration_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"signup/internal/signup/models"
	"signup/internal/signup/store/registration"
	"signup/pkg/platform/sentinel"
	"signup/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *registration.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(registration.Migrate(context.Background(), s.postgres.DB))
	s.store = registration.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "registrations"))
}

func newRegistration(email string) *models.Registration {
	return &models.Registration{
		ID:           uuid.New(),
		DraftID:      uuid.New(),
		Email:        email,
		FirstName:    "Rahim",
		LastName:     "Uddin",
		PasswordHash: "$2a$10$hash",
		Phone:        "+8801712345678",
		CallingCode:  "+880",
		Country:      "BD",
		Timezone:     "Asia/Dhaka",
		Language:     "English",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	r := newRegistration("rahim@example.com")
	s.Require().NoError(s.store.Create(ctx, r))

	found, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.Email, found.Email)
	s.Equal(r.Timezone, found.Timezone)
	s.True(r.CreatedAt.Equal(found.CreatedAt))

	byEmail, err := s.store.FindByEmail(ctx, "RAHIM@example.com")
	s.Require().NoError(err)
	s.Equal(r.ID, byEmail.ID)

	_, err = s.store.FindByID(ctx, uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentDuplicateEmail verifies exactly one of many concurrent
// submissions for the same address is stored.
func (s *PostgresStoreSuite) TestConcurrentDuplicateEmail() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var created, conflicts atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newRegistration("dup@example.com"))
			switch {
			case err == nil:
				created.Add(1)
			case err == sentinel.ErrConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}
