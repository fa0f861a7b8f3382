package draft

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"signup/internal/signup/models"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

type InMemoryDraftStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemoryDraftStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryDraftStoreSuite))
}

func (s *InMemoryDraftStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *InMemoryDraftStoreSuite) newDraft() *models.Draft {
	return models.NewDraft(uuid.New(), "rahim@example.com", "English", s.now, 30*time.Minute)
}

func (s *InMemoryDraftStoreSuite) TestCreateAndFind() {
	s.Run("round trips a draft", func() {
		d := s.newDraft()
		s.Require().NoError(s.store.Create(s.ctx, d))

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal(d, found)
	})

	s.Run("rejects duplicate ID", func() {
		d := s.newDraft()
		s.Require().NoError(s.store.Create(s.ctx, d))
		s.ErrorIs(s.store.Create(s.ctx, d), sentinel.ErrConflict)
	})

	s.Run("unknown ID is not found", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned drafts are copies", func() {
		d := s.newDraft()
		s.Require().NoError(s.store.Create(s.ctx, d))
		d.Country = "BD"

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Empty(found.Country)
	})
}

func (s *InMemoryDraftStoreSuite) TestExpiry() {
	d := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, d))

	later := requestcontext.WithTime(context.Background(), s.now.Add(31*time.Minute))
	_, err := s.store.FindByID(later, d.ID)
	s.ErrorIs(err, sentinel.ErrExpired)

	_, err = s.store.FindByID(later, d.ID)
	s.ErrorIs(err, sentinel.ErrNotFound, "expired drafts are evicted")
}

func (s *InMemoryDraftStoreSuite) TestRemoveExpiredAt() {
	for range 1000 {
		s.Require().NoError(s.store.Create(s.ctx, s.newDraft()))
	}
	s.now = s.now.Add(20 * time.Minute)
	live := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, live))

	removed := s.store.RemoveExpiredAt(s.now.Add(15 * time.Minute))
	s.Equal(1000, removed)
	s.Len(s.store.drafts, 1)

	_, err := s.store.FindByID(requestcontext.WithTime(context.Background(), s.now), live.ID)
	s.NoError(err)
}

func (s *InMemoryDraftStoreSuite) TestStartCleanupStopsOnCancel() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.store.StartCleanup(ctx, time.Millisecond) }()

	expired := models.NewDraft(uuid.New(), "old@example.com", "English", time.Now().Add(-time.Hour), time.Minute)
	s.Require().NoError(s.store.Create(s.ctx, expired))
	s.Eventually(func() bool {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
		return len(s.store.drafts) == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	s.ErrorIs(<-done, context.Canceled)
}

func (s *InMemoryDraftStoreSuite) TestUpdate() {
	s.Run("saves the mutated copy", func() {
		d := s.newDraft()
		s.Require().NoError(s.store.Create(s.ctx, d))

		updated, err := s.store.Update(s.ctx, d.ID, func(d *models.Draft) error {
			d.Country = "FR"
			return nil
		})
		s.Require().NoError(err)
		s.Equal("FR", updated.Country)

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal("FR", found.Country)
	})

	s.Run("failed mutation leaves the draft untouched", func() {
		d := s.newDraft()
		s.Require().NoError(s.store.Create(s.ctx, d))

		boom := errors.New("boom")
		_, err := s.store.Update(s.ctx, d.ID, func(d *models.Draft) error {
			d.Country = "FR"
			return boom
		})
		s.ErrorIs(err, boom)

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Empty(found.Country)
	})

	s.Run("unknown ID is not found", func() {
		_, err := s.store.Update(s.ctx, uuid.New(), func(*models.Draft) error { return nil })
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("concurrent updates are serialized", func() {
		d := s.newDraft()
		s.Require().NoError(s.store.Create(s.ctx, d))

		const writers = 50
		var wg sync.WaitGroup
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.store.Update(s.ctx, d.ID, func(d *models.Draft) error {
					d.PhoneNational += "1"
					return nil
				})
				s.NoError(err)
			}()
		}
		wg.Wait()

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Len(found.PhoneNational, writers)
	})
}

func (s *InMemoryDraftStoreSuite) TestDelete() {
	d := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, d))
	s.Require().NoError(s.store.Delete(s.ctx, d.ID))

	_, err := s.store.FindByID(s.ctx, d.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, d.ID), sentinel.ErrNotFound)
}
