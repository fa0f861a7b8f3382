// Package draft stores registration drafts for the lifetime of a sign-up
// session.
package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"signup/internal/signup/models"
	"signup/pkg/platform/sentinel"
	"signup/pkg/requestcontext"
)

// UpdateFunc mutates a draft inside an atomic read-modify-write. Returning an
// error aborts the write.
type UpdateFunc = func(d *models.Draft) error

// InMemory keeps drafts in a map. Expired drafts are reported as
// sentinel.ErrExpired on first access and then dropped; StartCleanup removes
// the ones nobody reads again.
type InMemory struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*models.Draft
}

// NewInMemory creates an empty in-memory draft store.
func NewInMemory() *InMemory {
	return &InMemory{drafts: make(map[uuid.UUID]*models.Draft)}
}

func (s *InMemory) Create(_ context.Context, d *models.Draft) error {
	if d == nil {
		return fmt.Errorf("draft is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.drafts[d.ID]; exists {
		return sentinel.ErrConflict
	}
	s.drafts[d.ID] = d.Clone()
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.live(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Clone(), nil
}

// Update applies fn to a copy of the stored draft and saves the copy only if
// fn succeeds.
func (s *InMemory) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.live(ctx, id)
	if err != nil {
		return nil, err
	}
	next := d.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.drafts[id] = next
	return next.Clone(), nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.drafts, id)
	return nil
}

// live returns the stored draft, evicting it when expired. Must be called
// with s.mu held.
func (s *InMemory) live(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, ok := s.drafts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if d.IsExpired(requestcontext.Now(ctx)) {
		delete(s.drafts, id)
		return nil, sentinel.ErrExpired
	}
	return d, nil
}

// StartCleanup removes expired drafts every interval until ctx is cancelled.
func (s *InMemory) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RemoveExpiredAt(time.Now())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RemoveExpiredAt drops every draft expired as of now and reports how many
// were removed.
func (s *InMemory) RemoveExpiredAt(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, d := range s.drafts {
		if d.IsExpired(now) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}
