// Package registration persists submitted registrations.
package registration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"signup/internal/signup/models"
	"signup/pkg/platform/sentinel"
)

// InMemory stores registrations in maps keyed by ID and lower-cased email.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.Registration
	byEmail map[string]uuid.UUID
}

// NewInMemory creates an empty registration store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[uuid.UUID]*models.Registration),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create saves r. A second registration for the same email (case-insensitive)
// fails with sentinel.ErrConflict.
func (s *InMemory) Create(_ context.Context, r *models.Registration) error {
	if r == nil {
		return fmt.Errorf("registration is required")
	}
	key := strings.ToLower(r.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[key]; taken {
		return sentinel.ErrConflict
	}
	if _, taken := s.byID[r.ID]; taken {
		return sentinel.ErrConflict
	}
	cp := *r
	s.byID[r.ID] = &cp
	s.byEmail[key] = r.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*models.Registration, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, id)
}
