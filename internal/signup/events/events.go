// Package events publishes sign-up lifecycle events for downstream consumers.
// Emission is best effort: publishers report errors, and the service logs
// them without failing the sign-up.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a lifecycle event.
type Type string

const (
	DraftStarted          Type = "draft_started"
	DraftDiscarded        Type = "draft_discarded"
	RegistrationCompleted Type = "registration_completed"
)

// Event is one lifecycle fact. RegistrationID is set only on completion.
type Event struct {
	Type           Type      `json:"type"`
	DraftID        uuid.UUID `json:"draft_id"`
	RegistrationID uuid.UUID `json:"registration_id,omitzero"`
	Email          string    `json:"email,omitempty"`
	Country        string    `json:"country,omitempty"`
	RequestID      string    `json:"request_id,omitempty"`
	Device         string    `json:"device,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// LogPublisher writes events to a structured logger. It is the fallback
// when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs at info level.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, e Event) error {
	p.logger.InfoContext(ctx, "signup event",
		"type", string(e.Type),
		"draft_id", e.DraftID.String(),
		"registration_id", e.RegistrationID.String(),
		"country", e.Country,
		"request_id", e.RequestID,
		"device", e.Device,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// Recorder keeps emitted events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns what has been emitted so far, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists emitted event types in order.
func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *Recorder) Close() error {
	return nil
}
