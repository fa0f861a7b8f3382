package models

import (
	"time"

	"github.com/google/uuid"
)

// Field names a draft field. The values double as JSON keys in responses and
// validation error maps.
type Field string

const (
	FieldEmail       Field = "email"
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldPassword    Field = "password"
	FieldPhone       Field = "phone"
	FieldCallingCode Field = "calling_code"
	FieldCountry     Field = "country"
	FieldTimezone    Field = "timezone"
	FieldLanguage    Field = "language"
	FieldAgree       Field = "agree"
)

// Draft is the in-progress registration owned by a single sign-up session.
//
// Invariants (maintained by fieldsync.Synchronizer):
//   - When CallingCode and Country are both set, Country's calling code equals
//     CallingCode, except while typed phone text has not resolved to a prefix.
//   - An auto-derived Timezone belongs to Country's zone list; a still-valid
//     user choice is never replaced by automatic derivation.
//   - Explicit country selection always resets CallingCode and Timezone.
//
// Empty strings mean "unset". Password is plaintext until submission and is
// never serialized; stores that persist drafts outside the process seal it.
type Draft struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Password      string    `json:"-"`
	PhoneNational string    `json:"phone_national"`
	CallingCode   string    `json:"calling_code"`
	Country       string    `json:"country"`
	Timezone      string    `json:"timezone"`
	Language      string    `json:"language"`
	Agree         bool      `json:"agree"`
	// LastEdited records which of phone, country or calling_code the user
	// touched most recently.
	LastEdited Field     `json:"last_edited,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// NewDraft starts an empty draft for a captured email.
func NewDraft(id uuid.UUID, email, language string, now time.Time, ttl time.Duration) *Draft {
	return &Draft{
		ID:        id,
		Email:     email,
		Language:  language,
		Agree:     true,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the draft outlived its TTL at now.
func (d *Draft) IsExpired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && !now.Before(d.ExpiresAt)
}

// FullPhone is the international number as submitted: calling code followed
// by the national part.
func (d *Draft) FullPhone() string {
	return d.CallingCode + d.PhoneNational
}

// Touch bumps UpdatedAt and slides the expiry window forward.
func (d *Draft) Touch(now time.Time, ttl time.Duration) {
	d.UpdatedAt = now
	d.ExpiresAt = now.Add(ttl)
}

// Clone returns a copy that shares nothing mutable with d.
func (d *Draft) Clone() *Draft {
	cp := *d
	return &cp
}
