package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration is a submitted account. PasswordHash is a bcrypt hash; the
// plaintext never leaves the draft.
type Registration struct {
	ID           uuid.UUID `json:"id"`
	DraftID      uuid.UUID `json:"draft_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	CallingCode  string    `json:"calling_code"`
	Country      string    `json:"country"`
	Timezone     string    `json:"timezone"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileUpdate carries the plain form fields; nil means "leave as is".
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
	Agree     *bool
}

// Empty reports whether the update touches nothing.
func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Password == nil && u.Agree == nil
}
