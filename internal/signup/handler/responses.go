package handler

import (
	"time"

	"github.com/google/uuid"

	"signup/internal/catalog"
	"signup/internal/signup/models"
	"signup/internal/signup/validation"
)

// DraftResponse is the form state sent back after every edit. The password
// itself is never echoed; only whether one is set and how it scores.
type DraftResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Email         string                    `json:"email"`
	FirstName     string                    `json:"first_name"`
	LastName      string                    `json:"last_name"`
	PasswordSet   bool                      `json:"password_set"`
	PasswordRules []validation.PasswordRule `json:"password_rules"`
	Phone         string                    `json:"phone"`
	CallingCode   string                    `json:"calling_code"`
	Country       string                    `json:"country"`
	Timezone      string                    `json:"timezone"`
	Language      string                    `json:"language"`
	Agree         bool                      `json:"agree"`
	LastEdited    string                    `json:"last_edited,omitempty"`
	ExpiresAt     time.Time                 `json:"expires_at"`
	Changed       []string                  `json:"changed,omitempty"`
}

func toDraftResponse(d *models.Draft, ch models.Change) DraftResponse {
	return DraftResponse{
		ID:            d.ID,
		Email:         d.Email,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		PasswordSet:   d.Password != "",
		PasswordRules: validation.PasswordRules(d.Password),
		Phone:         d.PhoneNational,
		CallingCode:   d.CallingCode,
		Country:       d.Country,
		Timezone:      d.Timezone,
		Language:      d.Language,
		Agree:         d.Agree,
		LastEdited:    string(d.LastEdited),
		ExpiresAt:     d.ExpiresAt,
		Changed:       ch.Strings(),
	}
}

type RegistrationResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Country   string    `json:"country"`
	Timezone  string    `json:"timezone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func toRegistrationResponse(r *models.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Country:   r.Country,
		Timezone:  r.Timezone,
		Language:  r.Language,
		CreatedAt: r.CreatedAt,
	}
}

type EmailResponse struct {
	Email string `json:"email"`
}

type DomainsResponse struct {
	Domains []string `json:"domains"`
}

type CountriesResponse struct {
	Countries []catalog.Country `json:"countries"`
}

type TimezonesResponse struct {
	Timezones []catalog.Timezone `json:"timezones"`
}

type LanguagesResponse struct {
	Languages []catalog.Language `json:"languages"`
}
