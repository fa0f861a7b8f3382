package handler

import (
	"strings"

	"signup/internal/signup/models"
	"signup/internal/signup/validation"
	dErrors "signup/pkg/domain-errors"
)

type StartDraftRequest struct {
	Email string `json:"email"`
}

func (r *StartDraftRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *StartDraftRequest) Validate() error {
	if r.Email == "" {
		return required(models.FieldEmail)
	}
	return nil
}

// CompleteEmailRequest applies one of the suggested domains to a partly typed
// address.
type CompleteEmailRequest struct {
	Current string `json:"current"`
	Domain  string `json:"domain"`
}

func (r *CompleteEmailRequest) Normalize() {
	r.Current = strings.TrimSpace(r.Current)
	r.Domain = strings.ToLower(strings.TrimSpace(r.Domain))
}

func (r *CompleteEmailRequest) Validate() error {
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeBadRequest, "domain is required")
	}
	return nil
}

// PhoneRequest carries the raw text of the phone input. Empty text clears
// the national number.
type PhoneRequest struct {
	Text string `json:"text"`
}

type CountryRequest struct {
	Country string `json:"country"`
}

func (r *CountryRequest) Normalize() {
	r.Country = strings.ToUpper(strings.TrimSpace(r.Country))
}

func (r *CountryRequest) Validate() error {
	if r.Country == "" {
		return required(models.FieldCountry)
	}
	return nil
}

type CallingCodeRequest struct {
	CallingCode string `json:"calling_code"`
}

func (r *CallingCodeRequest) Normalize() {
	r.CallingCode = strings.TrimSpace(r.CallingCode)
	if r.CallingCode != "" && !strings.HasPrefix(r.CallingCode, "+") {
		r.CallingCode = "+" + r.CallingCode
	}
}

func (r *CallingCodeRequest) Validate() error {
	if r.CallingCode == "" {
		return required(models.FieldCallingCode)
	}
	return nil
}

type TimezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (r *TimezoneRequest) Normalize() {
	r.Timezone = strings.TrimSpace(r.Timezone)
}

func (r *TimezoneRequest) Validate() error {
	if r.Timezone == "" {
		return required(models.FieldTimezone)
	}
	return nil
}

type LanguageRequest struct {
	Language string `json:"language"`
}

func (r *LanguageRequest) Normalize() {
	r.Language = strings.TrimSpace(r.Language)
}

func (r *LanguageRequest) Validate() error {
	if r.Language == "" {
		return required(models.FieldLanguage)
	}
	return nil
}

// ProfileRequest is a partial update; absent fields are left untouched.
type ProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
	Agree     *bool   `json:"agree"`
}

func (r *ProfileRequest) Validate() error {
	if r.FirstName == nil && r.LastName == nil && r.Password == nil && r.Agree == nil {
		return dErrors.New(dErrors.CodeBadRequest, "no fields to update")
	}
	return nil
}

func (r *ProfileRequest) Update() models.ProfileUpdate {
	return models.ProfileUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
		Agree:     r.Agree,
	}
}

func required(f models.Field) error {
	return dErrors.New(dErrors.CodeValidation, string(f)+" is required").
		WithFields(map[string]string{string(f): validation.MsgRequired})
}
