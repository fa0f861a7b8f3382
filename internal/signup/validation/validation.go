// Package validation checks a registration draft at submission time and
// reports every failing field with a user-facing message.
package validation

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"

	"signup/internal/catalog"
	"signup/internal/signup/models"
	"signup/pkg/email"
)

const (
	MsgRequired           = "This field is required"
	MsgEmailInvalid       = "Email format invalid"
	MsgPasswordRequired   = "Password is required"
	MsgPasswordLength     = "At least 8 characters required"
	MsgPasswordDigit      = "Must contain at least 1 number"
	MsgPasswordLetter     = "Must contain at least 1 letter"
	MsgPhoneRequired      = "Mobile number is required"
	MsgPhoneInvalid       = "Invalid mobile number"
	MsgPhoneInvalidRegion = "Invalid mobile number for selected country"
	MsgTimezoneUnknown    = "Unknown time zone"
	MsgLanguageUnknown    = "Unsupported language"
	MsgAgreeRequired      = "Policies must be accepted"

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
	// MaxNameLength bounds first and last names.
	MaxNameLength = 100
)

// FieldErrors maps a field to the first rule it failed.
type FieldErrors map[models.Field]string

// Empty reports whether the draft passed.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

// Map renders the errors with string keys for error envelopes.
func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe))
	for f, msg := range fe {
		out[string(f)] = msg
	}
	return out
}

// Fields lists failing fields in name order, for logs.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Catalog is the reference data consulted for timezone and language checks.
type Catalog interface {
	HasTimezone(name string) bool
	Language(nameOrTag string) (catalog.Language, bool)
}

// Validator checks drafts against the catalog.
type Validator struct {
	catalog Catalog
}

// New creates a validator.
func New(c Catalog) *Validator {
	return &Validator{catalog: c}
}

// Validate runs every rule. Rules follow the order Required -> Syntax ->
// Semantic per field; only the first failure of a field is reported.
func (v *Validator) Validate(d *models.Draft) FieldErrors {
	errs := FieldErrors{}

	switch {
	case strings.TrimSpace(d.Email) == "":
		errs[models.FieldEmail] = MsgRequired
	case !email.Valid(d.Email):
		errs[models.FieldEmail] = MsgEmailInvalid
	}

	switch {
	case strings.TrimSpace(d.FirstName) == "":
		errs[models.FieldFirstName] = MsgRequired
	case utf8.RuneCountInString(d.FirstName) > MaxNameLength:
		errs[models.FieldFirstName] = "Must be at most 100 characters"
	}
	if utf8.RuneCountInString(d.LastName) > MaxNameLength {
		errs[models.FieldLastName] = "Must be at most 100 characters"
	}

	if msg := passwordError(d.Password); msg != "" {
		errs[models.FieldPassword] = msg
	}

	if msg := PhoneError(d.CallingCode, d.PhoneNational); msg != "" {
		errs[models.FieldPhone] = msg
	}

	if d.Timezone != "" && !v.catalog.HasTimezone(d.Timezone) {
		errs[models.FieldTimezone] = MsgTimezoneUnknown
	}
	if d.Language != "" {
		if _, ok := v.catalog.Language(d.Language); !ok {
			errs[models.FieldLanguage] = MsgLanguageUnknown
		}
	}

	if !d.Agree {
		errs[models.FieldAgree] = MsgAgreeRequired
	}
	return errs
}

// PhoneError checks callingCode+national as one international number and
// returns "" when it is valid.
func PhoneError(callingCode, national string) string {
	if strings.TrimSpace(national) == "" {
		return MsgPhoneRequired
	}
	num, err := phonenumbers.Parse(strings.TrimSpace(callingCode+national), "")
	if err != nil {
		return MsgPhoneInvalid
	}
	if !phonenumbers.IsValidNumber(num) {
		return MsgPhoneInvalidRegion
	}
	return ""
}

// E164 formats a number PhoneError accepted, e.g. "+8801712345678".
func E164(callingCode, national string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(callingCode+national), "")
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// PasswordRule is one live password requirement shown while typing.
type PasswordRule struct {
	Label     string `json:"label"`
	Satisfied bool   `json:"satisfied"`
}

// PasswordRules reports each requirement against pw.
func PasswordRules(pw string) []PasswordRule {
	return []PasswordRule{
		{Label: MsgPasswordLength, Satisfied: len([]rune(pw)) >= MinPasswordLength},
		{Label: MsgPasswordDigit, Satisfied: strings.IndexFunc(pw, isASCIIDigit) >= 0},
		{Label: MsgPasswordLetter, Satisfied: strings.IndexFunc(pw, isASCIILetter) >= 0},
	}
}

func passwordError(pw string) string {
	if pw == "" {
		return MsgPasswordRequired
	}
	for _, rule := range PasswordRules(pw) {
		if !rule.Satisfied {
			return rule.Label
		}
	}
	return ""
}

func isASCIIDigit(r rune) bool {
	return r <= unicode.MaxASCII && unicode.IsDigit(r)
}

func isASCIILetter(r rune) bool {
	return r <= unicode.MaxASCII && unicode.IsLetter(r)
}
