// Package schema defines the ordered candidate field schema and the
// validation rules applied to raw chat input before it enters the profile.
package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field keys used in the candidate profile.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldExperience = "experience"
	FieldPosition   = "position"
	FieldLocation   = "location"
	FieldTechStack  = "tech_stack"
)

// Field describes one required candidate field: its profile key, a human
// label for summaries and archives, the validator rule, and the reason shown
// to the candidate when input is rejected.
type Field struct {
	Key    string
	Label  string
	Rule   string
	Reject string
}

// fields is the canonical ordered schema. The collection cursor walks this
// slice front to back and never revisits an entry.
var fields = []Field{
	{
		Key:    FieldName,
		Label:  "Full Name",
		Rule:   "required",
		Reject: "I didn't catch a name there. Could you share your full name?",
	},
	{
		Key:    FieldEmail,
		Label:  "Email Address",
		Rule:   "required,email",
		Reject: "That doesn't look like a valid email address. Could you double-check it? (e.g. you@example.com)",
	},
	{
		Key:    FieldPhone,
		Label:  "Phone Number",
		Rule:   "required,phone",
		Reject: "That doesn't look like a phone number I can use. Please provide digits, optionally with spaces, dashes, or a leading +.",
	},
	{
		Key:    FieldExperience,
		Label:  "Years of Experience",
		Rule:   "required,experience",
		Reject: "Please give your experience as a number of years, like 3 or 0.5.",
	},
	{
		Key:    FieldPosition,
		Label:  "Desired Position",
		Rule:   "required",
		Reject: "Could you tell me which position or area you're interested in?",
	},
	{
		Key:    FieldLocation,
		Label:  "Current Location",
		Rule:   "required",
		Reject: "Could you tell me where you're currently located?",
	},
	{
		Key:    FieldTechStack,
		Label:  "Tech Stack",
		Rule:   "required",
		Reject: "Please list at least one language, framework, or tool you work with.",
	},
}

// Fields returns a copy of the ordered field schema.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Count returns the number of fields in the schema.
func Count() int {
	return len(fields)
}

// ByKey looks up a field definition by its profile key.
func ByKey(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// ValidationError reports a rejected input together with the
// candidate-facing reason used for the re-prompt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// validate is the shared validator instance with the custom phone and
// experience rules registered.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("phone", validPhone); err != nil {
		panic(fmt.Sprintf("failed to register phone rule: %v", err))
	}
	if err := v.RegisterValidation("experience", validExperience); err != nil {
		panic(fmt.Sprintf("failed to register experience rule: %v", err))
	}
	return v
}

// Validate checks raw input against the named field's rule.
// It returns the normalized (trimmed) value on success, or a
// *ValidationError on rejection. Pure: no state is touched either way.
func Validate(fieldKey, raw string) (string, error) {
	field, ok := ByKey(fieldKey)
	if !ok {
		return "", fmt.Errorf("unknown field: %s", fieldKey)
	}

	normalized := strings.TrimSpace(raw)
	if err := validate.Var(normalized, field.Rule); err != nil {
		return "", &ValidationError{Field: field.Key, Reason: field.Reject}
	}

	return normalized, nil
}

// validPhone accepts digits with common separators, 7 to 15 digits total.
func validPhone(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.' || r == '+':
			// allowed separator
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

// validExperience accepts any non-negative number of years.
func validExperience(fl validator.FieldLevel) bool {
	years, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && years >= 0
}
