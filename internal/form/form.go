// Package form holds the contact form field rules and the per-field
// blur/input validation state.
package form

import (
	"regexp"
	"strings"
)

// Kind selects which shape rules apply to a field value.
type Kind int

const (
	Text Kind = iota
	Email
)

func (k Kind) String() string {
	if k == Email {
		return "email"
	}
	return "text"
}

// Messages shown next to an invalid field.
const (
	MsgRequired  = "This field is required"
	MsgEmail     = "Please enter a valid email address"
	MsgFixErrors = "Please fix the errors above"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field is a single form input.
type Field struct {
	Name     string
	Value    string
	Required bool
	Kind     Kind
}

// Result is the outcome of validating one field. Message is empty when
// Valid is true.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Validate applies the rules in order to the trimmed value; the first
// failing rule wins.
func Validate(f Field) Result {
	v := strings.TrimSpace(f.Value)
	if f.Required && v == "" {
		return Result{Message: MsgRequired}
	}
	if f.Kind == Email && v != "" && !emailPattern.MatchString(v) {
		return Result{Message: MsgEmail}
	}
	return Result{Valid: true}
}

// FieldState tracks the visible error indicator for a field across
// blur and input events.
type FieldState struct {
	Field Field
	err   string
}

// Blur validates the current value and stores the error, if any.
func (s *FieldState) Blur() Result {
	r := Validate(s.Field)
	s.err = r.Message
	return r
}

// Input replaces the value and clears any visible error. The field is not
// re-validated until the next Blur.
func (s *FieldState) Input(value string) {
	s.Field.Value = value
	s.err = ""
}

// Error returns the error currently shown for the field.
func (s *FieldState) Error() string { return s.err }
