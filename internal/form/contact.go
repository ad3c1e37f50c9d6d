package form

import (
	"fmt"
	"sort"
	"strings"
)

// Contact form field names, matching the HTML input names.
const (
	FieldName    = "fullName"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// ContactForm is the portfolio contact form.
type ContactForm struct {
	Name    string `form:"fullName" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

// Fields returns the form as rule-carrying fields in display order.
func (c ContactForm) Fields() []Field {
	return []Field{
		{Name: FieldName, Value: c.Name, Required: true},
		{Name: FieldEmail, Value: c.Email, Required: true, Kind: Email},
		{Name: FieldSubject, Value: c.Subject},
		{Name: FieldMessage, Value: c.Message, Required: true},
	}
}

// Field looks up a single field by its input name.
func (c ContactForm) Field(name string) (Field, bool) {
	for _, f := range c.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ValidateAll validates every field. The returned map only holds invalid
// fields; an empty map means the form can be submitted.
func (c ContactForm) ValidateAll() map[string]Result {
	out := make(map[string]Result)
	for _, f := range c.Fields() {
		if r := Validate(f); !r.Valid {
			out[f.Name] = r
		}
	}
	return out
}

// ValidationError carries the invalid fields of a rejected form.
type ValidationError struct {
	Fields map[string]Result
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return fmt.Sprintf("form: invalid fields: %s", strings.Join(names, ", "))
}
