// internal/feedback/feedback.go
//
// Feedback Desk – shared data model.
//
// Context
//   These types describe one feedback entry as it moves through the system:
//   FormData while a visitor is typing, Request on the wire to the feedback
//   API, Response when the API accepts it, and Item when the list page reads
//   entries back.  The structs are inert values and safe to copy, log, or
//   JSON-encode.
//
//------------------------------------------------------------------------------

package feedback

import (
	"fmt"
	"time"
)

// Field names one input of the feedback form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ParseField maps a posted input name onto a Field.  ok is false for names the
// form does not own.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldName, FieldEmail, FieldMessage:
		return Field(s), true
	default:
		return "", false
	}
}

// FormData holds the current values of the three form inputs.
type FormData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Get returns the value of f.  Unknown fields read as "".
func (d FormData) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldMessage:
		return d.Message
	default:
		return ""
	}
}

// Set stores v under f and reports whether f was recognised.
func (d *FormData) Set(f Field, v string) bool {
	switch f {
	case FieldName:
		d.Name = v
	case FieldEmail:
		d.Email = v
	case FieldMessage:
		d.Message = v
	default:
		return false
	}
	return true
}

// Request is the submission body POSTed to the feedback API.  It carries the
// same three fields as FormData.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// NewRequest converts validated form data into its wire shape.
func NewRequest(d FormData) Request {
	return Request{Name: d.Name, Email: d.Email, Message: d.Message}
}

// Response is the API's acknowledgement of a stored entry.
type Response struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Item is one entry as returned by the list endpoint.  CreatedAt is kept in
// its wire form; call CreatedTime to parse it.
type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// createdLayouts are tried in order.  The API emits local date-times without
// a zone ("2024-01-15T10:30:00"); zoned RFC 3339 is accepted as well.
var createdLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// CreatedTime parses CreatedAt.  Zone-less values are read as UTC.
func (it Item) CreatedTime() (time.Time, error) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, it.CreatedAt); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("feedback %d: unparseable createdAt %q", it.ID, it.CreatedAt)
}
