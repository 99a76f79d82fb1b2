// internal/form/validate.go
//
// Feedback Desk – Forms subsystem: field validation.
//
// Context
//   Every change to the feedback form re-derives the complete error map from
//   the current values.  Validate is a pure function: no state, no timers, no
//   knowledge of the controller that calls it.  The same rules run whether the
//   caller is the HTML form, the JSON binding, or a test.
//
// Workflow
//   •  Each field owns an ordered rule list.  A rule is a validator tag plus
//      the message shown when that tag fails.
//   •  Rules run one at a time through a shared *validator.Validate.  The
//      first failure wins; later rules for that field are skipped.
//   •  A field with no failure gets no entry in Errors, never "".
//
// Notes
//   Lengths are counted in Unicode code points, which is what validator's
//   min and max tags measure on strings.
//
//------------------------------------------------------------------------------

package form

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/feedback/internal/feedback"
)

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// Errors maps a field to its current message.  A missing key means the field
// is valid.
type Errors map[feedback.Field]string

// Get returns the message for f, if any.
func (e Errors) Get(f feedback.Field) (string, bool) {
	msg, ok := e[f]
	return msg, ok
}

// Clone returns an independent copy.  A nil map clones to an empty one.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// List flattens the map into ErrorFields in form display order.
func (e Errors) List() []ErrorField {
	out := make([]ErrorField, 0, len(e))
	for _, f := range feedback.Fields {
		if msg, ok := e[f]; ok {
			out = append(out, ErrorField{Name: string(f), Message: msg})
		}
	}
	return out
}

// ErrorField describes a single validation failure so the template can render
// a field-level message.
type ErrorField struct {
	Name    string `json:"field"`   // field name
	Message string `json:"message"` // user-facing message
}

// -----------------------------------------------------------------------------
// Rules
// -----------------------------------------------------------------------------

type rule struct {
	tag string
	msg string
}

// emailPattern: no whitespace, exactly one “@”, and a dot somewhere after it.
// RE2's \s is ASCII only, so the Unicode space classes are excluded
// explicitly.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

var rules = map[feedback.Field][]rule{
	feedback.FieldName: {
		{"notblank", "Name is required"},
		{"min=2", "Name must be at least 2 characters"},
		{"max=100", "Name must not exceed 100 characters"},
	},
	feedback.FieldEmail: {
		{"notblank", "Email is required"},
		{"feedback_email", "Please enter a valid email address"},
		{"max=255", "Email must not exceed 255 characters"},
	},
	feedback.FieldMessage: {
		{"notblank", "Message is required"},
		{"min=10", "Message must be at least 10 characters"},
		{"max=1000", "Message must not exceed 1000 characters"},
	},
}

// v is shared by every Validate call.  validator.Validate caches parsed tags
// and is safe for concurrent use.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	if err := val.RegisterValidation("notblank", notBlank); err != nil {
		panic("form: register notblank: " + err.Error())
	}
	if err := val.RegisterValidation("feedback_email", validEmail); err != nil {
		panic("form: register feedback_email: " + err.Error())
	}
	return val
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimFunc(fl.Field().String(), isBlank) != ""
}

// isBlank is unicode.IsSpace without NEL, plus the byte order mark.
func isBlank(r rune) bool {
	return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
}

func validEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(fl.Field().String())
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate derives the full error map for d.  The result is never nil.
func Validate(d feedback.FormData) Errors {
	errs := make(Errors)
	for _, f := range feedback.Fields {
		if msg := validateField(f, d.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

func validateField(f feedback.Field, value string) string {
	for _, r := range rules[f] {
		if err := v.Var(value, r.tag); err != nil {
			return r.msg
		}
	}
	return ""
}

// fieldNames returns the failing field names sorted, for log lines.
func (e Errors) fieldNames() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}
