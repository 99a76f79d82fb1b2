// internal/form/renderer.go
//
// Feedback Desk – Forms subsystem: HTML renderer.
//
// Context
//   Given a controller State this file converts the feedback form into safe,
//   accessible HTML markup.  Inputs carry HTML5 hints that mirror the server
//   rules (required, minlength, maxlength) so browsers can warn early, but
//   the server-side Validate remains authoritative.
//
// Workflow
//   •  RenderFields writes each field via writeField, in display order.
//   •  Current values are echoed back and escaped.
//   •  Every field gets an error span.  It is always rendered so the layout
//      does not jump; the "visible" class toggles when a message is present.
//   •  The CSRF token is embedded as a hidden <input>.
//   •  The caller receives template.HTML so the surrounding template does not
//      double-escape the markup.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
	"html/template"
	"strconv"

	"github.com/yanizio/feedback/internal/feedback"
)

// fieldSpec holds the presentational attributes of one input.
type fieldSpec struct {
	Field       feedback.Field
	Label       string
	Type        string // "text", "email", or "textarea"
	Placeholder string
	MinLength   int
	MaxLength   int
}

var specs = []fieldSpec{
	{feedback.FieldName, "Name", "text", "Enter your full name", 2, 100},
	{feedback.FieldEmail, "Email", "email", "Enter your email address", 0, 255},
	{feedback.FieldMessage, "Message", "textarea",
		"Please share your feedback, suggestions, or comments...", 10, 1000},
}

// RenderFields returns the markup for all inputs plus the hidden CSRF token.
func RenderFields(s State, csrfToken string) template.HTML {
	var buf bytes.Buffer
	for i := range specs {
		f := &specs[i]
		writeField(&buf, f, s.Data.Get(f.Field), s.ErrorFor(string(f.Field)))
	}
	buf.WriteString(`<input type="hidden" name="csrf_token" value="` + html.EscapeString(csrfToken) + `">` + "\n")
	return template.HTML(buf.String())
}

// writeField emits one <div class="form-group"> block.
func writeField(buf *bytes.Buffer, f *fieldSpec, val, errMsg string) {
	name := html.EscapeString(string(f.Field))

	buf.WriteString(`<div class="form-group">` + "\n")
	buf.WriteString(`<label for="` + name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	attrs := ` id="` + name + `" name="` + name + `" required`
	if f.MinLength > 0 {
		attrs += ` minlength="` + strconv.Itoa(f.MinLength) + `"`
	}
	if f.MaxLength > 0 {
		attrs += ` maxlength="` + strconv.Itoa(f.MaxLength) + `"`
	}
	if f.Placeholder != "" {
		attrs += ` placeholder="` + html.EscapeString(f.Placeholder) + `"`
	}
	if errMsg != "" {
		attrs += ` class="error" aria-invalid="true" aria-describedby="` + name + `-error"`
	}

	switch f.Type {
	case "textarea":
		buf.WriteString(`<textarea` + attrs + `>` + html.EscapeString(val) + `</textarea>` + "\n")
	default:
		buf.WriteString(`<input type="` + f.Type + `"` + attrs + ` value="` + html.EscapeString(val) + `">` + "\n")
	}

	visibility := "hidden"
	if errMsg != "" {
		visibility = "visible"
	}
	buf.WriteString(`<span id="` + name + `-error" class="error-message ` + visibility +
		`" aria-live="polite">` + html.EscapeString(errMsg) + `</span>` + "\n")

	buf.WriteString(`</div>` + "\n")
}
