package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yanizio/feedback/internal/feedback"
)

func validData() feedback.FormData {
	return feedback.FormData{
		Name:    "John Doe",
		Email:   "john@example.com",
		Message: "This is a valid feedback message.",
	}
}

func TestValidate_ValidData(t *testing.T) {
	errs := Validate(validData())
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidate_FieldRules(t *testing.T) {
	tests := []struct {
		name  string
		field feedback.Field
		value string
		want  string
	}{
		{"name empty", feedback.FieldName, "", "Name is required"},
		{"name whitespace", feedback.FieldName, "   \t", "Name is required"},
		{"name short", feedback.FieldName, "A", "Name must be at least 2 characters"},
		{"name padded short", feedback.FieldName, " A", ""},
		{"name min", feedback.FieldName, "Al", ""},
		{"name max", feedback.FieldName, strings.Repeat("A", 100), ""},
		{"name long", feedback.FieldName, strings.Repeat("A", 101), "Name must not exceed 100 characters"},
		{"name multibyte", feedback.FieldName, strings.Repeat("é", 100), ""},

		{"email empty", feedback.FieldEmail, "", "Email is required"},
		{"email whitespace", feedback.FieldEmail, "  ", "Email is required"},
		{"email no at", feedback.FieldEmail, "invalid-email", "Please enter a valid email address"},
		{"email no dot", feedback.FieldEmail, "john@example", "Please enter a valid email address"},
		{"email two ats", feedback.FieldEmail, "a@b@c.com", "Please enter a valid email address"},
		{"email space", feedback.FieldEmail, "jo hn@example.com", "Please enter a valid email address"},
		{"email no local", feedback.FieldEmail, "@example.com", "Please enter a valid email address"},
		{"email trailing dot", feedback.FieldEmail, "john@example.", "Please enter a valid email address"},
		{"email ok", feedback.FieldEmail, "john@example.com", ""},
		{"email subdomain", feedback.FieldEmail, "j.d@mail.example.co.uk", ""},
		{"email long", feedback.FieldEmail, strings.Repeat("a", 250) + "@example.com", "Email must not exceed 255 characters"},

		{"message empty", feedback.FieldMessage, "", "Message is required"},
		{"message whitespace", feedback.FieldMessage, "\n\n", "Message is required"},
		{"message short", feedback.FieldMessage, "Too short", "Message must be at least 10 characters"},
		{"message min", feedback.FieldMessage, "0123456789", ""},
		{"message max", feedback.FieldMessage, strings.Repeat("m", 1000), ""},
		{"message long", feedback.FieldMessage, strings.Repeat("m", 1001), "Message must not exceed 1000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validData()
			d.Set(tt.field, tt.value)

			errs := Validate(d)
			got, ok := errs.Get(tt.field)
			if tt.want == "" {
				assert.False(t, ok, "unexpected error %q", got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			// Other fields stay valid.
			assert.LessOrEqual(t, len(errs), 1)
			assert.Equal(t, tt.want, validateField(tt.field, tt.value))
		})
	}
}

func TestValidate_NameLengthsInRangeNeverError(t *testing.T) {
	for n := 2; n <= 100; n++ {
		d := validData()
		d.Name = strings.Repeat("x", n)
		_, ok := Validate(d).Get(feedback.FieldName)
		assert.False(t, ok, "length %d", n)
	}
}

func TestValidate_PatternRejectionIsTotal(t *testing.T) {
	bad := []string{
		"plainaddress", "a@b", "a b@c.d", "a@b c.d", "a@@b.c", "a@.", "@.", "a.b.c",
		"user@domain", "user@ domain.com", "üser@domain",
		"john\vdoe@example.com", "john\u00a0doe@example.com", "john\u3000doe@example.com",
		"john@example.com\u2028x", "john\u2003doe@example.com", "\uFEFFjohn@example.com",
	}
	for _, email := range bad {
		assert.False(t, emailPattern.MatchString(email), "pattern accepted %q", email)
		d := validData()
		d.Email = email
		got, _ := Validate(d).Get(feedback.FieldEmail)
		assert.Equal(t, "Please enter a valid email address", got, "email %q", email)
	}
}

func TestValidate_AllFieldsEmpty(t *testing.T) {
	errs := Validate(feedback.FormData{})
	assert.Equal(t, Errors{
		feedback.FieldName:    "Name is required",
		feedback.FieldEmail:   "Email is required",
		feedback.FieldMessage: "Message is required",
	}, errs)

	list := errs.List()
	if assert.Len(t, list, 3) {
		assert.Equal(t, "name", list[0].Name)
		assert.Equal(t, "email", list[1].Name)
		assert.Equal(t, "message", list[2].Name)
	}
}

func TestValidate_UnicodeBlankIsRequired(t *testing.T) {
	for _, blank := range []string{"\uFEFF", " \u00a0\u3000 ", "\v\u2028\t"} {
		d := validData()
		d.Name = blank
		got, _ := Validate(d).Get(feedback.FieldName)
		assert.Equal(t, "Name is required", got, "name %q", blank)
	}
}

func TestValidate_LengthCountsCodePoints(t *testing.T) {
	d := validData()
	d.Name = "😀"
	got, _ := Validate(d).Get(feedback.FieldName)
	assert.Equal(t, "Name must be at least 2 characters", got)

	d.Name = "😀😀"
	_, ok := Validate(d).Get(feedback.FieldName)
	assert.False(t, ok)
}
