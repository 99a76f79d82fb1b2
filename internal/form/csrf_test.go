package form

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/feedback/internal/feedback"
)

func testKey(t *testing.T) string {
	t.Helper()
	b := make([]byte, 32)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(b)
}

func TestCSRF_RoundTrip(t *testing.T) {
	c, err := NewCSRF(testKey(t))
	require.NoError(t, err)

	tok, err := c.Generate()
	require.NoError(t, err)
	assert.True(t, c.Verify(tok))
	assert.False(t, c.Verify(""))
	assert.False(t, c.Verify("garbage"))
	assert.False(t, c.Verify(tamper(tok, 40)))
}

// tamper swaps the character at i for a different base64url symbol.
func tamper(tok string, i int) string {
	b := []byte(tok)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestCSRF_OtherSecretRejected(t *testing.T) {
	a, err := NewCSRF(testKey(t))
	require.NoError(t, err)
	b, err := NewCSRF("")
	require.NoError(t, err)

	tok, err := a.Generate()
	require.NoError(t, err)
	assert.False(t, b.Verify(tok))
}

func TestCSRF_Expiry(t *testing.T) {
	c, err := NewCSRF(testKey(t))
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	tok, err := c.Generate()
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(DefaultTokenMaxAge + time.Second) }
	assert.False(t, c.Verify(tok))

	c.now = func() time.Time { return base.Add(-2 * time.Minute) }
	assert.False(t, c.Verify(tok), "future-dated token")
}

func TestNewCSRF_BadKey(t *testing.T) {
	_, err := NewCSRF("%%%")
	assert.Error(t, err)

	_, err = NewCSRF(base64.RawURLEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestRenderFields(t *testing.T) {
	c := New(feedback.FormData{})
	c.UpdateField(feedback.FieldName, `<b>x</b>`)

	out := string(RenderFields(c.Snapshot(), "tok123"))

	assert.Contains(t, out, `name="name"`)
	assert.Contains(t, out, `<textarea id="message"`)
	assert.Contains(t, out, `type="email"`)
	assert.Contains(t, out, `value="&lt;b&gt;x&lt;/b&gt;"`)
	assert.NotContains(t, out, `<b>x</b>`)
	assert.Contains(t, out, `class="error-message visible" aria-live="polite">Email is required</span>`)
	assert.Contains(t, out, `name="csrf_token" value="tok123"`)
	assert.Equal(t, 3, strings.Count(out, `class="form-group"`))
}
