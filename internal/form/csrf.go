// internal/form/csrf.go
//
// Feedback Desk – Forms subsystem: stateless CSRF token utilities.
//
// Context
//   The feedback page embeds a hidden `csrf_token` input generated at render
//   time.  The server verifies this token on POST to ensure the request
//   originated from a page it rendered.  The token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – microseconds since Unix epoch, 8 bytes, big-endian.
//   •  HMAC – calculated with the configured secret.
//
//   Verification checks the signature and ensures the timestamp is within
//   MaxAge.  No server-side storage is required.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	tokenBytes = 16 + 8 + sha256.Size // nonce + ts + sig
	minKeyLen  = 32

	// DefaultTokenMaxAge bounds how long a rendered page stays postable.
	DefaultTokenMaxAge = 2 * time.Hour
)

// CSRF issues and verifies tokens under one secret.  Safe for concurrent use.
type CSRF struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCSRF decodes key (raw base64url, at least 32 bytes).  An empty key
// yields a random per-process secret, so tokens do not survive a restart.
func NewCSRF(key string) (*CSRF, error) {
	c := &CSRF{maxAge: DefaultTokenMaxAge, now: time.Now}

	if key == "" {
		c.secret = make([]byte, minKeyLen)
		if _, err := rand.Read(c.secret); err != nil {
			return nil, err
		}
		zap.S().Warnw("csrf key not configured, using random key")
		return c, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("csrf key: %w", err)
	}
	if len(b) < minKeyLen {
		return nil, fmt.Errorf("csrf key: need %d bytes, got %d", minKeyLen, len(b))
	}
	c.secret = b
	return c, nil
}

// Generate creates a new token.  Call once per form render.
func (c *CSRF) Generate() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce, ts, sig := raw[:16], raw[16:24], raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(ts)))
	now := c.now()
	if now.Sub(issued) > c.maxAge || issued.Sub(now) > time.Minute {
		// Older than maxAge, or from the future beyond clock skew.
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, ts))
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
