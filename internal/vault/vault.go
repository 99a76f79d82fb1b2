// internal/vault/vault.go
//
// Vault client wrapper for Feedback Desk.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK for the one job this service has for
//     it: turning `vault:<mount>/<path>#<key>` config values into secrets.
//   - Adds simple KV-v2 reads with per-key caching.
//   - Secrets are read at boot and on config reload only, so no background
//     token renewal runs; an expired token surfaces as a reload error.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New()                       // during boot.
//  2. val, err := cli.Resolve(ctx, "vault:kv/app#k") // config loader.
//
// Build tags: none.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// RefPrefix marks a config value that must be fetched from Vault.
const RefPrefix = "vault:"

// DefaultTTL caches resolved values long enough to cover a burst of reloads.
const DefaultTTL = 5 * time.Minute

//
// SECTION 1.  Public façade
//

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
	ttl time.Duration

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a client from the standard Vault environment.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token used for every read.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if cfg.Error != nil {
		return nil, fmt.Errorf("vault env cfg: %w", cfg.Error)
	}
	return newClient(cfg)
}

// NewWithAddress targets addr with token, ignoring VAULT_* env.
func NewWithAddress(addr, token string) (*Client, error) {
	cfg := vault.DefaultConfig()
	cfg.Address = addr
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	c.api.SetToken(token)
	return c, nil
}

func newClient(cfg *vault.Config) (*Client, error) {
	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	return &Client{
		api:   apiCli,
		ttl:   DefaultTTL,
		cache: make(map[string]cached),
	}, nil
}

// IsRef reports whether s is a `vault:` reference.
func IsRef(s string) bool { return strings.HasPrefix(s, RefPrefix) }

// ParseRef splits "vault:kv/app#token" into ("kv/app", "token").
func ParseRef(ref string) (secretPath, key string, err error) {
	if !IsRef(ref) {
		return "", "", fmt.Errorf("not a vault reference: %q", ref)
	}
	body := strings.TrimPrefix(ref, RefPrefix)
	secretPath, key, ok := strings.Cut(body, "#")
	if !ok || secretPath == "" || key == "" {
		return "", "", fmt.Errorf("vault reference %q must look like vault:<mount>/<path>#<key>", ref)
	}
	if m, rel := splitMount(secretPath); m == "" || rel == "" {
		return "", "", fmt.Errorf("vault reference %q lacks a mount or path", ref)
	}
	return secretPath, key, nil
}

// Resolve fetches the value a `vault:` reference points at.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	p, k, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, p, k, c.ttl)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	zap.S().Debugw("vault secret resolved", "path", secretPath, "key", key)
	return sval, nil
}

//
// SECTION 2.  Helpers
//

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
