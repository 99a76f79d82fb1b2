package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, name, body string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	if name != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "conf", name), []byte(body), 0o644))
	}
	return root
}

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, ref string) (string, error) {
	if v, ok := f[ref]; ok {
		return v, nil
	}
	return "", errors.New("no such secret")
}

func stubResolver(t *testing.T, r SecretResolver, err error) *int {
	t.Helper()
	calls := 0
	prev := NewResolver
	NewResolver = func() (SecretResolver, error) { calls++; return r, err }
	t.Cleanup(func() { NewResolver = prev })
	return &calls
}

func TestLoad_DefaultsWithoutYAML(t *testing.T) {
	root := writeConf(t, "", "")
	calls := stubResolver(t, fakeResolver{}, nil)

	cfg, err := LoadFrom(context.Background(), root)
	require.NoError(t, err)

	want := Defaults()
	want.Paths.Root = root
	assert.Equal(t, &want, cfg)
	assert.Same(t, cfg, Get())
	assert.Zero(t, *calls, "no vault refs means no vault client")
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	root := writeConf(t, "global.yaml", `
http:
  listen_addr: ":9000"
  read_timeout: 3s
api:
  base_url: "http://api.internal:8080"
ui:
  notice_ttl: 500ms
  max_sessions: 50
log:
  level: debug
`)
	t.Setenv("FEEDBACK_HTTP__LISTEN_ADDR", ":9100")
	t.Setenv("FEEDBACK_UI__MAX_SESSIONS", "75")

	cfg, err := LoadFrom(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.HTTP.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, "http://api.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.NoticeTTL)
	assert.Equal(t, 75, cfg.UI.MaxSessions)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DotEnv(t *testing.T) {
	root := writeConf(t, ".env", "FEEDBACK_LOG__LEVEL=warn\n")
	// register cleanup, then clear so godotenv may set it
	t.Setenv("FEEDBACK_LOG__LEVEL", "")
	require.NoError(t, os.Unsetenv("FEEDBACK_LOG__LEVEL"))

	cfg, err := LoadFrom(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ResolvesVaultRefs(t *testing.T) {
	root := writeConf(t, "global.yaml", `
api:
  token: "vault:kv/feedback#api_token"
ui:
  csrf_key: "vault:kv/feedback#csrf_key"
`)
	calls := stubResolver(t, fakeResolver{
		"vault:kv/feedback#api_token": "tok-123",
		"vault:kv/feedback#csrf_key":  "key-456",
	}, nil)

	cfg, err := LoadFrom(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.API.Token)
	assert.Equal(t, "key-456", cfg.UI.CSRFKey)
	assert.Equal(t, 1, *calls)
}

func TestLoad_VaultFailures(t *testing.T) {
	root := writeConf(t, "global.yaml", "api:\n  token: \"vault:kv/feedback#nope\"\n")

	stubResolver(t, fakeResolver{}, nil)
	_, err := LoadFrom(context.Background(), root)
	assert.ErrorContains(t, err, "api.token")

	stubResolver(t, nil, errors.New("VAULT_ADDR unset"))
	_, err = LoadFrom(context.Background(), root)
	assert.ErrorContains(t, err, "vault client")
}

func TestLoad_ValidationKeepsPreviousConfig(t *testing.T) {
	good := writeConf(t, "", "")
	prev, err := LoadFrom(context.Background(), good)
	require.NoError(t, err)

	bad := writeConf(t, "global.yaml", `
http:
  listen_addr: "nonsense"
api:
  base_url: "not a url"
log:
  level: loud
`)
	_, err = LoadFrom(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ListenAddr")
	assert.Contains(t, err.Error(), "BaseURL")
	assert.Contains(t, err.Error(), "Level")
	assert.Same(t, prev, Get())
}

func TestLoad_MalformedYAML(t *testing.T) {
	root := writeConf(t, "global.yaml", "http: [unclosed\n")
	_, err := LoadFrom(context.Background(), root)
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api.base_url", envKey("FEEDBACK_API__BASE_URL"))
	assert.Equal(t, "log.tee", envKey("FEEDBACK_LOG__TEE"))
}
