package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvServer answers KV-v2 reads for kv/feedback with a fixed payload.
func kvServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/kv/data/feedback" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		assert.Equal(t, "root-token", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {
				"data": {"api_token": "s3cr3t", "port": 42},
				"metadata": {"created_time": "2024-01-15T10:30:00Z", "deletion_time": "", "destroyed": false, "version": 1}
			}
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseRef(t *testing.T) {
	p, k, err := ParseRef("vault:kv/feedback#api_token")
	require.NoError(t, err)
	assert.Equal(t, "kv/feedback", p)
	assert.Equal(t, "api_token", k)

	for _, bad := range []string{
		"kv/feedback#api_token",
		"vault:kv/feedback",
		"vault:kv/feedback#",
		"vault:#key",
		"vault:kv#key",
	} {
		_, _, err := ParseRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolve_ReadsAndCaches(t *testing.T) {
	var hits atomic.Int32
	srv := kvServer(t, &hits)

	c, err := NewWithAddress(srv.URL, "root-token")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := c.Resolve(context.Background(), "vault:kv/feedback#api_token")
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", v)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetKV_Errors(t *testing.T) {
	var hits atomic.Int32
	srv := kvServer(t, &hits)
	c, err := NewWithAddress(srv.URL, "root-token")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.GetKV(ctx, "kv/feedback", "missing", 0)
	assert.ErrorContains(t, err, "not found")

	_, err = c.GetKV(ctx, "kv/feedback", "port", 0)
	assert.ErrorContains(t, err, "not a string")

	_, err = c.GetKV(ctx, "", "k", 0)
	assert.Error(t, err)

	_, err = c.GetKV(ctx, "kv/other", "k", 0)
	assert.Error(t, err)
}
