package requestinfo

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oschwald/geoip2-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/feedback/internal/logger"
)

type fakeCity struct{ closed bool }

func (f *fakeCity) City(ip net.IP) (*geoip2.City, error) {
	if !ip.Equal(net.ParseIP("81.2.69.142")) {
		return nil, errors.New("not found")
	}
	rec := &geoip2.City{}
	rec.Country.IsoCode = "GB"
	rec.City.Names = map[string]string{"en": "London"}
	return rec, nil
}

func (f *fakeCity) Close() error { f.closed = true; return nil }

func serve(t *testing.T, req *http.Request) *RequestInfo {
	t.Helper()
	var got *RequestInfo
	h := Enrich(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		assert.NotNil(t, logger.FromContext(r.Context()))
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, got)
	return got
}

func TestEnrich_ClientIPPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", serve(t, req).Geo.IP.String())

	req.Header.Set("X-Real-Ip", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", serve(t, req).Geo.IP.String())

	req.Header.Set("X-Forwarded-For", "garbage, 203.0.113.9, 10.0.0.3")
	assert.Equal(t, "203.0.113.9", serve(t, req).Geo.IP.String())
}

func TestEnrich_GeoLookup(t *testing.T) {
	fc := &fakeCity{}
	setGeo(fc)
	t.Cleanup(CloseGeo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "81.2.69.142")
	info := serve(t, req)
	assert.Equal(t, "GB", info.Geo.CountryISO)
	assert.Equal(t, "London", info.Geo.City)
	assert.Contains(t, info.Fields(), "GB")

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Empty(t, serve(t, req).Geo.CountryISO)

	CloseGeo()
	assert.True(t, fc.closed)
}

func TestEnrich_Language(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB;q=0.9, fr")
	assert.Equal(t, "en-gb", serve(t, req).PrimaryLang)
}

func TestInitGeo(t *testing.T) {
	assert.NoError(t, InitGeo(""))
	assert.Error(t, InitGeo("/nonexistent/GeoLite2-City.mmdb"))
}

func TestFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))
}
