//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP with optional geolocation, and
//  timestamp).  These structs are inert, so they are safe to log.
//
//  Dependencies
//  • internal/ua                        (wraps avct/uasurfer)
//  • github.com/oschwald/geoip2-golang  (optional MaxMind lookup)
//

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/feedback/internal/ua"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// Geo holds IP-based geolocation hints.
// These are best-effort and empty when no database is loaded.
type Geo struct {
	IP         net.IP
	CountryISO string // "US", "CA", "FR", ...
	City       string
}

// RequestInfo is attached to every request by Enrich.
type RequestInfo struct {
	UA          ua.Info
	Geo         Geo
	PrimaryLang string // first tag from Accept-Language
	Timestamp   time.Time
}

// Fields flattens the info into zap key/value pairs.
func (ri *RequestInfo) Fields() []any {
	f := []any{
		"ip", ri.Geo.IP.String(),
		"browser", ri.UA.Label(),
		"device", ri.UA.Device,
	}
	if ri.UA.IsBot {
		f = append(f, "bot", true)
	}
	if ri.Geo.CountryISO != "" {
		f = append(f, "country", ri.Geo.CountryISO)
	}
	return f
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

type cityLookup interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

var geoReader atomic.Pointer[cityLookup]

// InitGeo opens the GeoLite2-City database.  An empty path leaves lookups
// disabled.  Calling it again swaps the reader and closes the old one.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	setGeo(r)
	return nil
}

// CloseGeo releases the database, if any.
func CloseGeo() { setGeo(nil) }

func setGeo(r cityLookup) {
	var p *cityLookup
	if r != nil {
		p = &r
	}
	if old := geoReader.Swap(p); old != nil {
		_ = (*old).Close()
	}
}

//
//  -----------------------------
//  Public helper: FromContext
//  -----------------------------
//

type ctxKey struct{}

// FromContext returns the pointer previously stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// primaryLang extracts the first language subtag before any ";q=" rule.
func primaryLang(al string) string {
	if al == "" {
		return ""
	}
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(strings.TrimSpace(tag), ";")
	return strings.ToLower(tag)
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	p := geoReader.Load()
	if p == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := (*p).City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
