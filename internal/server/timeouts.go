// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time (15 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// The values come from config.HTTP; a zero field falls back to the default
// above so a sparse YAML never yields an unbounded server.
//

package server

import (
	"net/http"
	"time"

	"github.com/yanizio/feedback/internal/config"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
	maxHeaderBytes      = 1 << 16
)

// New constructs an *http.Server from the HTTP config block.
func New(c config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              c.ListenAddr,
		Handler:           handler,
		ReadTimeout:       orDefault(c.ReadTimeout, defaultReadTimeout),
		ReadHeaderTimeout: orDefault(c.ReadTimeout, defaultReadTimeout),
		WriteTimeout:      orDefault(c.WriteTimeout, defaultWriteTimeout),
		IdleTimeout:       orDefault(c.IdleTimeout, defaultIdleTimeout),
		MaxHeaderBytes:    maxHeaderBytes,
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
