// components/health/health.go
//
// Liveness plus upstream reachability.
//
// Context
//   GET /healthz probes the feedback API with an OPTIONS request.  The
//   process is healthy either way (status 200); "api" reports whether the
//   upstream answered, so load balancers keep routing while dashboards see
//   the outage.  Probes are bounded by probeTimeout.
//
//------------------------------------------------------------------------------

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/feedback/internal/component"
)

const probeTimeout = 3 * time.Second

var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component serves /healthz.
type Component struct {
	api component.FeedbackAPI
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "health" }

// Init captures the API client.
func (c *Component) Init(d component.Deps) error {
	if d.API == nil {
		return errors.New("health: API is required")
	}
	c.api = d.API
	return nil
}

// Routes adds GET /healthz.
func (c *Component) Routes(r chi.Router) {
	r.Get("/healthz", c.handleHealth)
}

func init() { component.Register(&Component{}) }

type report struct {
	Status string `json:"status"`
	API    bool   `json:"api"`
}

func (c *Component) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	rep := report{Status: "ok", API: c.api.TestConnection(ctx)}
	if !rep.API {
		rep.Status = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(rep)
}
