// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web blank-imports the
// components it ships, calls InitAll(deps) once the shared services exist,
// and then lets every component add its routes to the root router.

package component

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/form"
	"github.com/yanizio/feedback/internal/session"
	"github.com/yanizio/feedback/internal/view"
)

// FeedbackAPI is the remote surface components use.  *client.Client
// satisfies it; tests substitute fakes.
type FeedbackAPI interface {
	form.Submitter
	GetAllFeedback(ctx context.Context) ([]feedback.Item, error)
	TestConnection(ctx context.Context) bool
}

// Deps are the process-wide services handed to every component.
type Deps struct {
	API       FeedbackAPI
	Sessions  *session.Store
	Views     *view.Engine
	CSRF      *form.CSRF
	NoticeTTL time.Duration
	// Debug enables diagnostic routes; main sets it when log.level=debug.
	Debug bool
}

// Initializer is optional.  If a Component implements it, InitAll calls
// Init(deps) once before routes are mounted.
type Initializer interface {
	Init(Deps) error
}

// Component contract.
//
// Routes(r) should add BOTH page and API endpoints to r, e.g:
//
//	r.Get("/", getHome)
//	r.Route("/form", func(api chi.Router) { ... })
//
// r is a chi Group of the root router, so several components can share “/”
// without chi's duplicate-mount panic.
type Component interface {
	Name() string
	Routes(r chi.Router)
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component ordered by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// InitAll initialises every registered component and returns them.
func InitAll(d Deps) ([]Component, error) {
	all := All()
	for _, c := range all {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(d); err != nil {
				return nil, fmt.Errorf("init component %s: %w", c.Name(), err)
			}
		}
	}
	return all, nil
}

// Mount lets each component add its routes to r.
func Mount(r chi.Router, cs []Component) {
	for _, c := range cs {
		r.Group(c.Routes)
	}
}
