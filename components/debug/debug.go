// components/debug/debug.go
//
// Diagnostic component that echoes request info and the caller's session.
// Routes are added only when Deps.Debug is set, so production builds answer
// /debug with 404.
package debug

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/feedback/internal/component"
	"github.com/yanizio/feedback/internal/requestinfo"
	"github.com/yanizio/feedback/internal/session"
)

type Component struct {
	enabled  bool
	sessions *session.Store
}

func (c *Component) Name() string { return "debug" }

func (c *Component) Init(d component.Deps) error {
	c.enabled = d.Debug && d.Sessions != nil
	c.sessions = d.Sessions
	return nil
}

func (c *Component) Routes(r chi.Router) {
	if c.enabled {
		r.Get("/debug", c.handler)
	}
}

func init() { component.Register(&Component{}) }

// handler writes a JSON blob with selected context fields.
func (c *Component) handler(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"path":     r.URL.Path,
		"query":    r.URL.RawQuery,
		"sessions": c.sessions.Len(),
	}
	if info := requestinfo.FromContext(r.Context()); info != nil {
		out["ip"] = info.Geo.IP.String()
		out["country"] = info.Geo.CountryISO
		out["city"] = info.Geo.City
		out["lang"] = info.PrimaryLang
		out["ua_parsed"] = info.UA
	}
	if ck, err := r.Cookie(session.CookieName); err == nil {
		if s, ok := c.sessions.Lookup(ck.Value); ok {
			out["form"] = s.Form.Snapshot()
			if n, ok := s.Flash.Current(); ok {
				out["notice"] = n
			}
			out["notice_expiring"] = s.Flash.Pending()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
