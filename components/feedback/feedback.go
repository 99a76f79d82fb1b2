// components/feedback/feedback.go
//
// Feedback Desk – the form and list pages.
//
// Context
//   Every browser has a session (form controller plus notice) in the shared
//   session.Store.  Page handlers read that state and render it; form posts
//   mutate it and redirect back (POST-redirect-GET), so a reload never
//   resubmits.
//
// Workflow
//   GET  /                 render the form and any open notice
//   POST /                 apply posted fields, then Submit
//   POST /reset            reset the form
//   POST /notice/dismiss   close the notice
//   GET  /feedback         list entries from the API (coalesced)
//   /form/*                JSON bindings, see api.go
//
//------------------------------------------------------------------------------

package feedback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/feedback/internal/client"
	"github.com/yanizio/feedback/internal/component"
	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/form"
	"github.com/yanizio/feedback/internal/logger"
	"github.com/yanizio/feedback/internal/message"
	"github.com/yanizio/feedback/internal/session"
	"github.com/yanizio/feedback/internal/view"
)

// Visitor-facing texts.
const (
	msgSuccess  = "Thank you! Your feedback has been submitted successfully. Reference ID: %d"
	msgBadToken = "Security token invalid. Please refresh and try again."
	msgBusy     = "Your feedback is still being submitted. Please wait."
)

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component serves the feedback pages.
type Component struct {
	api       component.FeedbackAPI
	sessions  *session.Store
	views     *view.Engine
	csrf      *form.CSRF
	noticeTTL float64 // seconds

	list singleflight.Group
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "feedback" }

// Init captures the shared services.
func (c *Component) Init(d component.Deps) error {
	if d.API == nil || d.Sessions == nil || d.Views == nil || d.CSRF == nil {
		return errors.New("feedback: API, Sessions, Views, and CSRF are required")
	}
	c.api, c.sessions, c.views, c.csrf = d.API, d.Sessions, d.Views, d.CSRF
	c.noticeTTL = d.NoticeTTL.Seconds()
	return nil
}

// Routes adds the page and JSON endpoints.
func (c *Component) Routes(r chi.Router) {
	r.Get("/", c.handleHomeGET)
	r.Post("/", c.handleHomePOST)
	r.Post("/reset", c.handleResetPOST)
	r.Post("/notice/dismiss", c.handleDismissPOST)
	r.Get("/feedback", c.handleListGET)
	r.Get("/feedback-list", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/feedback", http.StatusMovedPermanently)
	})
	r.Route("/form", func(api chi.Router) {
		api.Get("/state", c.handleStateGET)
		api.Post("/field", c.handleFieldPOST)
		api.Post("/reset", c.handleStateResetPOST)
	})
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) handleHomeGET(w http.ResponseWriter, r *http.Request) {
	s := c.sessions.Get(w, r)
	tok, ok := c.token(w, r)
	if !ok {
		return
	}

	st := s.Form.Snapshot()
	page := view.HomePage{
		Page:       c.page(s, "Submit Feedback", view.PageHome, tok),
		Fields:     form.RenderFields(st, tok),
		Submitting: st.Submitting,
	}
	c.render(w, r, http.StatusOK, view.PageHome, page)
}

func (c *Component) handleHomePOST(w http.ResponseWriter, r *http.Request) {
	s, ok := c.verifiedPost(w, r)
	if !ok {
		return
	}

	// Edits posted while the previous submission is in flight would be wiped
	// by its reset, so they are refused outright.
	if s.Form.IsSubmitting() {
		s.Flash.Show(message.Error(msgBusy))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Any edit closes an open notice.
	s.Flash.Dismiss()
	for _, f := range feedback.Fields {
		if vals, present := r.PostForm[string(f)]; present && len(vals) > 0 {
			s.Form.UpdateField(f, vals[0])
		}
	}

	resp, err := s.Form.Submit(r.Context(), c.api)
	switch {
	case err == nil:
		logger.FromContext(r.Context()).Infow("feedback submitted", "id", resp.ID)
		s.Flash.Show(message.Success(fmt.Sprintf(msgSuccess, resp.ID)))
	case errors.Is(err, form.ErrSubmitInProgress):
		s.Flash.Show(message.Error(msgBusy))
	case form.IsValidationError(err):
		s.Flash.Show(message.Error(err.Error()))
	default:
		s.Flash.Show(message.Error(client.Message(err)))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Component) handleResetPOST(w http.ResponseWriter, r *http.Request) {
	s, ok := c.verifiedPost(w, r)
	if !ok {
		return
	}
	s.Form.Reset()
	s.Flash.Dismiss()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Component) handleDismissPOST(w http.ResponseWriter, r *http.Request) {
	s, ok := c.verifiedPost(w, r)
	if !ok {
		return
	}
	s.Flash.Dismiss()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Component) handleListGET(w http.ResponseWriter, r *http.Request) {
	s := c.sessions.Get(w, r)
	tok, ok := c.token(w, r)
	if !ok {
		return
	}

	items, err := c.fetchAll(r.Context())
	page := view.ListPage{
		Page:  c.page(s, "Feedback List", view.PageList, tok),
		Items: items,
	}
	status := http.StatusOK
	if err != nil {
		logger.FromContext(r.Context()).Warnw("feedback list failed", "err", err)
		page.Err = client.Message(err)
		page.Items = nil
		status = http.StatusBadGateway
	}
	c.render(w, r, status, view.PageList, page)
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

// fetchAll coalesces concurrent list loads into one API call.  The shared
// call is detached from any single caller's cancellation.
func (c *Component) fetchAll(ctx context.Context) ([]feedback.Item, error) {
	v, err, _ := c.list.Do("all", func() (any, error) {
		return c.api.GetAllFeedback(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]feedback.Item), nil
}

// verifiedPost parses the form, loads the session, and checks the CSRF
// token.  A bad token becomes an error notice and a redirect home.
func (c *Component) verifiedPost(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, false
	}
	s := c.sessions.Get(w, r)
	if !c.csrf.Verify(r.PostFormValue("csrf_token")) {
		logger.FromContext(r.Context()).Warnw("csrf token rejected", "path", r.URL.Path)
		s.Flash.Show(message.Error(msgBadToken))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return s, true
}

func (c *Component) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	tok, err := c.csrf.Generate()
	if err != nil {
		logger.FromContext(r.Context()).Errorw("csrf generate failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return "", false
	}
	return tok, true
}

// page fills the layout fields, including the auto-close refresh for a
// success notice.
func (c *Component) page(s *session.Session, title, active, tok string) view.Page {
	p := view.Page{Title: title, Active: active, CSRF: tok}
	if n, ok := s.Flash.Current(); ok {
		p.Notice = &n
		if n.Kind == message.KindSuccess && c.noticeTTL > 0 {
			p.Refresh = int(math.Ceil(c.noticeTTL))
		}
	}
	return p
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := c.views.Render(w, status, page, data); err != nil {
		logger.FromContext(r.Context()).Errorw("render failed", "page", page, "err", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
