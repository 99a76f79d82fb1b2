// components/feedback/api.go
//
// JSON bindings of the form controller for script-capable clients.
//
// Context
//   GET /form/state hands out the current State plus a CSRF token in the
//   X-CSRF-Token header.  Mutating calls must echo that header back.  Every
//   response body is the State after the call, including the open notice, so
//   a client can re-render from one payload.
//
//------------------------------------------------------------------------------

package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/form"
	"github.com/yanizio/feedback/internal/logger"
	"github.com/yanizio/feedback/internal/message"
	"github.com/yanizio/feedback/internal/session"
)

// CSRFHeader carries the token on JSON calls.
const CSRFHeader = "X-CSRF-Token"

const maxFieldBody = 8 << 10

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type stateResponse struct {
	form.State
	Notice *message.Notice `json:"notice,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Component) handleStateGET(w http.ResponseWriter, r *http.Request) {
	s := c.sessions.Get(w, r)
	tok, ok := c.token(w, r)
	if !ok {
		return
	}
	w.Header().Set(CSRFHeader, tok)
	writeJSON(w, r, http.StatusOK, snapshot(s))
}

func (c *Component) handleFieldPOST(w http.ResponseWriter, r *http.Request) {
	s, ok := c.verifiedJSON(w, r)
	if !ok {
		return
	}

	var in fieldUpdate
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFieldBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "malformed body"})
		return
	}
	f, known := feedback.ParseField(in.Field)
	if !known {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "unknown field: " + in.Field})
		return
	}

	s.Flash.Dismiss()
	s.Form.UpdateField(f, in.Value)
	writeJSON(w, r, http.StatusOK, snapshot(s))
}

func (c *Component) handleStateResetPOST(w http.ResponseWriter, r *http.Request) {
	s, ok := c.verifiedJSON(w, r)
	if !ok {
		return
	}
	s.Form.Reset()
	s.Flash.Dismiss()
	writeJSON(w, r, http.StatusOK, snapshot(s))
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func (c *Component) verifiedJSON(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s := c.sessions.Get(w, r)
	if !c.csrf.Verify(r.Header.Get(CSRFHeader)) {
		writeJSON(w, r, http.StatusForbidden, errorResponse{Error: msgBadToken})
		return nil, false
	}
	return s, true
}

func snapshot(s *session.Session) stateResponse {
	out := stateResponse{State: s.Form.Snapshot()}
	if n, ok := s.Flash.Current(); ok {
		out.Notice = &n
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warnw("json encode failed", "err", err)
	}
}
