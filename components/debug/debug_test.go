package debug

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/feedback/internal/component"
	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/message"
	"github.com/yanizio/feedback/internal/requestinfo"
	"github.com/yanizio/feedback/internal/session"
)

func router(t *testing.T, debug bool, st *session.Store) http.Handler {
	t.Helper()
	c := &Component{}
	require.NoError(t, c.Init(component.Deps{Sessions: st, Debug: debug}))
	r := chi.NewRouter()
	r.Use(requestinfo.Enrich)
	c.Routes(r)
	return r
}

func TestDebug_DisabledIs404(t *testing.T) {
	rr := httptest.NewRecorder()
	router(t, false, session.NewStore(1, time.Second)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDebug_EchoesSession(t *testing.T) {
	st := session.NewStore(10, time.Second)
	t.Cleanup(st.Close)
	seed := httptest.NewRecorder()
	s := st.Get(seed, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Form.UpdateField(feedback.FieldName, "Ann")
	s.Flash.Show(message.Success("Thanks"))

	req := httptest.NewRequest(http.MethodGet, "/debug?x=1", nil)
	req.AddCookie(seed.Result().Cookies()[0])
	req.Header.Set("Accept-Language", "de-DE")
	rr := httptest.NewRecorder()
	router(t, true, st).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "x=1", out["query"])
	assert.Equal(t, "de-de", out["lang"])
	assert.EqualValues(t, 1, out["sessions"])
	form := out["form"].(map[string]any)
	assert.Equal(t, true, form["dirty"])
	assert.Equal(t, true, out["notice_expiring"])
	assert.NotNil(t, out["notice"])
}
