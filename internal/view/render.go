// internal/view/render.go
//
// Central view engine: embedded page templates, func-map injection, and a
// parsed *template.Template* set per page.
//
// Public helpers
// --------------
//   - New      – parse every page once at boot.
//   - Render   – buffer, then write rendered HTML to an http.ResponseWriter.
//   - Static   – serve the embedded stylesheet under /static/.
//
// Each page is parsed together with layout.html, so `{{ template "content" . }}`
// in the layout resolves to the page's own block.  Rendering into a buffer
// first means a template error becomes a clean 500 instead of half a page.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/yanizio/feedback/internal/feedback"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageHome = "home"
	PageList = "list"
)

var pages = []string{PageHome, PageList}

// Engine holds one template set per page.  Safe for concurrent use.
type Engine struct {
	sets map[string]*template.Template
}

// New parses every page.  Any template error fails boot.
func New() (*Engine, error) {
	e := &Engine{sets: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		t, err := template.New("layout.html").
			Funcs(funcMap()).
			ParseFS(templateFS, "templates/layout.html", "templates/"+p+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		e.sets[p] = t
	}
	return e, nil
}

// Render executes page with data and writes it with the given status.
func (e *Engine) Render(w http.ResponseWriter, status int, page string, data any) error {
	t, ok := e.sets[page]
	if !ok {
		return fmt.Errorf("view: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets; mount under /static/.
func Static() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

//
// func-map builders
//

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": FormatDate,
	}
}

// displayLayout matches "Jan 15, 2024, 10:30 AM".
const displayLayout = "Jan 2, 2006, 03:04 PM"

// FormatDate renders an item's timestamp for the list page, or
// "Invalid date" when the API sent something unparseable.
func FormatDate(it feedback.Item) string {
	t, err := it.CreatedTime()
	if err != nil {
		return "Invalid date"
	}
	return t.Format(displayLayout)
}
