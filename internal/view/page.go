package view

import (
	"html/template"

	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/message"
)

// Page is the part every layout render needs.
type Page struct {
	Title  string
	Active string // PageHome or PageList; highlights the nav link
	Notice *message.Notice
	// Refresh, when > 0, emits a meta refresh so an auto-closing notice
	// disappears without script.
	Refresh int
	// CSRF is required by the notice close form.
	CSRF string
}

// HomePage renders the feedback form.
type HomePage struct {
	Page
	Fields     template.HTML
	Submitting bool
}

// ListPage renders the feedback list, or its error state when Err is set.
type ListPage struct {
	Page
	Items []feedback.Item
	Err   string
}
