// internal/form/controller.go
//
// Feedback Desk – Forms subsystem: form state controller.
//
// Context
//   A Controller owns the values of one feedback form for the lifetime of a
//   single form session.  It records whether the visitor has touched the form
//   (dirty), keeps the derived error map current, and tracks whether a
//   submission is in flight.  Validity requires BOTH dirty and zero errors,
//   so a pristine form can never be submitted.
//
// Workflow
//   •  UpdateField stores the value, marks the form dirty, and re-runs
//      Validate synchronously.
//   •  Reset restores the initial values and clears errors and dirty.
//   •  Submit (submit.go) hands valid data to a Submitter.
//
// Notes
//   Methods lock an internal mutex.  A browser session can issue parallel
//   requests, and each request must observe a consistent snapshot.
//
//------------------------------------------------------------------------------

package form

import (
	"sync"

	"github.com/yanizio/feedback/internal/feedback"
)

// Controller is the state holder behind one rendered form.  Zero value is not
// usable; call New.
type Controller struct {
	mu         sync.Mutex
	initial    feedback.FormData
	data       feedback.FormData
	errs       Errors
	dirty      bool
	submitting bool
}

// New returns a pristine controller seeded with initial.
func New(initial feedback.FormData) *Controller {
	return &Controller{
		initial: initial,
		data:    initial,
		errs:    make(Errors),
	}
}

// UpdateField sets field to value, marks the form dirty, and recomputes the
// error map.  Fields the form does not own are ignored.
func (c *Controller) UpdateField(field feedback.Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.data.Set(field, value) {
		return
	}
	c.dirty = true
	c.errs = Validate(c.data)
}

// Reset restores the initial values, clears errors, and clears dirty.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Controller) reset() {
	c.data = c.initial
	c.errs = make(Errors)
	c.dirty = false
}

// IsValid reports dirty AND no outstanding field errors.
func (c *Controller) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid()
}

func (c *Controller) valid() bool { return c.dirty && len(c.errs) == 0 }

// IsDirty reports whether any field changed since creation or the last Reset.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// IsSubmitting reports whether a submission is in flight.  The page uses it to
// disable the submit button.
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Data returns a copy of the current values.
func (c *Controller) Data() feedback.FormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Errors returns a copy of the current error map.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs.Clone()
}

// State is a point-in-time snapshot suitable for templates and JSON.
type State struct {
	Data       feedback.FormData `json:"data"`
	Errors     []ErrorField      `json:"errors"`
	Dirty      bool              `json:"dirty"`
	Valid      bool              `json:"valid"`
	Submitting bool              `json:"submitting"`
}

// Snapshot captures every observable property under one lock.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Data:       c.data,
		Errors:     c.errs.List(),
		Dirty:      c.dirty,
		Valid:      c.valid(),
		Submitting: c.submitting,
	}
}

// ErrorFor returns the message for name in s, or "".  Templates call it per
// input.
func (s State) ErrorFor(name string) string {
	for _, e := range s.Errors {
		if e.Name == name {
			return e.Message
		}
	}
	return ""
}
