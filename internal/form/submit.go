// internal/form/submit.go
//
// Feedback Desk – Forms subsystem: consolidated Submit helper.
//
// Context
//   Handlers want one call that checks validity, guards against double
//   submission, forwards the data, and resets the form on success.  Submit
//   provides that so the HTTP layer stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"

	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/logger"
	"github.com/yanizio/feedback/internal/metrics"
)

// Submitter delivers a feedback request.  *client.Client satisfies it.
type Submitter interface {
	SubmitFeedback(ctx context.Context, req feedback.Request) (feedback.Response, error)
}

// ErrSubmitInProgress is returned when Submit is called while an earlier
// submission from the same controller has not finished.
var ErrSubmitInProgress = errors.New("a submission is already in progress")

// ValidationError wraps []ErrorField and satisfies the error interface.
//
// It allows callers to distinguish user input errors from delivery failures
// via errors.As or IsValidationError.
type ValidationError struct{ Fields []ErrorField }

func (ve *ValidationError) Error() string {
	return "Please fix the validation errors before submitting."
}

// IsValidationError reports whether err came from a blocked submission.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Submit sends the current values through s.  It refuses with a
// *ValidationError when the form is not valid and with ErrSubmitInProgress
// when another submission is running.  The lock is released while s works so
// readers can observe IsSubmitting.  On success the form is reset.
func (c *Controller) Submit(ctx context.Context, s Submitter) (feedback.Response, error) {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return feedback.Response{}, ErrSubmitInProgress
	}
	if !c.valid() {
		fields := c.errs.List()
		names := c.errs.fieldNames()
		c.mu.Unlock()
		for _, n := range names {
			metrics.SubmissionsBlockedTotal.WithLabelValues(n).Inc()
		}
		if len(names) == 0 {
			metrics.SubmissionsBlockedTotal.WithLabelValues("pristine").Inc()
		}
		log.Debugw("submission blocked", "fields", names)
		return feedback.Response{}, &ValidationError{Fields: fields}
	}
	c.submitting = true
	req := feedback.NewRequest(c.data)
	c.mu.Unlock()

	resp, err := s.SubmitFeedback(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		log.Warnw("submission failed", "err", err)
		return feedback.Response{}, err
	}
	c.reset()
	return resp, nil
}
