// internal/client/errors.go
//
// Error taxonomy for feedback API calls.
//
//   • TransportError – no HTTP response was obtained.
//   • APIError       – a response arrived with a non-2xx status.
//
// Both render as one human-readable string so the UI can show err.Error()
// directly.

package client

import (
	"errors"
	"net/url"
)

// TransportError reports that the request never produced a response.  Error
// returns the transport's own message, without the method and URL prefix
// added by net/http.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	var ue *url.Error
	if errors.As(e.Err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-success HTTP status.  Message is the server's
// "message" field when it sent one, else "HTTP error! status: <code>".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// IsTransportError reports whether err is, or wraps, a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAPIError reports whether err is, or wraps, an *APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// fallbackMessage is shown when an error carries no text of its own.
const fallbackMessage = "Something went wrong. Please try again."

// Message collapses err into the single string shown to the visitor.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackMessage
}
