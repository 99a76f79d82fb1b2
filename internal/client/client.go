// internal/client/client.go
//
// Feedback Desk – feedback API client.
//
// Context
//   The feedback API is an external service.  Client is the only code that
//   talks to it: it serialises requests, checks status codes, and maps every
//   failure onto TransportError or APIError (errors.go).  The struct carries
//   configuration only, so tests swap the transport or point it at an
//   httptest.Server.
//
// Workflow
//   •  SubmitFeedback  POST    {base}/api/feedback  → feedback.Response
//   •  GetAllFeedback  GET     {base}/api/feedback  → []feedback.Item
//   •  TestConnection  OPTIONS {base}/api/feedback  → bool
//
// Notes
//   Each call is a single round trip.  There are no retries, no client-side
//   timeout, and no caching; cancellation comes only from ctx.
//
//------------------------------------------------------------------------------

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/feedback/internal/feedback"
	"github.com/yanizio/feedback/internal/metrics"
)

// DefaultBaseURL is used when New receives an empty base.
const DefaultBaseURL = "http://localhost:8080"

const endpointPath = "/api/feedback"

// Client calls the feedback API.  Safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	token    string
	log      *zap.SugaredLogger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" on every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a Client for the API rooted at baseURL (scheme and host, e.g.
// "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("feedback api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("feedback api base url %q: scheme and host required", baseURL)
	}

	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + endpointPath,
		http:     &http.Client{},
		log:      zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Endpoint returns the absolute URL of the feedback resource.
func (c *Client) Endpoint() string { return c.endpoint }

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// SubmitFeedback posts req and returns the API's acknowledgement unchanged.
func (c *Client) SubmitFeedback(ctx context.Context, req feedback.Request) (feedback.Response, error) {
	var out feedback.Response

	body, err := json.Marshal(req)
	if err != nil {
		return out, fmt.Errorf("encode feedback request: %w", err)
	}
	if err := c.do(ctx, "submit", http.MethodPost, bytes.NewReader(body), &out); err != nil {
		c.log.Errorw("error submitting feedback", "err", err)
		return feedback.Response{}, err
	}
	return out, nil
}

// GetAllFeedback returns every stored entry.  An empty list is not an error.
func (c *Client) GetAllFeedback(ctx context.Context) ([]feedback.Item, error) {
	var out []feedback.Item
	if err := c.do(ctx, "list", http.MethodGet, nil, &out); err != nil {
		c.log.Errorw("error fetching feedback", "err", err)
		return nil, err
	}
	if out == nil {
		out = []feedback.Item{}
	}
	return out, nil
}

// TestConnection probes the endpoint with OPTIONS.  It returns true only when
// a 2xx response arrives.
func (c *Client) TestConnection(ctx context.Context) bool {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, c.endpoint, nil)
	if err != nil {
		c.log.Errorw("api connection test failed", "err", err)
		return false
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	metrics.APICallDuration.WithLabelValues("probe").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APICallsTotal.WithLabelValues("probe", metrics.OutcomeTransport).Inc()
		c.log.Errorw("api connection test failed", "err", (&TransportError{Err: err}).Error())
		return false
	}
	defer drain(resp.Body)

	if !ok(resp.StatusCode) {
		metrics.APICallsTotal.WithLabelValues("probe", metrics.OutcomeAPI).Inc()
		return false
	}
	metrics.APICallsTotal.WithLabelValues("probe", metrics.OutcomeSuccess).Inc()
	return true
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// do performs one round trip and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method string, body io.Reader, out any) error {
	start := time.Now()
	defer func() {
		metrics.APICallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.APICallsTotal.WithLabelValues(op, metrics.OutcomeTransport).Inc()
		return &TransportError{Err: err}
	}
	defer drain(resp.Body)

	if !ok(resp.StatusCode) {
		metrics.APICallsTotal.WithLabelValues(op, metrics.OutcomeAPI).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.APICallsTotal.WithLabelValues(op, metrics.OutcomeDecode).Inc()
		return fmt.Errorf("decode feedback response: %w", err)
	}
	metrics.APICallsTotal.WithLabelValues(op, metrics.OutcomeSuccess).Inc()
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// errorMessage prefers a non-empty string "message" in the JSON body and
// otherwise synthesises one from the status code.  Unreadable or non-JSON
// bodies fall through to the synthesised form.
func errorMessage(resp *http.Response) string {
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
}

func ok(status int) bool { return status >= 200 && status <= 299 }

// drain lets the transport reuse the connection.
func drain(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
