// Package api is the simulated network client: it accepts (method,
// endpoint, payload) triples, waits a configurable artificial latency, and
// dispatches to the stores by pattern-matching the endpoint string. No
// bytes leave the process.
//
// The latency wait is the only suspension point; it honors context
// cancellation, so callers can model timeouts even though nothing here is
// truly asynchronous.
package api

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/udx-labs/userdesk/internal/backup"
	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/logging"
	"github.com/udx-labs/userdesk/internal/session"
	"github.com/udx-labs/userdesk/internal/users"
)

// DefaultLatency is the simulated round-trip the default configuration
// uses. Tests construct clients with zero latency instead.
const DefaultLatency = 300 * time.Millisecond

// Response is the uniform success envelope. Failures are returned as
// *Error, never inside an envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type Client struct {
	users    *users.Repository
	sessions *session.Store
	backups  *backup.Store
	kv       *kvstore.Store
	latency  time.Duration
	log      logging.Logger

	startedAt time.Time
	requests  atomic.Int64
}

// NewClient wires the simulated API to its collaborators. latency <= 0
// disables the artificial delay.
func NewClient(u *users.Repository, s *session.Store, b *backup.Store, kv *kvstore.Store, latency time.Duration, log logging.Logger) *Client {
	return &Client{
		users:     u,
		sessions:  s,
		backups:   b,
		kv:        kv,
		latency:   latency,
		log:       log,
		startedAt: time.Now(),
	}
}

// Request performs one simulated call. The endpoint is matched by substring
// to a handler family; the handler matches the exact path and method.
// Failures come back as *Error with an HTTP-like status; a canceled context
// surfaces as ctx.Err().
func (c *Client) Request(ctx context.Context, method, endpoint string, payload any) (*Response, error) {
	c.requests.Add(1)
	c.countRequest(ctx)
	method = strings.ToUpper(method)

	c.log.Debug(ctx, "api request", "method", method, "endpoint", endpoint)

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(endpoint, "/auth/"):
		return c.handleAuth(ctx, method, endpoint, payload)
	case strings.Contains(endpoint, "/users"):
		return c.handleUsers(ctx, method, endpoint, payload)
	case strings.Contains(endpoint, "/reports"):
		return c.handleReports(ctx, method, endpoint, payload)
	case strings.Contains(endpoint, "/metrics"):
		return c.handleMetrics(ctx, method, endpoint)
	}

	return nil, notFound("endpoint not found: " + endpoint)
}

// wait models network latency. Once the timer is armed the continuation
// always runs unless the caller's context is done first.
func (c *Client) wait(ctx context.Context) error {
	if c.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(c.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// requestMetrics is the lifetime counter persisted under the metrics key,
// surviving process restarts; the in-memory counter covers this process only.
type requestMetrics struct {
	TotalRequests int64 `json:"totalRequests"`
}

func (c *Client) countRequest(ctx context.Context) {
	var m requestMetrics
	c.kv.Get(ctx, kvstore.KeyMetrics, &m)
	m.TotalRequests++
	c.kv.Set(ctx, kvstore.KeyMetrics, m)
}

// requireAuth is the guard every users/reports/metrics operation runs
// before touching a repository. It checks the logged-in flag only; activity
// expiry is the caller's separate concern.
func (c *Client) requireAuth(ctx context.Context) *Error {
	if !c.sessions.IsLoggedIn(ctx) {
		return unauthorized("authentication required")
	}
	return nil
}

// decodePayload converts an arbitrary payload value into the handler's
// request type via a JSON round-trip, tolerating maps, structs, and raw
// JSON alike. A nil payload decodes to the zero value.
func decodePayload[T any](payload any) (T, *Error) {
	var out T
	if payload == nil {
		return out, nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return out, badRequest("malformed request payload")
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, badRequest("malformed request payload")
	}
	return out, nil
}
