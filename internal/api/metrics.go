package api

import (
	"context"
	"strings"
	"time"

	"github.com/udx-labs/userdesk/internal/kvstore"
	"github.com/udx-labs/userdesk/internal/models"
)

// SystemMetrics describes the process and its storage namespace.
type SystemMetrics struct {
	UptimeSeconds int64           `json:"uptimeSeconds"`
	Storage       kvstore.Usage   `json:"storage"`
	Keys          []string        `json:"keys"`
	Settings      models.Settings `json:"settings"`
}

// PerformanceMetrics is synthetic: the "network" is a timer, so the figures
// are derived from the configured delay and the request counter.
type PerformanceMetrics struct {
	SimulatedLatencyMs int64 `json:"simulatedLatencyMs"`
	AvgResponseTimeMs  int64 `json:"avgResponseTimeMs"`
	RequestsHandled    int64 `json:"requestsHandled"`
	LifetimeRequests   int64 `json:"lifetimeRequests"`
}

func (c *Client) handleMetrics(ctx context.Context, method, endpoint string) (*Response, error) {
	if err := c.requireAuth(ctx); err != nil {
		return nil, err
	}
	if method != "GET" {
		return nil, notFound("endpoint not found: " + endpoint)
	}

	switch {
	case strings.HasSuffix(endpoint, "/metrics/system"):
		settings := models.DefaultSettings()
		c.kv.Get(ctx, kvstore.KeySettings, &settings)
		data := SystemMetrics{
			UptimeSeconds: int64(time.Since(c.startedAt).Seconds()),
			Storage:       c.kv.Usage(ctx),
			Keys:          c.kv.Keys(ctx),
			Settings:      settings,
		}
		return &Response{Success: true, Data: data}, nil

	case strings.HasSuffix(endpoint, "/metrics/users"):
		return &Response{Success: true, Data: c.users.Stats(ctx)}, nil

	case strings.HasSuffix(endpoint, "/metrics/performance"):
		var lifetime requestMetrics
		c.kv.Get(ctx, kvstore.KeyMetrics, &lifetime)

		latencyMs := c.latency.Milliseconds()
		data := PerformanceMetrics{
			SimulatedLatencyMs: latencyMs,
			AvgResponseTimeMs:  latencyMs + 2, // dispatch overhead is noise
			RequestsHandled:    c.requests.Load(),
			LifetimeRequests:   lifetime.TotalRequests,
		}
		return &Response{Success: true, Data: data}, nil
	}

	return nil, notFound("endpoint not found: " + endpoint)
}
