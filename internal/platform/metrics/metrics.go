// Package metrics keeps coarse in-process request counters, cheap
// enough to sit on the hot path of every request.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

type Collector struct {
	requests     atomic.Uint64
	serverErrors atomic.Uint64
	throttled    atomic.Uint64
	durationMs   atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	if status >= http.StatusInternalServerError {
		c.serverErrors.Add(1)
	}
	if status == http.StatusTooManyRequests {
		c.throttled.Add(1)
	}
	c.durationMs.Add(uint64(duration.Milliseconds()))
}

// Snapshot returns the counters in the shape the /metrics endpoint
// serves.
func (c *Collector) Snapshot() map[string]any {
	requests := c.requests.Load()
	durationMs := c.durationMs.Load()

	var avg float64
	if requests > 0 {
		avg = float64(durationMs) / float64(requests)
	}
	return map[string]any{
		"requestsTotal":    requests,
		"errorsTotal":      c.serverErrors.Load(),
		"rateLimitedTotal": c.throttled.Load(),
		"avgDurationMs":    avg,
		"totalDurationMs":  durationMs,
	}
}
