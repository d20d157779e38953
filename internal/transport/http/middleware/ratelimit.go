package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"peopledesk/internal/transport/http/api"
)

type clientWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter applies a fixed-window per-client limit. Sensitive paths
// (login, password reset) get a tighter limit.
type RateLimiter struct {
	mu             sync.Mutex
	clients        map[string]*clientWindow
	perMinute      int
	sensitivePaths map[string]bool
}

func NewRateLimiter(perMinute int, sensitivePaths ...string) *RateLimiter {
	sensitive := make(map[string]bool, len(sensitivePaths))
	for _, p := range sensitivePaths {
		sensitive[p] = true
	}
	rl := &RateLimiter{
		clients:        map[string]*clientWindow{},
		perMinute:      perMinute,
		sensitivePaths: sensitive,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := rl.perMinute
		if rl.sensitivePaths[r.URL.Path] {
			limit = rl.perMinute / 6
			if limit < 5 {
				limit = 5
			}
		}
		if !rl.allow(clientKey(r), limit) {
			w.Header().Set("Retry-After", "60")
			api.Fail(w, r, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string, limit int) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	window, ok := rl.clients[key]
	if !ok || now.After(window.resetAt) {
		rl.clients[key] = &clientWindow{count: 1, resetAt: now.Add(time.Minute)}
		return true
	}
	if window.count >= limit {
		return false
	}
	window.count++
	return true
}

func (rl *RateLimiter) cleanup() {
	for range time.Tick(5 * time.Minute) {
		now := time.Now()
		rl.mu.Lock()
		for key, window := range rl.clients {
			if now.After(window.resetAt) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
