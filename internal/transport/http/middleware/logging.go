package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"peopledesk/internal/platform/metrics"
	"peopledesk/internal/requestctx"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging writes one structured line per request and feeds the metrics
// collector when one is configured.
func Logging(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if collector != nil {
				collector.Record(rec.status, duration)
			}
			slog.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", duration),
				slog.String("request_id", requestctx.GetRequestID(r.Context())),
				slog.String("remote", r.RemoteAddr))
		})
	}
}
