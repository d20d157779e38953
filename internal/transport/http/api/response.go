package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"peopledesk/internal/requestctx"
)

type Envelope struct {
	Success   bool     `json:"success"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func write(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	env.RequestID = requestctx.GetRequestID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

func Success(w http.ResponseWriter, r *http.Request, data any) {
	write(w, r, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, r *http.Request, data any) {
	write(w, r, http.StatusCreated, Envelope{Success: true, Data: data})
}

func NoContent(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusOK, Envelope{Success: true})
}

func Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	write(w, r, status, Envelope{Success: false, Error: message})
}

func FailWithDetails(w http.ResponseWriter, r *http.Request, status int, message string, details []string) {
	write(w, r, status, Envelope{Success: false, Error: message, Details: details})
}
