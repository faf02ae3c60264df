package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lead-relay/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
}

// ResultEnvelope is returned by OTP and test actions.
type ResultEnvelope struct {
	Success    bool   `json:"success"`
	ExpiresIn  int    `json:"expiresIn,omitempty"`
	Status     int    `json:"status,omitempty"`
	StatusText string `json:"statusText,omitempty"`
	Error      string `json:"error,omitempty"`
}

// LiveSyncEnvelope lists the live-sync flag of every integration.
type LiveSyncEnvelope struct {
	LiveSync map[string]bool `json:"liveSync"`
}

// LeadEventEnvelope reports the per-destination outcome of a lead broadcast.
type LeadEventEnvelope struct {
	EventID string                           `json:"event_id"`
	Results map[string]domain.DispatchResult `json:"results"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ResultEnvelope{Error: msg})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
