package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lead-relay/internal/domain"
	"github.com/lead-relay/internal/pkg/validate"
)

// DispatchService is the operator-facing surface of the broadcaster.
// *dispatch.Broadcaster implements it.
type DispatchService interface {
	NewEvent(name string, fields map[string]any) domain.DispatchEvent
	Broadcast(ctx context.Context, ev domain.DispatchEvent) map[string]domain.DispatchResult
	TestDispatch(ctx context.Context) (domain.DispatchResult, error)
	SetLiveSync(ctx context.Context, name string, enabled bool) error
	LiveSyncFlags(ctx context.Context) (map[string]bool, error)
	Connect(ctx context.Context, name, endpoint string, credentials map[string]string) error
	WebhookConfig(ctx context.Context) (*domain.WebhookConfig, error)
	SaveWebhookConfig(ctx context.Context, cfg *domain.WebhookConfig) error
}

// IntegrationHandler manages live-sync flags and CRM connections.
type IntegrationHandler struct {
	svc DispatchService
}

func NewIntegrationHandler(svc DispatchService) *IntegrationHandler {
	return &IntegrationHandler{svc: svc}
}

func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.writeFlags(w, r)
}

func (h *IntegrationHandler) SetLiveSync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled" validate:"required"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.SetLiveSync(r.Context(), chi.URLParam(r, "name"), *body.Enabled); err != nil {
		httpError(w, r, err)
		return
	}
	h.writeFlags(w, r)
}

func (h *IntegrationHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Endpoint    string            `json:"endpoint" validate:"required"`
		Credentials map[string]string `json:"credentials"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.Connect(r.Context(), chi.URLParam(r, "name"), body.Endpoint, body.Credentials); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "integration connected"})
}

func (h *IntegrationHandler) writeFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := h.svc.LiveSyncFlags(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LiveSyncEnvelope{LiveSync: flags})
}
