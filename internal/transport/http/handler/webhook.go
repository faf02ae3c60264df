package handler

import (
	"errors"
	"net/http"

	"github.com/lead-relay/internal/domain"
)

// WebhookHandler reads, overwrites and tests the webhook config.
type WebhookHandler struct {
	svc DispatchService
}

func NewWebhookHandler(svc DispatchService) *WebhookHandler { return &WebhookHandler{svc: svc} }

func (h *WebhookHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.WebhookConfig(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *WebhookHandler) Save(w http.ResponseWriter, r *http.Request) {
	var cfg domain.WebhookConfig
	if err := decode(r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SaveWebhookConfig(r.Context(), &cfg); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Test sends the sample lead to the configured webhook. A remote failure is
// reported as 502 together with whatever status the receiver returned.
func (h *WebhookHandler) Test(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.TestDispatch(r.Context())
	if errors.Is(err, domain.ErrConfigurationMissing) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		httpError(w, r, err)
		return
	}
	env := ResultEnvelope{Success: res.Success, Status: res.Status, StatusText: res.StatusText, Error: res.Error}
	if !res.Success {
		writeJSON(w, http.StatusBadGateway, env)
		return
	}
	writeJSON(w, http.StatusOK, env)
}
