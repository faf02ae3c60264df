package handler

import (
	"context"
	"net/http"

	"github.com/lead-relay/internal/domain"
	"github.com/lead-relay/internal/pkg/validate"
)

// EventHandler triggers broadcasts for lead lifecycle events.
type EventHandler struct {
	svc DispatchService
}

func NewEventHandler(svc DispatchService) *EventHandler { return &EventHandler{svc: svc} }

// Lead broadcasts a newLead event. Destination failures are part of the
// 200 response; they never fail the request. Deliveries outlive a client
// that hangs up mid-broadcast.
func (h *EventHandler) Lead(w http.ResponseWriter, r *http.Request) {
	var lead domain.Lead
	if err := decode(r, &lead); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(lead); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ev := h.svc.NewEvent(domain.EventNewLead, lead.Fields())
	results := h.svc.Broadcast(context.WithoutCancel(r.Context()), ev)
	writeJSON(w, http.StatusOK, LeadEventEnvelope{EventID: ev.ID, Results: results})
}
