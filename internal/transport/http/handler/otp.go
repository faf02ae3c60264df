package handler

import (
	"context"
	"net/http"

	"github.com/lead-relay/internal/application/otp"
)

// OTPService issues and checks email verification codes. *otp.Store implements it.
type OTPService interface {
	Issue(ctx context.Context, identity, displayName string) (otp.IssueResult, error)
	Verify(ctx context.Context, identity, code string) error
}

// OTPHandler serves the public verification endpoints.
type OTPHandler struct {
	svc OTPService
}

func NewOTPHandler(svc OTPService) *OTPHandler { return &OTPHandler{svc: svc} }

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		UserName string `json:"userName"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.Issue(r.Context(), body.Email, body.UserName)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, ExpiresIn: res.ExpiresIn})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Verify(r.Context(), body.Email, body.OTP); err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true})
}
