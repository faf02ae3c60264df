package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound = errors.New("not found")

	ErrInvalidInput         = errors.New("invalid input")
	ErrRateLimited          = errors.New("rate limited")
	ErrDeliveryFailed       = errors.New("delivery failed")
	ErrDispatchFailed       = errors.New("dispatch failed")
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrUnknownIntegration   = errors.New("unknown integration")
)

// Verification outcomes. Each maps to its own user-facing message.
var (
	ErrOTPNotFound     = errors.New("no verification code was requested for this email")
	ErrOTPExpired      = errors.New("verification code has expired")
	ErrOTPMismatch     = errors.New("verification code is incorrect")
	ErrTooManyAttempts = errors.New("too many failed attempts; request a new code")
)
