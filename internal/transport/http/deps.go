package http

import (
	jwtinfra "github.com/lead-relay/internal/infrastructure/jwt"
	"github.com/lead-relay/internal/transport/http/handler"
)

// Deps holds the services the router exposes.
type Deps struct {
	OTP      handler.OTPService
	Dispatch handler.DispatchService
	// JWTProvider guards the operator routes. Nil leaves them open.
	JWTProvider *jwtinfra.Provider
}
