package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lead-relay/internal/config"
	jwtinfra "github.com/lead-relay/internal/infrastructure/jwt"
	"github.com/lead-relay/internal/transport/http/handler"
	appmiddleware "github.com/lead-relay/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// lifetime of background helpers such as the rate limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	operator := func(next http.Handler) http.Handler { return next }
	if deps.JWTProvider != nil {
		auth := appmiddleware.Auth(deps.JWTProvider)
		admin := appmiddleware.RequireRole(jwtinfra.RoleAdmin)
		operator = func(next http.Handler) http.Handler { return auth(admin(next)) }
	}

	// 5 requests/second, burst of 10, per client IP (see TrustProxyHeaders).
	otpRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	healthH := handler.NewHealthHandler()
	otpH := handler.NewOTPHandler(deps.OTP)
	webhookH := handler.NewWebhookHandler(deps.Dispatch)
	integrationH := handler.NewIntegrationHandler(deps.Dispatch)
	eventH := handler.NewEventHandler(deps.Dispatch)

	r.Route("/v1", func(r chi.Router) {
		// Public
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(otpRL.Limit).Post("/otp/send", otpH.Send)
		r.With(otpRL.Limit).Post("/otp/verify", otpH.Verify)

		// Operator
		r.Group(func(r chi.Router) {
			r.Use(operator)

			r.Get("/webhook", webhookH.Get)
			r.Post("/webhook", webhookH.Save)
			r.Post("/webhook/test", webhookH.Test)

			r.Get("/integrations", integrationH.List)
			r.Put("/integrations/{name}", integrationH.Connect)
			r.Put("/integrations/{name}/live-sync", integrationH.SetLiveSync)

			r.Post("/events/lead", eventH.Lead)
		})
	})

	return r
}
