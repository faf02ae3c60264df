package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lead-relay/internal/application/dispatch"
	"github.com/lead-relay/internal/application/otp"
	"github.com/lead-relay/internal/config"
	"github.com/lead-relay/internal/infrastructure/dynamo"
	"github.com/lead-relay/internal/infrastructure/filestore"
	jwtinfra "github.com/lead-relay/internal/infrastructure/jwt"
	"github.com/lead-relay/internal/infrastructure/smtp"
	transporthttp "github.com/lead-relay/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	setupLogger(cfg)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	integrations, webhooks, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("open stores", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}

	// JWT provider (optional: operator routes stay open without it).
	var jwtProvider *jwtinfra.Provider
	if !jwtinfra.Enabled(cfg) {
		slog.Warn("JWT keys not configured, operator routes are unauthenticated")
	} else if p, err := jwtinfra.NewProvider(cfg); err != nil {
		if cfg.IsProduction() {
			slog.Error("JWT provider not available", "err", err)
			os.Exit(1)
		}
		slog.Warn("JWT provider not available, operator routes are unauthenticated", "err", err)
	} else {
		jwtProvider = p
	}

	otpStore := otp.NewStore(smtp.OTPNotifier{Mailer: smtp.NewMailer(cfg)}, otp.Options{
		TTL:           cfg.OTP.TTL,
		Cooldown:      cfg.OTP.Cooldown,
		MaxAttempts:   cfg.OTP.MaxAttempts,
		CodeLength:    cfg.OTP.CodeLength,
		HashCost:      cfg.OTP.HashCost,
		SweepInterval: cfg.OTP.SweepInterval,
	})
	go otpStore.Run(ctx)

	broadcaster := dispatch.NewBroadcaster(dispatch.Deps{
		Integrations: integrations,
		Webhooks:     webhooks,
		Sender:       dispatch.NewSender(nil, cfg.Dispatch.Timeout),
		Policy:       dispatch.WebhookPolicy(cfg.Dispatch.WebhookPolicy),
	})

	router := transporthttp.NewRouter(ctx, cfg, &transporthttp.Deps{
		OTP:         otpStore,
		Dispatch:    broadcaster,
		JWTProvider: jwtProvider,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Dispatch.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		opts.Level = slog.LevelDebug
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func openStores(ctx context.Context, cfg *config.Config) (dispatch.IntegrationRepository, dispatch.WebhookConfigRepository, error) {
	switch cfg.StoreBackend {
	case "dynamo":
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("load AWS config: %w", err)
		}
		// Creates the tables if they don't exist.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewIntegrationRepo(client, cfg.DynamoTables.Integrations),
			dynamo.NewWebhookConfigRepo(client, cfg.DynamoTables.Settings), nil
	default:
		store, err := filestore.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store.Integrations(), store.Webhook(), nil
	}
}
