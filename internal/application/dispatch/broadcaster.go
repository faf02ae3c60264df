package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lead-relay/internal/domain"
	"github.com/lead-relay/internal/pkg/id"
)

// IntegrationRepository persists integration records.
// Get returns an error wrapping domain.ErrNotFound when no record exists.
type IntegrationRepository interface {
	Get(ctx context.Context, name string) (*domain.Integration, error)
	SetLiveSync(ctx context.Context, name string, enabled bool) error
	SaveConnection(ctx context.Context, name, endpoint string, credentials map[string]string) error
}

// WebhookConfigRepository persists the webhook config blob.
// Get returns an error wrapping domain.ErrNotFound when nothing was saved yet.
type WebhookConfigRepository interface {
	Get(ctx context.Context) (*domain.WebhookConfig, error)
	Put(ctx context.Context, cfg *domain.WebhookConfig) error
}

// Deliverer sends one event to one target. *Sender implements it.
type Deliverer interface {
	Send(ctx context.Context, t Target, ev domain.DispatchEvent) domain.DispatchResult
}

// WebhookPolicy decides whether the webhook honours its own live-sync flag.
type WebhookPolicy string

const (
	// PolicyAlways fires the webhook whenever a URL is configured.
	PolicyAlways WebhookPolicy = "always"
	// PolicyLiveSync additionally requires live-sync on the webhook record.
	PolicyLiveSync WebhookPolicy = "live-sync"
)

type Deps struct {
	Integrations IntegrationRepository
	Webhooks     WebhookConfigRepository
	Sender       Deliverer
	Tokens       TokenProvider
	Policy       WebhookPolicy
	Now          func() time.Time
}

// Broadcaster fans events out to the webhook and every live integration.
type Broadcaster struct {
	integrations IntegrationRepository
	webhooks     WebhookConfigRepository
	sender       Deliverer
	tokens       TokenProvider
	policy       WebhookPolicy
	now          func() time.Time
}

func NewBroadcaster(deps Deps) *Broadcaster {
	b := &Broadcaster{
		integrations: deps.Integrations,
		webhooks:     deps.Webhooks,
		sender:       deps.Sender,
		tokens:       deps.Tokens,
		policy:       deps.Policy,
		now:          deps.Now,
	}
	if b.tokens == nil {
		b.tokens = CredentialTokens{}
	}
	if b.policy == "" {
		b.policy = PolicyAlways
	}
	if b.now == nil {
		b.now = func() time.Time { return time.Now().UTC() }
	}
	return b
}

// NewEvent stamps a fresh event with an ID and the current time.
func (b *Broadcaster) NewEvent(name string, fields map[string]any) domain.DispatchEvent {
	return domain.NewDispatchEvent(id.New(), name, b.now(), fields)
}

// Broadcast sends ev to every enabled destination concurrently and returns
// one result per attempted destination. Destinations that are not enabled
// or not configured have no entry.
func (b *Broadcaster) Broadcast(ctx context.Context, ev domain.DispatchEvent) map[string]domain.DispatchResult {
	targets, results := b.resolve(ctx, ev)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, t := range targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()
			r := b.deliver(ctx, t, ev)
			mu.Lock()
			results[t.Name] = r
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	for name, r := range results {
		if r.Success {
			slog.Info("dispatch delivered", "event", ev.Name, "event_id", ev.ID, "destination", name, "status", r.Status)
		} else {
			slog.Warn("dispatch failed", "event", ev.Name, "event_id", ev.ID, "destination", name, "status", r.Status, "err", r.Error)
		}
	}
	return results
}

// deliver shields siblings from a panicking Deliverer.
func (b *Broadcaster) deliver(ctx context.Context, t Target, ev domain.DispatchEvent) (res domain.DispatchResult) {
	defer func() {
		if p := recover(); p != nil {
			res = failed(t.Name, fmt.Sprintf("panic: %v", p))
		}
	}()
	return b.sender.Send(ctx, t, ev)
}

// resolve turns configuration into targets. Resolution failures for an
// enabled destination come back as failed results rather than being dropped.
func (b *Broadcaster) resolve(ctx context.Context, ev domain.DispatchEvent) ([]Target, map[string]domain.DispatchResult) {
	results := make(map[string]domain.DispatchResult)
	var targets []Target

	if t, ok, err := b.webhookTarget(ctx, ev); err != nil {
		results[domain.IntegrationWebhook] = unresolved(domain.IntegrationWebhook, err)
	} else if ok {
		targets = append(targets, t)
	}

	for _, name := range domain.IntegrationNames {
		if name == domain.IntegrationWebhook {
			continue
		}
		rec, err := b.record(ctx, name)
		if err != nil {
			results[name] = unresolved(name, err)
			continue
		}
		if !rec.LiveSync {
			continue
		}
		if rec.Endpoint == "" {
			results[name] = unresolved(name, fmt.Errorf("no endpoint configured: %w", domain.ErrConfigurationMissing))
			continue
		}
		tok, err := b.tokens.Token(ctx, *rec)
		if err != nil {
			results[name] = unresolved(name, err)
			continue
		}
		targets = append(targets, Target{Name: name, URL: rec.Endpoint, Headers: bearerHeaders(tok)})
	}
	return targets, results
}

func (b *Broadcaster) webhookTarget(ctx context.Context, ev domain.DispatchEvent) (Target, bool, error) {
	cfg, err := b.webhooks.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return Target{}, false, nil
	}
	if err != nil {
		return Target{}, false, fmt.Errorf("load webhook config: %w", err)
	}
	if !cfg.Configured() || !cfg.Accepts(ev.Name) {
		return Target{}, false, nil
	}
	if b.policy == PolicyLiveSync {
		rec, err := b.record(ctx, domain.IntegrationWebhook)
		if err != nil {
			return Target{}, false, err
		}
		if !rec.LiveSync {
			return Target{}, false, nil
		}
	}
	return Target{Name: domain.IntegrationWebhook, URL: cfg.URL, Headers: cfg.Headers}, true, nil
}

// record returns the stored integration or a default (live-sync off) one.
func (b *Broadcaster) record(ctx context.Context, name string) (*domain.Integration, error) {
	rec, err := b.integrations.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Integration{Name: name}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load integration %s: %w", name, err)
	}
	return rec, nil
}

// SetLiveSync flips the live-sync flag for name, creating the record if needed.
func (b *Broadcaster) SetLiveSync(ctx context.Context, name string, enabled bool) error {
	if !domain.IsKnownIntegration(name) {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownIntegration)
	}
	if err := b.integrations.SetLiveSync(ctx, name, enabled); err != nil {
		return fmt.Errorf("set live sync for %s: %w", name, err)
	}
	slog.Info("live sync updated", "integration", name, "enabled", enabled)
	return nil
}

// LiveSyncFlags reports the flag for every known integration.
func (b *Broadcaster) LiveSyncFlags(ctx context.Context) (map[string]bool, error) {
	flags := make(map[string]bool, len(domain.IntegrationNames))
	for _, name := range domain.IntegrationNames {
		rec, err := b.record(ctx, name)
		if err != nil {
			return nil, err
		}
		flags[name] = rec.LiveSync
	}
	return flags, nil
}

// Connect stores the endpoint and credentials of a CRM integration.
// The live-sync flag is left as it is.
func (b *Broadcaster) Connect(ctx context.Context, name, endpoint string, credentials map[string]string) error {
	if !domain.IsKnownIntegration(name) {
		return fmt.Errorf("%q: %w", name, domain.ErrUnknownIntegration)
	}
	if name == domain.IntegrationWebhook {
		return fmt.Errorf("the webhook is configured through its own settings: %w", domain.ErrInvalidInput)
	}
	if !domain.ValidURL(endpoint) {
		return fmt.Errorf("endpoint must be an absolute http(s) url: %w", domain.ErrInvalidInput)
	}
	return b.integrations.SaveConnection(ctx, name, endpoint, credentials)
}

// WebhookConfig returns the saved config, or an empty one if none was saved.
func (b *Broadcaster) WebhookConfig(ctx context.Context) (*domain.WebhookConfig, error) {
	cfg, err := b.webhooks.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.WebhookConfig{Events: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load webhook config: %w", err)
	}
	if cfg.Events == nil {
		cfg.Events = []string{}
	}
	return cfg, nil
}

// SaveWebhookConfig overwrites the whole config. Headers are stored as given.
func (b *Broadcaster) SaveWebhookConfig(ctx context.Context, cfg *domain.WebhookConfig) error {
	if cfg.URL != "" && !domain.ValidURL(cfg.URL) {
		return fmt.Errorf("url must be an absolute http(s) url: %w", domain.ErrInvalidInput)
	}
	if cfg.Events == nil {
		cfg.Events = []string{}
	}
	return b.webhooks.Put(ctx, cfg)
}

// TestDispatch sends a labelled sample lead to the webhook only.
func (b *Broadcaster) TestDispatch(ctx context.Context) (domain.DispatchResult, error) {
	cfg, err := b.webhooks.Get(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.DispatchResult{}, fmt.Errorf("load webhook config: %w", err)
	}
	if !cfg.Configured() {
		return domain.DispatchResult{}, fmt.Errorf("no webhook url configured: %w", domain.ErrConfigurationMissing)
	}

	fields := SampleLead(b.now()).Fields()
	fields["is_test"] = true
	ev := b.NewEvent(domain.EventTest, fields)

	res := b.deliver(ctx, Target{Name: domain.IntegrationWebhook, URL: cfg.URL, Headers: cfg.Headers}, ev)
	slog.Info("webhook test dispatched", "event_id", ev.ID, "success", res.Success, "status", res.Status)
	return res, nil
}

func failed(name, msg string) domain.DispatchResult {
	return domain.DispatchResult{Destination: name, Error: msg}
}

// unresolved reports an enabled destination that could not be turned into a target.
func unresolved(name string, err error) domain.DispatchResult {
	return failed(name, fmt.Errorf("%w: %w", domain.ErrDispatchFailed, err).Error())
}
