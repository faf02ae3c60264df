package filestore

import (
	"context"
	"fmt"

	"github.com/lead-relay/internal/domain"
)

// WebhookRepo stores the webhook config blob.
type WebhookRepo struct {
	s *Store
}

func (r *WebhookRepo) Get(_ context.Context) (*domain.WebhookConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var cfg domain.WebhookConfig
	found, err := r.s.readLocked(webhookFile, &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("webhook config: %w", domain.ErrNotFound)
	}
	return &cfg, nil
}

// Put overwrites the whole blob.
func (r *WebhookRepo) Put(_ context.Context, cfg *domain.WebhookConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.writeLocked(webhookFile, cfg)
}
