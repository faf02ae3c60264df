package filestore

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/lead-relay/internal/domain"
)

// IntegrationRepo stores every integration record in one JSON object keyed by name.
type IntegrationRepo struct {
	s   *Store
	now func() time.Time
}

func (r *IntegrationRepo) Get(_ context.Context, name string) (*domain.Integration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := r.loadLocked()
	if err != nil {
		return nil, err
	}
	rec, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("integration %s: %w", name, domain.ErrNotFound)
	}
	return rec, nil
}

// SetLiveSync updates the flag only, creating a default record when missing.
func (r *IntegrationRepo) SetLiveSync(_ context.Context, name string, enabled bool) error {
	return r.update(name, func(rec *domain.Integration) { rec.LiveSync = enabled })
}

// SaveConnection replaces endpoint and credentials, keeping the live-sync flag.
func (r *IntegrationRepo) SaveConnection(_ context.Context, name, endpoint string, credentials map[string]string) error {
	return r.update(name, func(rec *domain.Integration) {
		rec.Endpoint = endpoint
		rec.Credentials = maps.Clone(credentials)
	})
}

func (r *IntegrationRepo) update(name string, mutate func(*domain.Integration)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all, err := r.loadLocked()
	if err != nil {
		return err
	}
	rec, ok := all[name]
	if !ok {
		rec = &domain.Integration{Name: name}
		all[name] = rec
	}
	mutate(rec)
	rec.UpdatedAt = r.clock()
	return r.s.writeLocked(integrationsFile, all)
}

func (r *IntegrationRepo) loadLocked() (map[string]*domain.Integration, error) {
	all := map[string]*domain.Integration{}
	if _, err := r.s.readLocked(integrationsFile, &all); err != nil {
		return nil, err
	}
	for name, rec := range all {
		rec.Name = name
	}
	return all, nil
}

func (r *IntegrationRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}
