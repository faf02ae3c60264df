// Package filestore keeps integration records and the webhook config as JSON
// files on local disk. It suits single-instance deployments and development.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	integrationsFile = "integrations.json"
	webhookFile      = "webhook.json"
)

// Store guards every file under dir with one mutex; files are small and
// writes are rare operator actions.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New creates dir if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Integrations returns the integration repository backed by this store.
func (s *Store) Integrations() *IntegrationRepo { return &IntegrationRepo{s: s} }

// Webhook returns the webhook config repository backed by this store.
func (s *Store) Webhook() *WebhookRepo { return &WebhookRepo{s: s} }

// readLocked decodes name into v. It reports false when the file does not exist.
func (s *Store) readLocked(name string, v any) (bool, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// writeLocked replaces name atomically via a temp file and rename.
func (s *Store) writeLocked(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
