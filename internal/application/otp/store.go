package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"sync"
	"time"

	"github.com/lead-relay/internal/domain"
	"github.com/lead-relay/internal/pkg/sweep"
	"golang.org/x/crypto/bcrypt"
)

// Notifier delivers an issued code to its recipient.
type Notifier interface {
	SendOTP(ctx context.Context, to, displayName, code string, ttl time.Duration) error
}

// Options tunes the store. Unset durations and counts fall back to
// DefaultOptions; a zero Cooldown disables the issuance cooldown.
type Options struct {
	TTL           time.Duration
	Cooldown      time.Duration
	MaxAttempts   int
	CodeLength    int
	HashCost      int
	SweepInterval time.Duration

	Now      func() time.Time
	Generate func(length int) (string, error)
}

// DefaultOptions matches the production policy: 10 minute codes, one issuance
// per minute, five attempts.
func DefaultOptions() Options {
	return Options{
		TTL:           10 * time.Minute,
		Cooldown:      time.Minute,
		MaxAttempts:   5,
		CodeLength:    6,
		HashCost:      bcrypt.DefaultCost,
		SweepInterval: time.Minute,
		Now:           func() time.Time { return time.Now().UTC() },
		Generate:      RandomCode,
	}
}

// IssueResult is returned on successful issuance.
type IssueResult struct {
	ExpiresIn int `json:"expiresIn"` // seconds
}

// Store holds the live verification sessions for the process.
// The mutex guards the map only; hashing and delivery run outside it.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.VerificationSession
	notifier Notifier
	opts     Options
}

func NewStore(notifier Notifier, opts Options) *Store {
	def := DefaultOptions()
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.Cooldown < 0 {
		opts.Cooldown = def.Cooldown
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.CodeLength <= 0 {
		opts.CodeLength = def.CodeLength
	}
	if opts.HashCost < bcrypt.MinCost || opts.HashCost > bcrypt.MaxCost {
		opts.HashCost = def.HashCost
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = def.SweepInterval
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	if opts.Generate == nil {
		opts.Generate = def.Generate
	}
	return &Store{
		sessions: make(map[string]*domain.VerificationSession),
		notifier: notifier,
		opts:     opts,
	}
}

// Issue creates (or replaces) the session for identity and sends the code.
// A session issued less than Cooldown ago is kept and ErrRateLimited returned.
// If delivery fails the stored session is not rolled back.
func (s *Store) Issue(ctx context.Context, identity, displayName string) (IssueResult, error) {
	identity = domain.NormalizeIdentity(identity)
	if identity == "" {
		return IssueResult{}, fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	}
	if err := s.checkCooldown(identity, s.opts.Now()); err != nil {
		return IssueResult{}, err
	}

	code, err := s.opts.Generate(s.opts.CodeLength)
	if err != nil {
		return IssueResult{}, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.opts.HashCost)
	if err != nil {
		return IssueResult{}, fmt.Errorf("hash code: %w", err)
	}

	now := s.opts.Now()
	sess := &domain.VerificationSession{
		Identity:  identity,
		CodeHash:  hash,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.opts.TTL),
	}
	s.mu.Lock()
	// Re-check under the lock: a concurrent Issue may have won while we hashed.
	if err := s.cooldownLocked(identity, now); err != nil {
		s.mu.Unlock()
		return IssueResult{}, err
	}
	s.sessions[identity] = sess
	s.mu.Unlock()

	if s.notifier != nil {
		if err := s.notifier.SendOTP(ctx, identity, displayName, code, s.opts.TTL); err != nil {
			slog.Warn("otp delivery failed", "identity", identity, "err", err)
			return IssueResult{}, fmt.Errorf("send verification email: %w: %w", domain.ErrDeliveryFailed, err)
		}
	}
	slog.Info("otp issued", "identity", identity, "expires_at", sess.ExpiresAt)
	return IssueResult{ExpiresIn: int(s.opts.TTL / time.Second)}, nil
}

func (s *Store) checkCooldown(identity string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldownLocked(identity, now)
}

func (s *Store) cooldownLocked(identity string, now time.Time) error {
	prev, ok := s.sessions[identity]
	if !ok || prev.Expired(now) {
		return nil
	}
	if wait := s.opts.Cooldown - now.Sub(prev.IssuedAt); wait > 0 {
		return fmt.Errorf("wait %ds before requesting another code: %w", int(math.Ceil(wait.Seconds())), domain.ErrRateLimited)
	}
	return nil
}

// Verify consumes one attempt against the session for identity.
// It returns nil on success and one of the ErrOTP*/ErrTooManyAttempts sentinels otherwise.
func (s *Store) Verify(_ context.Context, identity, code string) error {
	identity = domain.NormalizeIdentity(identity)
	if identity == "" || code == "" {
		return fmt.Errorf("email and otp are required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	sess, ok := s.sessions[identity]
	if !ok {
		s.mu.Unlock()
		return domain.ErrOTPNotFound
	}
	now := s.opts.Now()
	if sess.Expired(now) {
		delete(s.sessions, identity)
		s.mu.Unlock()
		return domain.ErrOTPExpired
	}
	if sess.Attempts >= s.opts.MaxAttempts {
		delete(s.sessions, identity)
		s.mu.Unlock()
		return domain.ErrTooManyAttempts
	}
	hash := sess.CodeHash
	s.mu.Unlock()

	cmpErr := bcrypt.CompareHashAndPassword(hash, []byte(code))
	if cmpErr != nil && !errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("compare code: %w", cmpErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessions[identity] != sess {
		// Replaced by a new issuance, verified, or swept while comparing.
		return domain.ErrOTPNotFound
	}
	if cmpErr == nil {
		delete(s.sessions, identity)
		slog.Info("otp verified", "identity", identity)
		return nil
	}
	sess.Attempts++
	if sess.Attempts >= s.opts.MaxAttempts {
		delete(s.sessions, identity)
		slog.Warn("otp attempts exhausted", "identity", identity)
		return domain.ErrTooManyAttempts
	}
	return domain.ErrOTPMismatch
}

// Sweep removes every expired session regardless of attempt count and
// returns how many were removed.
func (s *Store) Sweep() int {
	now := s.opts.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every SweepInterval until ctx is canceled.
func (s *Store) Run(ctx context.Context) {
	sweep.Every(ctx, s.opts.SweepInterval, func() {
		if n := s.Sweep(); n > 0 {
			slog.Debug("otp sweep", "removed", n)
		}
	})
}

// Len returns the number of sessions currently held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RandomCode returns a zero-padded numeric code of the given length from crypto/rand.
func RandomCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n.Int64()), nil
}
