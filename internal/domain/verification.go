package domain

import (
	"strings"
	"time"
)

// VerificationSession is a pending email OTP challenge, keyed by email.
// CodeHash is the bcrypt hash of the numeric code; the plain code is never kept.
type VerificationSession struct {
	Identity  string
	CodeHash  []byte
	IssuedAt  time.Time
	ExpiresAt time.Time
	Attempts  int
}

// Expired reports whether the session is past its expiry at now.
func (s *VerificationSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// NormalizeIdentity trims and lower-cases an email so lookups are case-insensitive.
func NormalizeIdentity(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
