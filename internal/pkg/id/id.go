package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs sort by creation time, so receivers
// can order dispatched events by ID alone.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
