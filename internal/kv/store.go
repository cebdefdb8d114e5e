// internal/kv/store.go
//
// Day-scoped key-value storage for the game engine.
// The daily answer and per-player sessions live here; every value carries a
// TTL that expires at local midnight, so day rollover needs no cleanup job.

package kv

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps transient infrastructure failures (connection refused,
// timeouts). Callers surface it as a store-unavailable condition; retry
// policy belongs to the transport.
var ErrUnavailable = errors.New("kv: store unavailable")

// Store defines the persistence contract for day-scoped state.
// Implementations may be backed by Redis (production) or memory (tests/dev).
type Store interface {
	// Get retrieves a value. The bool reports presence; an absent key is
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set writes a value with the given TTL, replacing any previous value.
	// A non-positive TTL stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX writes the value only if the key does not exist yet and
	// reports whether this call performed the write. This is the
	// idempotent-init primitive for the daily answer.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Exists reports whether the key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)
}
