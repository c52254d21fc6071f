package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable wraps failures of the backing store, as opposed to a
	// missing key.
	ErrUnavailable = errors.New("session store unavailable")
	// ErrConflict is returned by Update when the key kept changing under it
	// for every attempt.
	ErrConflict = errors.New("session store write conflict")
)

// TTLPolicy mirrors the sliding/absolute expiry pair of a distributed cache
// entry. A zero field disables that bound.
type TTLPolicy struct {
	Sliding  time.Duration
	Absolute time.Duration
}

// MutateFunc receives the current payload (nil when the key is absent) and
// returns the payload to write. Returning nil data skips the write.
type MutateFunc func(current []byte) ([]byte, error)

// SessionStore persists opaque session payloads per game code
type SessionStore interface {
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, code string) ([]byte, error)
	Set(ctx context.Context, code string, data []byte, policy *TTLPolicy) error
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
	// Update applies fn as an optimistic compare-and-swap. Errors returned by
	// fn abort the update and are returned unchanged.
	Update(ctx context.Context, code string, fn MutateFunc) error
}

// entryMeta is the expiry bookkeeping stored next to each payload
type entryMeta struct {
	absoluteDeadline time.Time     // zero: no absolute bound
	sliding          time.Duration // zero: no sliding bound
}

func newEntryMeta(now time.Time, policy *TTLPolicy) entryMeta {
	var m entryMeta
	if policy == nil {
		return m
	}
	if policy.Absolute > 0 {
		m.absoluteDeadline = now.Add(policy.Absolute)
	}
	m.sliding = policy.Sliding
	return m
}

// expiry returns the TTL to apply now. ok is false when the entry carries no
// bound at all; a non-positive ttl with ok means the entry is already expired.
func (m entryMeta) expiry(now time.Time) (ttl time.Duration, ok bool) {
	switch {
	case m.sliding > 0 && !m.absoluteDeadline.IsZero():
		ttl = m.sliding
		if remaining := m.absoluteDeadline.Sub(now); remaining < ttl {
			ttl = remaining
		}
		return ttl, true
	case m.sliding > 0:
		return m.sliding, true
	case !m.absoluteDeadline.IsZero():
		return m.absoluteDeadline.Sub(now), true
	default:
		return 0, false
	}
}

func unavailable(op, code string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, op, code, err)
}
