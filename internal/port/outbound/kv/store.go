package kv

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is wrapped by every error a Store returns.
// It marks the store as unreachable or failing; a missing key is never an error.
// Components decide per call whether to degrade (cache, rate limiting) or to
// surface it (sessions, locks).
var ErrUnavailable = errors.New("kv store unavailable")

// Store is the contract over the shared remote key-value store.
// Implementations must be safe for concurrent use; atomicity of Incr, SetNX
// and CompareAndDelete is provided by the store itself so that it holds
// across processes.
type Store interface {
	// Get returns the value stored at key. found is false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value at key. A zero ttl stores the key without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes keys. Missing keys are ignored.
	Del(ctx context.Context, keys ...string) error

	// Incr atomically increments the integer at key, creating it at 0 first.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets a TTL on an existing key. ok is false when the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (ok bool, err error)

	// SetNX stores value at key only if the key does not exist.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// CompareAndDelete deletes key only if its current value equals expected.
	CompareAndDelete(ctx context.Context, key string, expected []byte) (deleted bool, err error)

	// SAdd adds members to the set at key.
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem removes members from the set at key. Empty sets are removed.
	SRem(ctx context.Context, key string, members ...string) error

	// SUnion returns the union of the sets at keys.
	SUnion(ctx context.Context, keys ...string) ([]string, error)

	// SInter returns the intersection of the sets at keys.
	SInter(ctx context.Context, keys ...string) ([]string, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// IsUnavailable reports whether err originates from an unreachable store.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
