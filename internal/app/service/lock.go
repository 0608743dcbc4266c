package service

import (
	"context"
	"strings"
	"time"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

// Backoff selects how the wait between acquisition attempts grows.
type Backoff string

const (
	// BackoffLinear waits RetryInterval between every attempt.
	BackoffLinear Backoff = "linear"
	// BackoffExponential doubles the wait after every attempt.
	BackoffExponential Backoff = "exponential"
)

// LockOptions controls acquisition of a named lock.
type LockOptions struct {
	TTL           time.Duration
	RetryInterval time.Duration
	MaxRetries    int
	Backoff       Backoff
}

// DefaultLockOptions returns a 3s lock retried every 100ms up to 3 times.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		TTL:           3 * time.Second,
		RetryInterval: 100 * time.Millisecond,
		MaxRetries:    3,
		Backoff:       BackoffLinear,
	}
}

// Locker runs functions under a named mutual-exclusion lock held in the
// shared store.
//
// The lock is a single key created with set-if-absent and a TTL, and released
// by compare-and-delete on a per-acquisition owner token. It is advisory: the
// TTL is what frees the lock when a holder crashes, so a body that runs longer
// than the TTL can overlap with the next holder. Keep bodies short relative to
// the TTL.
type Locker interface {
	// WithLock runs body while holding name, using the configured defaults.
	WithLock(ctx context.Context, name string, body func(ctx context.Context) error) error

	// WithLockOptions runs body while holding name.
	// It fails with ErrLockAcquisitionTimeout when the lock stays taken after
	// all retries, and with ErrStoreUnavailable when the store cannot be
	// reached. The lock is released before returning whatever body does;
	// body's error is returned unchanged.
	WithLockOptions(ctx context.Context, name string, opts LockOptions, body func(ctx context.Context) error) error
}

// locker implements Locker.
type locker struct {
	store    kv.Store
	defaults LockOptions
	logger   log.Logger
}

// NewLocker creates a new Locker.
func NewLocker(store kv.Store, defaults LockOptions, logger log.Logger) Locker {
	return &locker{
		store:    store,
		defaults: normalizeLockOptions(defaults, DefaultLockOptions()),
		logger:   logger,
	}
}

func (l *locker) WithLock(ctx context.Context, name string, body func(ctx context.Context) error) error {
	return l.WithLockOptions(ctx, name, l.defaults, body)
}

func (l *locker) WithLockOptions(ctx context.Context, name string, opts LockOptions, body func(ctx context.Context) error) error {
	if strings.TrimSpace(name) == "" {
		return domainerror.ErrLockNameRequired
	}
	opts = normalizeLockOptions(opts, l.defaults)

	owner := []byte(types.NewID().String())
	if err := l.acquire(ctx, name, owner, opts); err != nil {
		return err
	}
	defer l.release(ctx, name, owner)

	return body(ctx)
}

func (l *locker) acquire(ctx context.Context, name string, owner []byte, opts LockOptions) error {
	wait := opts.RetryInterval

	for attempt := 0; ; attempt++ {
		ok, err := l.store.SetNX(ctx, name, owner, opts.TTL)
		if err != nil {
			l.logger.Error("lock acquisition failed",
				log.String("lock", name),
				log.String("error", err.Error()),
			)
			return domainerror.ErrStoreUnavailable
		}
		if ok {
			return nil
		}

		if attempt >= opts.MaxRetries {
			l.logger.Warn("lock acquisition timed out",
				log.String("lock", name),
				log.Any("attempts", attempt+1),
			)
			return domainerror.ErrLockAcquisitionTimeout
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if opts.Backoff == BackoffExponential {
			wait *= 2
		}
	}
}

// release runs even when the caller's context is already cancelled.
func (l *locker) release(ctx context.Context, name string, owner []byte) {
	deleted, err := l.store.CompareAndDelete(context.WithoutCancel(ctx), name, owner)
	if err != nil {
		l.logger.Error("failed to release lock",
			log.String("lock", name),
			log.String("error", err.Error()),
		)
		return
	}
	if !deleted {
		l.logger.Warn("lock expired before release",
			log.String("lock", name),
		)
	}
}

func normalizeLockOptions(opts, fallback LockOptions) LockOptions {
	if opts.TTL <= 0 {
		opts.TTL = fallback.TTL
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = fallback.RetryInterval
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff == "" {
		opts.Backoff = fallback.Backoff
	}
	return opts
}
