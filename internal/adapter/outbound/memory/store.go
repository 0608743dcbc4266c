// Package memory provides an in-process kv.Store. It backs the memory://
// store URL for local development and is the substitute store in tests.
// It gives the same atomicity guarantees as Redis within a single process.
package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

var (
	errClosed    = errors.New("store closed")
	errWrongType = errors.New("operation against a key holding the wrong kind of value")
	errNotInt    = errors.New("value is not an integer")
)

type entry struct {
	value     []byte
	set       map[string]struct{}
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// DefaultSweepInterval is how often expired entries are reclaimed.
const DefaultSweepInterval = time.Minute

// Store implements kv.Store in memory.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	closed  bool

	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSweepInterval sets how often a background janitor deletes expired
// entries. Zero or less disables the janitor.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		s.sweepInterval = d
	}
}

// NewStore creates an empty Store. Unless disabled with WithSweepInterval, a
// janitor goroutine reclaims expired entries until Close.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:       make(map[string]*entry),
		now:           time.Now,
		sweepInterval: DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sweepInterval > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.janitor()
	}
	return s
}

func (s *Store) janitor() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep deletes every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ kv.Store = (*Store)(nil)

// lookup returns the live entry for key, evicting it if it has expired.
// Callers must hold s.mu.
func (s *Store) lookup(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		return nil
	}
	return e
}

func (s *Store) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *Store) check(op, key string) error {
	if s.closed {
		return fail(op, key, errClosed)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("GET", key); err != nil {
		return nil, false, err
	}

	e := s.lookup(key)
	if e == nil {
		return nil, false, nil
	}
	if e.set != nil {
		return nil, false, fail("GET", key, errWrongType)
	}
	return bytes.Clone(e.value), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("SET", key); err != nil {
		return err
	}

	s.entries[key] = &entry{value: bytes.Clone(value), expiresAt: s.expiry(ttl)}
	return nil
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) == 0 {
		return nil
	}
	if err := s.check("DEL", keys[0]); err != nil {
		return err
	}

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("INCR", key); err != nil {
		return 0, err
	}

	e := s.lookup(key)
	if e == nil {
		s.entries[key] = &entry{value: []byte("1")}
		return 1, nil
	}
	if e.set != nil {
		return 0, fail("INCR", key, errWrongType)
	}

	n, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return 0, fail("INCR", key, errNotInt)
	}
	n++
	e.value = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("EXPIRE", key); err != nil {
		return false, err
	}

	e := s.lookup(key)
	if e == nil {
		return false, nil
	}
	if ttl <= 0 {
		delete(s.entries, key)
		return true, nil
	}
	e.expiresAt = s.expiry(ttl)
	return true, nil
}

func (s *Store) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("SETNX", key); err != nil {
		return false, err
	}

	if s.lookup(key) != nil {
		return false, nil
	}
	s.entries[key] = &entry{value: bytes.Clone(value), expiresAt: s.expiry(ttl)}
	return true, nil
}

func (s *Store) CompareAndDelete(ctx context.Context, key string, expected []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("CAD", key); err != nil {
		return false, err
	}

	e := s.lookup(key)
	if e == nil || e.set != nil || !bytes.Equal(e.value, expected) {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

func (s *Store) SAdd(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("SADD", key); err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}

	e := s.lookup(key)
	if e == nil {
		e = &entry{set: make(map[string]struct{}, len(members))}
		s.entries[key] = e
	}
	if e.set == nil {
		return fail("SADD", key, errWrongType)
	}
	for _, m := range members {
		e.set[m] = struct{}{}
	}
	return nil
}

func (s *Store) SRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("SREM", key); err != nil {
		return err
	}

	e := s.lookup(key)
	if e == nil {
		return nil
	}
	if e.set == nil {
		return fail("SREM", key, errWrongType)
	}
	for _, m := range members {
		delete(e.set, m)
	}
	if len(e.set) == 0 {
		delete(s.entries, key)
	}
	return nil
}

func (s *Store) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) == 0 {
		return nil, nil
	}
	if err := s.check("SUNION", keys[0]); err != nil {
		return nil, err
	}

	union := make(map[string]struct{})
	for _, key := range keys {
		e := s.lookup(key)
		if e == nil {
			continue
		}
		if e.set == nil {
			return nil, fail("SUNION", key, errWrongType)
		}
		for m := range e.set {
			union[m] = struct{}{}
		}
	}
	return members(union), nil
}

func (s *Store) SInter(ctx context.Context, keys ...string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) == 0 {
		return nil, nil
	}
	if err := s.check("SINTER", keys[0]); err != nil {
		return nil, err
	}

	var inter map[string]struct{}
	for _, key := range keys {
		e := s.lookup(key)
		if e == nil {
			return []string{}, nil
		}
		if e.set == nil {
			return nil, fail("SINTER", key, errWrongType)
		}
		if inter == nil {
			inter = make(map[string]struct{}, len(e.set))
			for m := range e.set {
				inter[m] = struct{}{}
			}
			continue
		}
		for m := range inter {
			if _, ok := e.set[m]; !ok {
				delete(inter, m)
			}
		}
	}
	return members(inter), nil
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check("PING", "")
}

// Close marks the store closed and stops the janitor. Every later call fails
// with kv.ErrUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		<-s.done
	}
	return nil
}

// TTL returns the remaining time to live of key, and false when the key is
// missing or has no expiry.
func (s *Store) TTL(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil || e.expiresAt.IsZero() {
		return 0, false
	}
	return e.expiresAt.Sub(s.now()), true
}

func members(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out
}

func fail(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", kv.ErrUnavailable, op, key, err)
}
