package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-blog/internal/adapter/outbound/memory"
	"github.com/0xsj/overwatch-blog/internal/app/service"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

func testLogger() log.Logger {
	return log.NewPretty(log.DefaultConfig())
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingStore wraps a Store and fails the operations named in failOn.
type failingStore struct {
	kv.Store

	mu     sync.Mutex
	failOn map[string]bool
	calls  map[string]int
}

func newFailingStore(inner kv.Store, ops ...string) *failingStore {
	s := &failingStore{
		Store:  inner,
		failOn: make(map[string]bool),
		calls:  make(map[string]int),
	}
	for _, op := range ops {
		s.failOn[op] = true
	}
	return s
}

func (s *failingStore) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	if s.failOn[op] {
		return fmt.Errorf("%w: %s: connection refused", kv.ErrUnavailable, op)
	}
	return nil
}

func (s *failingStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.fail("Get"); err != nil {
		return nil, false, err
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.fail("Set"); err != nil {
		return err
	}
	return s.Store.Set(ctx, key, value, ttl)
}

func (s *failingStore) Del(ctx context.Context, keys ...string) error {
	if err := s.fail("Del"); err != nil {
		return err
	}
	return s.Store.Del(ctx, keys...)
}

func (s *failingStore) Incr(ctx context.Context, key string) (int64, error) {
	if err := s.fail("Incr"); err != nil {
		return 0, err
	}
	return s.Store.Incr(ctx, key)
}

func (s *failingStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := s.fail("Expire"); err != nil {
		return false, err
	}
	return s.Store.Expire(ctx, key, ttl)
}

func (s *failingStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := s.fail("SetNX"); err != nil {
		return false, err
	}
	return s.Store.SetNX(ctx, key, value, ttl)
}

func (s *failingStore) CompareAndDelete(ctx context.Context, key string, expected []byte) (bool, error) {
	if err := s.fail("CompareAndDelete"); err != nil {
		return false, err
	}
	return s.Store.CompareAndDelete(ctx, key, expected)
}

func (s *failingStore) SAdd(ctx context.Context, key string, members ...string) error {
	if err := s.fail("SAdd"); err != nil {
		return err
	}
	return s.Store.SAdd(ctx, key, members...)
}

func (s *failingStore) SRem(ctx context.Context, key string, members ...string) error {
	if err := s.fail("SRem"); err != nil {
		return err
	}
	return s.Store.SRem(ctx, key, members...)
}

func (s *failingStore) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	if err := s.fail("SUnion"); err != nil {
		return nil, err
	}
	return s.Store.SUnion(ctx, keys...)
}

func (s *failingStore) SInter(ctx context.Context, keys ...string) ([]string, error) {
	if err := s.fail("SInter"); err != nil {
		return nil, err
	}
	return s.Store.SInter(ctx, keys...)
}

func validTokenConfig() service.TokenConfig {
	cfg := service.DefaultTokenConfig()
	cfg.SigningKey = []byte("test-signing-key-that-is-long-enough-for-hs256")
	return cfg
}

func mustNewTokenService(t *testing.T) service.TokenService {
	t.Helper()
	svc, err := service.NewTokenService(validTokenConfig())
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	return svc
}

func newMemoryStore(clock *fakeClock) *memory.Store {
	if clock == nil {
		return memory.NewStore()
	}
	return memory.NewStore(memory.WithClock(clock.Now))
}
