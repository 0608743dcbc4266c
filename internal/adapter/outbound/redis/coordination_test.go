package redis_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/0xsj/overwatch-pkg/types"

	redisstore "github.com/0xsj/overwatch-blog/internal/adapter/outbound/redis"
	"github.com/0xsj/overwatch-blog/internal/app/service"
	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/testutil"
)

// These tests run the coordination services against a real Redis server.

func TestRedis_PostCache(t *testing.T) {
	svc := testutil.NewServices(redisstore.NewStore(getClient(t)))
	ctx := testCtx

	post := model.ReconstructPost(1, "Title", "Body", types.Now())
	svc.Cache.SetOne(ctx, 1, post)
	svc.Cache.SetAll(ctx, []*model.Post{post})

	if got, found := svc.Cache.GetOne(ctx, 1); !found || got.Title() != "Title" {
		t.Fatalf("GetOne() = %v, %v", got, found)
	}

	svc.Cache.Invalidate(ctx, types.Some(int64(1)))

	if _, found := svc.Cache.GetOne(ctx, 1); found {
		t.Error("posts:1 should be invalidated")
	}
	if _, found := svc.Cache.GetAll(ctx); found {
		t.Error("posts:all should be invalidated")
	}
}

func TestRedis_RateLimiter(t *testing.T) {
	client := getClient(t)
	svc := testutil.NewServices(redisstore.NewStore(client))
	ctx := testCtx

	for i := range 5 {
		if svc.Limiter.IsLimited(ctx, "10.0.0.1", 5, time.Minute) {
			t.Fatalf("request %d limited, want allowed", i+1)
		}
	}
	if !svc.Limiter.IsLimited(ctx, "10.0.0.1", 5, time.Minute) {
		t.Error("sixth request should be limited")
	}

	ttl := client.TTL(ctx, "rate:10.0.0.1").Val()
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("counter TTL = %v, want within (0, 1m]", ttl)
	}
}

func TestRedis_Sessions(t *testing.T) {
	svc := testutil.NewServices(redisstore.NewStore(getClient(t)))
	ctx := testCtx

	token, err := svc.Sessions.CreateSession(ctx, "42", map[string]any{"email": "a@example.com"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	session, err := svc.Sessions.ValidateSession(ctx, token)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if session.SubjectID() != "42" {
		t.Errorf("SubjectID() = %q, want 42", session.SubjectID())
	}

	if err := svc.Sessions.InvalidateSession(ctx, "42"); err != nil {
		t.Fatalf("InvalidateSession() error = %v", err)
	}
	if _, err := svc.Sessions.ValidateSession(ctx, token); !errors.Is(err, domainerror.ErrUnauthenticated) {
		t.Errorf("ValidateSession() error = %v, want ErrUnauthenticated", err)
	}
}

func TestRedis_LockAcrossClients(t *testing.T) {
	getClient(t)

	// Each locker has its own connection pool, like separate processes.
	newLocker := func() service.Locker {
		client, err := redisstore.NewClient(testCtx, redisstore.ClientConfig{URL: testRedisURL})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		t.Cleanup(func() { client.Close() })
		return service.NewLocker(redisstore.NewStore(client), service.LockOptions{
			TTL:           5 * time.Second,
			RetryInterval: 5 * time.Millisecond,
			MaxRetries:    1000,
		}, testutil.Logger())
	}

	lockers := []service.Locker{newLocker(), newLocker(), newLocker()}

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		overlap atomic.Bool
	)
	for i := range 12 {
		wg.Add(1)
		go func(locker service.Locker) {
			defer wg.Done()
			err := locker.WithLock(testCtx, "post:update:1", func(ctx context.Context) error {
				if inside.Add(1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(2 * time.Millisecond)
				inside.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("WithLock() error = %v", err)
			}
		}(lockers[i%len(lockers)])
	}
	wg.Wait()

	if overlap.Load() {
		t.Error("lock bodies overlapped")
	}
}

func TestRedis_SearchIndex(t *testing.T) {
	svc := testutil.NewServices(redisstore.NewStore(getClient(t)))
	ctx := testCtx

	_ = svc.Index.Add(ctx, 1, "Tech Innovations in 2024")
	_ = svc.Index.Add(ctx, 2, "Innovations in Cooking")

	ids, err := svc.Index.Search(ctx, "innovations tech")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("Search() = %v, want [1 2]", ids)
	}

	_ = svc.Index.Remove(ctx, 1, "Tech Innovations in 2024")
	ids, _ = svc.Index.Search(ctx, "tech")
	if len(ids) != 0 {
		t.Errorf("Search(tech) after remove = %v, want empty", ids)
	}
}
