package redis_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	redisstore "github.com/0xsj/overwatch-blog/internal/adapter/outbound/redis"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

func TestStore_GetSet(t *testing.T) {
	client := getClient(t)
	store := redisstore.NewStore(client)
	ctx := testCtx

	t.Run("miss is not an error", func(t *testing.T) {
		value, found, err := store.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if found || value != nil {
			t.Errorf("Get() = %q, %v, want miss", value, found)
		}
	})

	t.Run("set with ttl", func(t *testing.T) {
		if err := store.Set(ctx, "posts:all", []byte(`[]`), time.Hour); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		value, found, err := store.Get(ctx, "posts:all")
		if err != nil || !found {
			t.Fatalf("Get() found = %v, error = %v", found, err)
		}
		if string(value) != "[]" {
			t.Errorf("Get() = %q, want []", value)
		}

		ttl := client.TTL(ctx, "posts:all").Val()
		if ttl <= 0 || ttl > time.Hour {
			t.Errorf("TTL = %v, want within (0, 1h]", ttl)
		}
	})

	t.Run("del ignores missing keys", func(t *testing.T) {
		_ = store.Set(ctx, "posts:1", []byte("x"), 0)

		if err := store.Del(ctx, "posts:1", "posts:2"); err != nil {
			t.Fatalf("Del() error = %v", err)
		}
		if _, found, _ := store.Get(ctx, "posts:1"); found {
			t.Error("posts:1 should be deleted")
		}
	})
}

func TestStore_IncrExpire(t *testing.T) {
	client := getClient(t)
	store := redisstore.NewStore(client)
	ctx := testCtx

	for want := int64(1); want <= 3; want++ {
		got, err := store.Incr(ctx, "rate:1.2.3.4")
		if err != nil {
			t.Fatalf("Incr() error = %v", err)
		}
		if got != want {
			t.Errorf("Incr() = %d, want %d", got, want)
		}
	}

	ok, err := store.Expire(ctx, "rate:1.2.3.4", time.Minute)
	if err != nil || !ok {
		t.Fatalf("Expire() = %v, %v, want true", ok, err)
	}

	ok, err = store.Expire(ctx, "rate:missing", time.Minute)
	if err != nil {
		t.Fatalf("Expire() error = %v", err)
	}
	if ok {
		t.Error("Expire() on a missing key should report false")
	}
}

func TestStore_SetNXCompareAndDelete(t *testing.T) {
	client := getClient(t)
	store := redisstore.NewStore(client)
	ctx := testCtx

	ok, err := store.SetNX(ctx, "post:update:1", []byte("owner-a"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("SetNX() = %v, %v, want true", ok, err)
	}

	ok, err = store.SetNX(ctx, "post:update:1", []byte("owner-b"), time.Minute)
	if err != nil {
		t.Fatalf("SetNX() error = %v", err)
	}
	if ok {
		t.Error("second SetNX should fail while the key exists")
	}

	deleted, err := store.CompareAndDelete(ctx, "post:update:1", []byte("owner-b"))
	if err != nil {
		t.Fatalf("CompareAndDelete() error = %v", err)
	}
	if deleted {
		t.Error("CompareAndDelete with the wrong owner must not delete")
	}

	deleted, err = store.CompareAndDelete(ctx, "post:update:1", []byte("owner-a"))
	if err != nil || !deleted {
		t.Fatalf("CompareAndDelete() = %v, %v, want true", deleted, err)
	}

	deleted, _ = store.CompareAndDelete(ctx, "post:update:1", []byte("owner-a"))
	if deleted {
		t.Error("CompareAndDelete on a missing key must report false")
	}
}

func TestStore_Sets(t *testing.T) {
	client := getClient(t)
	store := redisstore.NewStore(client)
	ctx := testCtx

	_ = store.SAdd(ctx, "search:go", "1", "3")
	_ = store.SAdd(ctx, "search:redis", "2", "3")

	union, err := store.SUnion(ctx, "search:go", "search:redis", "search:missing")
	if err != nil {
		t.Fatalf("SUnion() error = %v", err)
	}
	slices.Sort(union)
	if !slices.Equal(union, []string{"1", "2", "3"}) {
		t.Errorf("SUnion() = %v, want [1 2 3]", union)
	}

	inter, err := store.SInter(ctx, "search:go", "search:redis")
	if err != nil {
		t.Fatalf("SInter() error = %v", err)
	}
	if !slices.Equal(inter, []string{"3"}) {
		t.Errorf("SInter() = %v, want [3]", inter)
	}

	_ = store.SRem(ctx, "search:go", "1", "3")
	if n := client.Exists(ctx, "search:go").Val(); n != 0 {
		t.Error("empty set should be removed")
	}

	if err := store.SAdd(ctx, "search:empty"); err != nil {
		t.Errorf("SAdd() with no members error = %v", err)
	}
}

func TestStore_ConcurrentSetNX(t *testing.T) {
	client := getClient(t)
	store := redisstore.NewStore(client)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.SetNX(testCtx, "post:update:9", []byte("x"), time.Minute)
			if err != nil {
				t.Errorf("SetNX() error = %v", err)
				return
			}
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
}

func TestStore_Unavailable(t *testing.T) {
	getClient(t)

	client, err := redisstore.NewClient(testCtx, redisstore.ClientConfig{URL: testRedisURL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	store := redisstore.NewStore(client)
	_ = store.Close()

	ctx, cancel := context.WithTimeout(testCtx, time.Second)
	defer cancel()

	if _, _, err := store.Get(ctx, "posts:all"); !errors.Is(err, kv.ErrUnavailable) {
		t.Errorf("Get() error = %v, want kv.ErrUnavailable", err)
	}
	if _, err := store.Incr(ctx, "rate:x"); !kv.IsUnavailable(err) {
		t.Errorf("Incr() error = %v, want kv.ErrUnavailable", err)
	}
	if err := store.Ping(ctx); !kv.IsUnavailable(err) {
		t.Errorf("Ping() error = %v, want kv.ErrUnavailable", err)
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := redisstore.NewClient(context.Background(), redisstore.ClientConfig{URL: "not-a-url"})
	if err == nil {
		t.Error("NewClient() should reject an invalid url")
	}
}
