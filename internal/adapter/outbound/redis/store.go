package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

// compareAndDeleteScript deletes KEYS[1] only while it still holds ARGV[1].
// Running GET and DEL inside one script makes the check atomic on the server.
var compareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// store implements kv.Store.
type store struct {
	client *redis.Client
}

// NewStore creates a kv.Store backed by a Redis client.
func NewStore(client *redis.Client) kv.Store {
	return &store{
		client: client,
	}
}

func (s *store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Miss
		}
		return nil, false, unavailable("GET", key, err)
	}
	return data, true, nil
}

func (s *store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable("SET", key, err)
	}
	return nil
}

func (s *store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable("DEL", keys[0], err)
	}
	return nil
}

func (s *store) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, unavailable("INCR", key, err)
	}
	return n, nil
}

func (s *store) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return false, unavailable("EXPIRE", key, err)
	}
	return ok, nil
}

func (s *store) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, unavailable("SETNX", key, err)
	}
	return ok, nil
}

func (s *store) CompareAndDelete(ctx context.Context, key string, expected []byte) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, s.client, []string{key}, expected).Int64()
	if err != nil {
		return false, unavailable("CAD", key, err)
	}
	return n > 0, nil
}

func (s *store) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := s.client.SAdd(ctx, key, toArgs(members)...).Err(); err != nil {
		return unavailable("SADD", key, err)
	}
	return nil
}

func (s *store) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := s.client.SRem(ctx, key, toArgs(members)...).Err(); err != nil {
		return unavailable("SREM", key, err)
	}
	return nil
}

func (s *store) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	members, err := s.client.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("SUNION", keys[0], err)
	}
	return members, nil
}

func (s *store) SInter(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	members, err := s.client.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("SINTER", keys[0], err)
	}
	return members, nil
}

func (s *store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %w", kv.ErrUnavailable, err)
	}
	return nil
}

func (s *store) Close() error {
	return s.client.Close()
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", kv.ErrUnavailable, op, key, err)
}

func toArgs(members []string) []interface{} {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return args
}
