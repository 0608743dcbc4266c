// Package testutil provides testing utilities for the blog service.
package testutil

import (
	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-blog/internal/adapter/outbound/memory"
	"github.com/0xsj/overwatch-blog/internal/app/service"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

// SigningKey signs session tokens in tests.
var SigningKey = []byte("test-signing-key-that-is-long-enough-for-hs256")

// Services bundles the coordination services over one shared store.
type Services struct {
	Store    kv.Store
	Cache    service.PostCache
	Index    service.SearchIndex
	Locker   service.Locker
	Limiter  service.RateLimiter
	Sessions service.SessionManager
}

// Logger returns the logger used in tests.
func Logger() log.Logger {
	return log.NewPretty(log.DefaultConfig())
}

// NewServices wires the coordination services over store. A nil store
// gets a fresh in-memory one.
func NewServices(store kv.Store) Services {
	if store == nil {
		store = memory.NewStore()
	}
	logger := Logger()

	tokenConfig := service.DefaultTokenConfig()
	tokenConfig.SigningKey = SigningKey
	tokens, err := service.NewTokenService(tokenConfig)
	if err != nil {
		panic(err)
	}

	return Services{
		Store:    store,
		Cache:    service.NewPostCache(store, 0, logger),
		Index:    service.NewSearchIndex(store, service.MatchAny, logger),
		Locker:   service.NewLocker(store, service.DefaultLockOptions(), logger),
		Limiter:  service.NewRateLimiter(store, service.DefaultRateLimitConfig(), logger),
		Sessions: service.NewSessionManager(store, tokens, 0, logger),
	}
}
