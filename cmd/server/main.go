package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	natsclient "github.com/nats-io/nats.go"

	"github.com/0xsj/overwatch-pkg/log"

	bloggrpc "github.com/0xsj/overwatch-blog/internal/adapter/inbound/grpc"
	"github.com/0xsj/overwatch-blog/internal/adapter/outbound/memory"
	natsadapter "github.com/0xsj/overwatch-blog/internal/adapter/outbound/nats"
	"github.com/0xsj/overwatch-blog/internal/adapter/outbound/postgres"
	redisstore "github.com/0xsj/overwatch-blog/internal/adapter/outbound/redis"
	"github.com/0xsj/overwatch-blog/internal/app/command"
	"github.com/0xsj/overwatch-blog/internal/app/query"
	"github.com/0xsj/overwatch-blog/internal/app/service"
	"github.com/0xsj/overwatch-blog/internal/config"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/messaging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := log.NewPretty(log.DefaultConfig())

	logger.Info("starting blog service",
		log.String("version", "1.0.0"),
		log.String("address", cfg.Server.Address()),
	)

	// Connect to PostgreSQL
	pool, err := connectPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}

	// Connect to the shared key-value store
	store, err := connectStore(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to kv store: %w", err)
	}
	defer store.Close()

	// Connect to NATS
	eventPublisher, closeNATS, err := newEventPublisher(cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer closeNATS()

	// Initialize repositories
	postRepo := postgres.NewPostRepository(pool)
	credentialVerifier := postgres.NewCredentialVerifier(pool)

	// Initialize coordination services
	postCache := service.NewPostCache(store, cfg.Cache.PostTTL, logger)
	searchIndex := service.NewSearchIndex(store, service.MatchPolicy(strings.ToLower(cfg.Search.MatchPolicy)), logger)
	locker := service.NewLocker(store, service.LockOptions{
		TTL:           cfg.Lock.TTL,
		RetryInterval: cfg.Lock.RetryInterval,
		MaxRetries:    cfg.Lock.MaxRetries,
		Backoff:       service.Backoff(strings.ToLower(cfg.Lock.Backoff)),
	}, logger)
	rateLimiter := service.NewRateLimiter(store, service.RateLimitConfig{
		Limit:  cfg.RateLimit.Limit,
		Window: cfg.RateLimit.Window,
	}, logger)

	// Initialize token service
	tokenService, err := service.NewTokenService(service.TokenConfig{
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
		TokenDuration: cfg.Session.TTL,
		SigningKey:    []byte(cfg.Token.SigningKey),
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	sessions := service.NewSessionManager(store, tokenService, cfg.Session.TTL, logger)

	// Initialize command handlers
	createPostHandler := command.NewCreatePostHandler(postRepo, postCache, searchIndex, eventPublisher)
	updatePostHandler := command.NewUpdatePostHandler(postRepo, postCache, searchIndex, locker, eventPublisher)
	deletePostHandler := command.NewDeletePostHandler(postRepo, postCache, searchIndex, locker, eventPublisher)
	loginHandler := command.NewLoginHandler(credentialVerifier, sessions)

	// Initialize query handlers
	listPostsHandler := query.NewListPostsHandler(postRepo, postCache)
	getPostHandler := query.NewGetPostHandler(postRepo, postCache)
	searchPostsHandler := query.NewSearchPostsHandler(postRepo, searchIndex)

	// Initialize gRPC handler
	handler := bloggrpc.NewHandler(bloggrpc.HandlerConfig{
		CreatePostHandler:  createPostHandler,
		UpdatePostHandler:  updatePostHandler,
		DeletePostHandler:  deletePostHandler,
		LoginHandler:       loginHandler,
		ListPostsHandler:   listPostsHandler,
		GetPostHandler:     getPostHandler,
		SearchPostsHandler: searchPostsHandler,
		Sessions:           sessions,
	})

	// Initialize gRPC server
	serverCfg := bloggrpc.ServerConfig{
		Host:                cfg.Server.Host,
		Port:                cfg.Server.Port,
		EnableReflection:    cfg.Server.EnableReflection,
		EnableHealthCheck:   cfg.Server.EnableHealthCheck,
		HealthProbeInterval: cfg.Server.HealthProbeInterval,
	}

	server, err := bloggrpc.NewServer(serverCfg, handler, bloggrpc.ServerDeps{
		Limiter:  rateLimiter,
		Sessions: sessions,
		Store:    store,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create grpc server: %w", err)
	}

	// Handle graceful shutdown
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run(ctx)
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("blog service started", log.String("address", serverCfg.Address()))

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received shutdown signal", log.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}

		logger.Info("blog service stopped gracefully")
		return nil
	}
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger log.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to postgres",
		log.String("host", cfg.Host),
		log.String("database", cfg.Database),
	)

	return pool, nil
}

// connectStore opens the process-wide key-value store. The client is pinged
// before use so that a misconfigured store fails startup.
func connectStore(ctx context.Context, cfg config.RedisConfig, logger log.Logger) (kv.Store, error) {
	if cfg.UseMemory() {
		logger.Warn("using in-process kv store; state is not shared between instances")
		return memory.NewStore(), nil
	}

	client, err := redisstore.NewClient(ctx, redisstore.ClientConfig{
		URL:          cfg.URL,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return nil, err
	}

	opts := client.Options()
	logger.Info("connected to redis",
		log.String("address", opts.Addr),
		log.Any("db", opts.DB),
	)

	return redisstore.NewStore(client), nil
}

// newEventPublisher connects to NATS when enabled. The returned close
// function is always safe to call.
func newEventPublisher(cfg config.NATSConfig, logger log.Logger) (messaging.EventPublisher, func(), error) {
	if !cfg.Enabled {
		logger.Info("nats disabled, post events are dropped")
		return natsadapter.NewNoopPublisher(), func() {}, nil
	}

	conn, err := connectNATS(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return natsadapter.NewEventPublisher(conn, cfg.SubjectPrefix), conn.Close, nil
}

func connectNATS(cfg config.NATSConfig, logger log.Logger) (*natsclient.Conn, error) {
	opts := []natsclient.Option{
		natsclient.MaxReconnects(cfg.MaxReconnects),
		natsclient.ReconnectWait(cfg.ReconnectWait),
		natsclient.DisconnectErrHandler(func(nc *natsclient.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", log.String("error", err.Error()))
			}
		}),
		natsclient.ReconnectHandler(func(nc *natsclient.Conn) {
			logger.Info("nats reconnected", log.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := natsclient.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	logger.Info("connected to nats",
		log.String("url", conn.ConnectedUrl()),
	)

	return conn, nil
}
