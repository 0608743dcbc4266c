package config

import (
	"fmt"
	"strings"
	"time"

	config "github.com/0xsj/overwatch-pkg/config"
)

const envPrefix = "BLOG_"

// MemoryStoreURL selects the in-process key-value store instead of Redis.
const MemoryStoreURL = "memory://"

// Config holds all configuration for the blog service.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Token     TokenConfig
	Session   SessionConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Lock      LockConfig
	Search    SearchConfig
}

// ServerConfig holds gRPC server configuration.
type ServerConfig struct {
	Host                string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port                int           `env:"SERVER_PORT" default:"50061"`
	EnableReflection    bool          `env:"SERVER_ENABLE_REFLECTION" default:"true"`
	EnableHealthCheck   bool          `env:"SERVER_ENABLE_HEALTH_CHECK" default:"true"`
	ShutdownTimeout     time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	HealthProbeInterval time.Duration `env:"SERVER_HEALTH_PROBE_INTERVAL" default:"10s"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host              string        `env:"DATABASE_HOST" default:"localhost"`
	Port              int           `env:"DATABASE_PORT" default:"5450"`
	User              string        `env:"DATABASE_USER" default:"overwatch"`
	Password          string        `env:"DATABASE_PASSWORD" default:"overwatch" sensitive:"true"`
	Database          string        `env:"DATABASE_NAME" default:"overwatch_blog"`
	SSLMode           string        `env:"DATABASE_SSL_MODE" default:"disable"`
	MaxConns          int           `env:"DATABASE_MAX_CONNS" default:"25"`
	MinConns          int           `env:"DATABASE_MIN_CONNS" default:"5"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" default:"30m"`
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTH_CHECK_PERIOD" default:"1m"`
}

// RedisConfig holds configuration of the shared key-value store.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL" default:"redis://localhost:6379/0" sensitive:"true"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" default:"5"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	Enabled       bool          `env:"NATS_ENABLED" default:"false"`
	URL           string        `env:"NATS_URL" default:"nats://localhost:4230"`
	SubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" default:"overwatch"`
	MaxReconnects int           `env:"NATS_MAX_RECONNECTS" default:"10"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" default:"2s"`
}

// TokenConfig holds session token signing configuration.
type TokenConfig struct {
	Issuer     string `env:"TOKEN_ISSUER" default:"overwatch-blog"`
	Audience   string `env:"TOKEN_AUDIENCE" default:"overwatch-blog"`
	SigningKey string `env:"TOKEN_SIGNING_KEY" required:"true" sensitive:"true"`
}

// SessionConfig holds session record configuration.
// Tokens expire together with the record they were issued for.
type SessionConfig struct {
	TTL time.Duration `env:"SESSION_TTL" default:"24h"`
}

// CacheConfig holds post cache configuration.
type CacheConfig struct {
	PostTTL time.Duration `env:"CACHE_POST_TTL" default:"1h"`
}

// RateLimitConfig holds the per-client request quota.
type RateLimitConfig struct {
	Limit  int           `env:"RATE_LIMIT_LIMIT" default:"5"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW" default:"60s"`
}

// LockConfig holds distributed lock defaults.
type LockConfig struct {
	TTL           time.Duration `env:"LOCK_TTL" default:"3s"`
	RetryInterval time.Duration `env:"LOCK_RETRY_INTERVAL" default:"100ms"`
	MaxRetries    int           `env:"LOCK_MAX_RETRIES" default:"3"`
	Backoff       string        `env:"LOCK_BACKOFF" default:"linear"`
}

// SearchConfig holds title search configuration.
type SearchConfig struct {
	MatchPolicy string `env:"SEARCH_MATCH_POLICY" default:"any"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.WithPrefix(envPrefix)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads configuration and panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks values the loader cannot check by type alone.
func (c *Config) Validate() error {
	if c.RateLimit.Limit <= 0 {
		return fmt.Errorf("invalid rate limit: %d", c.RateLimit.Limit)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("invalid rate limit window: %s", c.RateLimit.Window)
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("invalid lock ttl: %s", c.Lock.TTL)
	}
	if c.Lock.MaxRetries < 0 {
		return fmt.Errorf("invalid lock max retries: %d", c.Lock.MaxRetries)
	}
	switch strings.ToLower(c.Lock.Backoff) {
	case "linear", "exponential":
	default:
		return fmt.Errorf("invalid lock backoff: %q", c.Lock.Backoff)
	}
	switch strings.ToLower(c.Search.MatchPolicy) {
	case "any", "all":
	default:
		return fmt.Errorf("invalid search match policy: %q", c.Search.MatchPolicy)
	}
	return nil
}

// Address returns the gRPC server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// UseMemory reports whether the in-process store was requested.
func (c *RedisConfig) UseMemory() bool {
	return strings.HasPrefix(c.URL, MemoryStoreURL)
}
