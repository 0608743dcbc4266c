package grpc

import (
	"context"
	"fmt"
	"time"

	pkggrpc "github.com/0xsj/overwatch-pkg/grpc"
	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-blog/internal/app/service"
)

// ServerConfig holds configuration for the blog gRPC server.
type ServerConfig struct {
	Host                string
	Port                int
	EnableReflection    bool
	EnableHealthCheck   bool
	HealthProbeInterval time.Duration
}

// Address returns the server address.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the server configuration.
func (c ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// ServerDeps are the coordination services the transport itself relies on.
type ServerDeps struct {
	Limiter  service.RateLimiter
	Sessions service.SessionManager
	// Store is pinged to drive the health status.
	Store Pinger
}

// Server wraps the pkg grpc.Server for the blog service.
type Server struct {
	server  *pkggrpc.Server
	handler *Handler
	probe   *HealthProbe
	health  bool
	logger  log.Logger
}

// NewServer creates a new blog gRPC server.
func NewServer(cfg ServerConfig, handler *Handler, deps ServerDeps, logger log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	server, err := pkggrpc.NewServer(
		pkggrpc.WithServerAddress(cfg.Address()),
		pkggrpc.WithServerLogger(logger),
		pkggrpc.WithServerReflection(cfg.EnableReflection),
		pkggrpc.WithServerHealthCheck(cfg.EnableHealthCheck),
		pkggrpc.WithUnaryInterceptors(BuildUnaryInterceptors(logger, deps.Limiter, deps.Sessions)...),
		pkggrpc.WithStreamInterceptors(BuildStreamInterceptors(logger)...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc server: %w", err)
	}

	s := &Server{
		server:  server,
		handler: handler,
		health:  cfg.EnableHealthCheck,
		logger:  logger,
	}
	s.server.RegisterService(&BlogService_ServiceDesc, s.handler)

	if cfg.EnableHealthCheck && deps.Store != nil {
		s.probe = NewHealthProbe(deps.Store, s, cfg.HealthProbeInterval, logger)
	}

	return s, nil
}

// Run starts the health probe and the server, and blocks until the server
// exits. The probe stops with ctx.
func (s *Server) Run(ctx context.Context) error {
	if s.health {
		s.SetServingStatus(BlogServiceName, true)
	}
	if s.probe != nil {
		go s.probe.Run(ctx)
	}

	s.logger.Info("running blog gRPC server",
		log.String("address", s.server.Address()),
		log.Any("health_probe", s.probe != nil),
	)
	return s.server.Run()
}

// Stop gracefully stops the gRPC server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping blog gRPC server")
	return s.server.Stop(ctx)
}

// Address returns the server's listen address.
func (s *Server) Address() string {
	return s.server.Address()
}

// SetServingStatus sets the serving status for health checks.
func (s *Server) SetServingStatus(service string, serving bool) {
	s.server.SetServingStatus(service, serving)
}
