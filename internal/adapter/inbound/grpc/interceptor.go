package grpc

import (
	"context"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/0xsj/overwatch-pkg/grpc/middleware"
	"github.com/0xsj/overwatch-pkg/log"

	"github.com/0xsj/overwatch-blog/internal/app/service"
)

const authorizationHeader = "authorization"

// AuthenticatedMethods defines methods that require a valid session.
var AuthenticatedMethods = map[string]bool{
	FullMethod(MethodLogout):         true,
	FullMethod(MethodProfile):        true,
	FullMethod(MethodRefreshSession): true,
}

// RateLimitedMethods defines methods counted against the per-client quota.
var RateLimitedMethods = map[string]bool{
	FullMethod(MethodCreatePost):     true,
	FullMethod(MethodUpdatePost):     true,
	FullMethod(MethodDeletePost):     true,
	FullMethod(MethodLogin):          true,
	FullMethod(MethodLogout):         true,
	FullMethod(MethodProfile):        true,
	FullMethod(MethodRefreshSession): true,
}

// UnaryServerRateLimit rejects calls from a client that exceeded its quota.
// Clients are keyed by peer IP. The limiter fails open, so an unreachable
// store never blocks traffic.
func UnaryServerRateLimit(limiter service.RateLimiter, methods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !methods[info.FullMethod] {
			return handler(ctx, req)
		}

		if err := limiter.Check(ctx, clientKey(ctx)); err != nil {
			return nil, toGRPCError(err)
		}

		return handler(ctx, req)
	}
}

// UnaryServerSessionAuth validates the bearer token of calls to methods and
// stores the session in the context.
func UnaryServerSessionAuth(sessions service.SessionManager, methods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !methods[info.FullMethod] {
			return handler(ctx, req)
		}

		session, err := sessions.Authenticate(ctx, authorizationFromContext(ctx))
		if err != nil {
			return nil, toGRPCError(err)
		}

		return handler(WithSession(ctx, session), req)
	}
}

// BuildUnaryInterceptors builds the complete unary interceptor chain with correct order.
func BuildUnaryInterceptors(logger log.Logger, limiter service.RateLimiter, sessions service.SessionManager) []grpc.UnaryServerInterceptor {
	return []grpc.UnaryServerInterceptor{
		middleware.UnaryServerRecoveryWithLogger(logger),       // 1. Outermost - catch panics
		middleware.UnaryServerRequestID(),                      // 2. Generate/extract request ID
		middleware.UnaryServerLogging(logger),                  // 3. Log with request ID
		UnaryServerRateLimit(limiter, RateLimitedMethods),      // 4. Reject before doing any work
		UnaryServerSessionAuth(sessions, AuthenticatedMethods), // 5. Authentication
	}
}

// BuildStreamInterceptors builds the stream interceptor chain.
// The service has no streaming methods; this covers health Watch and reflection.
func BuildStreamInterceptors(logger log.Logger) []grpc.StreamServerInterceptor {
	return []grpc.StreamServerInterceptor{
		middleware.StreamServerRecoveryWithLogger(logger),
		middleware.StreamServerRequestID(),
		middleware.StreamServerLogging(logger),
	}
}

// authorizationFromContext returns the first authorization metadata value.
func authorizationFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(authorizationHeader)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// clientKey identifies the caller for rate limiting.
func clientKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}

	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.TrimSpace(addr)
}
