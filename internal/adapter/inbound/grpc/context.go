package grpc

import (
	"context"
	"errors"

	"github.com/0xsj/overwatch-blog/internal/domain/model"
)

type contextKey string

const sessionKey contextKey = "session"

var ErrNoSessionInContext = errors.New("no session in context")

// WithSession adds the authenticated session to the context.
func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// getSessionFromContext extracts the session from context.
func getSessionFromContext(ctx context.Context) (*model.Session, error) {
	val := ctx.Value(sessionKey)
	if val == nil {
		return nil, ErrNoSessionInContext
	}

	session, ok := val.(*model.Session)
	if !ok || session == nil {
		return nil, ErrNoSessionInContext
	}

	return session, nil
}

// SessionFromContext is the exported version for interceptors.
func SessionFromContext(ctx context.Context) (*model.Session, error) {
	return getSessionFromContext(ctx)
}
