package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/0xsj/overwatch-pkg/log"
	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/domain/model"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/kv"
)

const (
	sessionKeyPrefix  = "session:"
	defaultSessionTTL = 24 * time.Hour
	bearerScheme      = "Bearer"
)

// SessionManager issues bearer tokens bound to server-side session records.
//
// A token is accepted only while its signature and expiry verify AND the
// record for its subject still exists. Deleting the record revokes every
// token issued to the subject even though the tokens remain
// cryptographically valid.
type SessionManager interface {
	// CreateSession stores a session record for subjectID, replacing any
	// previous one, and returns a freshly signed token.
	CreateSession(ctx context.Context, subjectID string, claims map[string]any) (string, error)

	// ValidateSession returns the session a token belongs to.
	// Fails with ErrUnauthenticated when the token does not verify or no
	// matching record exists, and with ErrStoreUnavailable when the record
	// cannot be read.
	ValidateSession(ctx context.Context, token string) (*model.Session, error)

	// Authenticate validates the token carried by an Authorization header.
	Authenticate(ctx context.Context, authorization string) (*model.Session, error)

	// InvalidateSession deletes the record for subjectID.
	InvalidateSession(ctx context.Context, subjectID string) error

	// RefreshSession extends the record's TTL without touching its content.
	// Reports whether a record existed. Failures are logged, never returned.
	RefreshSession(ctx context.Context, subjectID string) bool
}

// sessionManager implements SessionManager.
type sessionManager struct {
	store  kv.Store
	tokens TokenService
	ttl    time.Duration
	logger log.Logger
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(store kv.Store, tokens TokenService, ttl time.Duration, logger log.Logger) SessionManager {
	if ttl == 0 {
		ttl = defaultSessionTTL
	}
	return &sessionManager{
		store:  store,
		tokens: tokens,
		ttl:    ttl,
		logger: logger,
	}
}

func (m *sessionManager) CreateSession(ctx context.Context, subjectID string, claims map[string]any) (string, error) {
	session, err := model.NewSession(subjectID, claims)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(newCachedSession(session))
	if err != nil {
		return "", err
	}

	if err := m.store.Set(ctx, sessionKey(subjectID), data, m.ttl); err != nil {
		m.logger.Error("failed to store session",
			log.String("subject_id", subjectID),
			log.String("error", err.Error()),
		)
		return "", domainerror.ErrStoreUnavailable
	}

	token, _, err := m.tokens.Issue(subjectID, claims)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (m *sessionManager) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, domainerror.ErrUnauthenticated
	}

	data, found, err := m.store.Get(ctx, sessionKey(claims.SubjectID))
	if err != nil {
		m.logger.Error("failed to read session",
			log.String("subject_id", claims.SubjectID),
			log.String("error", err.Error()),
		)
		return nil, domainerror.ErrStoreUnavailable
	}
	if !found {
		// Logged out or expired server-side.
		return nil, domainerror.ErrUnauthenticated
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		m.logger.Warn("discarding unreadable session record",
			log.String("subject_id", claims.SubjectID),
			log.String("error", err.Error()),
		)
		return nil, domainerror.ErrUnauthenticated
	}

	session := cached.toModel()
	if !session.BelongsTo(claims.SubjectID) {
		return nil, domainerror.ErrUnauthenticated
	}

	return session, nil
}

func (m *sessionManager) Authenticate(ctx context.Context, authorization string) (*model.Session, error) {
	token, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}
	return m.ValidateSession(ctx, token)
}

func (m *sessionManager) InvalidateSession(ctx context.Context, subjectID string) error {
	if strings.TrimSpace(subjectID) == "" {
		return domainerror.ErrSubjectIDRequired
	}

	if err := m.store.Del(ctx, sessionKey(subjectID)); err != nil {
		m.logger.Error("failed to invalidate session",
			log.String("subject_id", subjectID),
			log.String("error", err.Error()),
		)
		return domainerror.ErrStoreUnavailable
	}
	return nil
}

func (m *sessionManager) RefreshSession(ctx context.Context, subjectID string) bool {
	ok, err := m.store.Expire(ctx, sessionKey(subjectID), m.ttl)
	if err != nil {
		m.logger.Warn("failed to refresh session",
			log.String("subject_id", subjectID),
			log.String("error", err.Error()),
		)
		return false
	}
	return ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(authorization string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", domainerror.ErrBearerTokenRequired
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domainerror.ErrBearerTokenRequired
	}
	return token, nil
}

// Key helper

func sessionKey(subjectID string) string {
	return sessionKeyPrefix + subjectID
}

// Cached session structure for JSON serialization

type cachedSession struct {
	SubjectID string         `json:"subject_id"`
	Claims    map[string]any `json:"claims"`
	IssuedAt  time.Time      `json:"issued_at"`
}

func newCachedSession(s *model.Session) cachedSession {
	return cachedSession{
		SubjectID: s.SubjectID(),
		Claims:    s.Claims(),
		IssuedAt:  s.IssuedAt().Time(),
	}
}

func (c cachedSession) toModel() *model.Session {
	return model.ReconstructSession(c.SubjectID, c.Claims, types.FromTime(c.IssuedAt))
}
