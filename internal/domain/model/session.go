package model

import (
	"strings"

	"github.com/0xsj/overwatch-pkg/types"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
)

// Session is the server-side record backing a bearer token.
// There is at most one live session per subject; the record acts as the
// revocation list for otherwise self-contained tokens.
type Session struct {
	subjectID string
	claims    map[string]any
	issuedAt  types.Timestamp
}

// NewSession creates a Session for a subject.
func NewSession(subjectID string, claims map[string]any) (*Session, error) {
	if strings.TrimSpace(subjectID) == "" {
		return nil, domainerror.ErrSubjectIDRequired
	}

	return &Session{
		subjectID: subjectID,
		claims:    copyClaims(claims),
		issuedAt:  types.Now(),
	}, nil
}

// ReconstructSession creates a Session from persisted data.
func ReconstructSession(
	subjectID string,
	claims map[string]any,
	issuedAt types.Timestamp,
) *Session {
	return &Session{
		subjectID: subjectID,
		claims:    copyClaims(claims),
		issuedAt:  issuedAt,
	}
}

// Getters

func (s *Session) SubjectID() string         { return s.subjectID }
func (s *Session) IssuedAt() types.Timestamp { return s.issuedAt }
func (s *Session) Claims() map[string]any    { return copyClaims(s.claims) }

// Claim returns a single claim value.
func (s *Session) Claim(key string) (any, bool) {
	v, ok := s.claims[key]
	return v, ok
}

// BelongsTo reports whether the session was issued to subjectID.
func (s *Session) BelongsTo(subjectID string) bool {
	return s.subjectID == subjectID
}

func copyClaims(claims map[string]any) map[string]any {
	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out
}
