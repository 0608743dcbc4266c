package mocks

import (
	"context"
	"strconv"
	"sync"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/credential"
)

type account struct {
	subjectID string
	password  string
}

// CredentialVerifier is a mock implementation of credential.Verifier.
type CredentialVerifier struct {
	mu       sync.RWMutex
	accounts map[string]account
	nextID   int64

	// Call tracking
	Calls struct {
		Verify int
	}

	// Error injection
	Errors struct {
		Verify error
	}
}

// NewCredentialVerifier creates a new mock CredentialVerifier.
func NewCredentialVerifier() *CredentialVerifier {
	return &CredentialVerifier{
		accounts: make(map[string]account),
		nextID:   1,
	}
}

// AddAccount registers email with a plain password and returns its subject id.
func (m *CredentialVerifier) AddAccount(email, password string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	subjectID := strconv.FormatInt(m.nextID, 10)
	m.nextID++
	m.accounts[email] = account{subjectID: subjectID, password: password}
	return subjectID
}

func (m *CredentialVerifier) Verify(ctx context.Context, email, password string) (string, map[string]any, error) {
	m.mu.Lock()
	m.Calls.Verify++
	m.mu.Unlock()

	if m.Errors.Verify != nil {
		return "", nil, m.Errors.Verify
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[email]
	if !ok || acc.password != password {
		return "", nil, domainerror.ErrInvalidCredentials
	}
	return acc.subjectID, map[string]any{"email": email}, nil
}

var _ credential.Verifier = (*CredentialVerifier)(nil)
