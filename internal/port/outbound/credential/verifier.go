// Package credential declares the account check that login depends on.
// Accounts and password hashes are owned outside the blog service.
package credential

import (
	"context"
)

// Verifier checks a login credential.
type Verifier interface {
	// Verify returns the subject id of the account registered under email and
	// the claims to keep in its session. Unknown accounts and wrong passwords
	// both fail with domainerror.ErrInvalidCredentials.
	Verify(ctx context.Context, email, password string) (subjectID string, claims map[string]any, err error)
}
