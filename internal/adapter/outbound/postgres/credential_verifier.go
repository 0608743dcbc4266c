package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	domainerror "github.com/0xsj/overwatch-blog/internal/domain/error"
	"github.com/0xsj/overwatch-blog/internal/port/outbound/credential"
)

const findUserByEmailQuery = `SELECT id, email, password_hash FROM users WHERE email = $1`

// credentialVerifier implements credential.Verifier over the users table.
// Passwords are stored as bcrypt hashes.
type credentialVerifier struct {
	pool *pgxpool.Pool
}

// NewCredentialVerifier creates a new credential.Verifier.
func NewCredentialVerifier(pool *pgxpool.Pool) credential.Verifier {
	return &credentialVerifier{
		pool: pool,
	}
}

func (v *credentialVerifier) Verify(ctx context.Context, email, password string) (string, map[string]any, error) {
	var (
		id   int64
		addr string
		hash string
	)
	err := v.pool.QueryRow(ctx, findUserByEmailQuery, email).Scan(&id, &addr, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, domainerror.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", nil, domainerror.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("compare password: %w", err)
	}

	return strconv.FormatInt(id, 10), map[string]any{"email": addr}, nil
}
