package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/0xsj/overwatch-pkg/security"
	"github.com/0xsj/overwatch-pkg/types"
)

// TokenService signs and verifies the bearer tokens handed out for sessions.
// Tokens are self-contained; they are never stored.
type TokenService interface {
	// Issue signs a token for subjectID carrying the given claims.
	Issue(subjectID string, claims map[string]any) (string, types.Timestamp, error)

	// Verify checks signature, issuer, audience and expiry and returns the claims.
	Verify(token string) (*TokenClaims, error)
}

// TokenClaims contains the claims read back from a verified token.
type TokenClaims struct {
	SubjectID string
	ExpiresAt types.Timestamp
}

// TokenConfig holds configuration for token generation.
type TokenConfig struct {
	Issuer        string
	Audience      string
	TokenDuration time.Duration
	SigningKey    []byte
}

// DefaultTokenConfig returns default token configuration.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		Issuer:        "overwatch-blog",
		Audience:      "overwatch-blog",
		TokenDuration: 24 * time.Hour,
	}
}

// reservedClaims are registered JWT claims that caller claims may not override.
var reservedClaims = map[string]bool{
	"sub": true,
	"iss": true,
	"aud": true,
	"exp": true,
	"nbf": true,
	"iat": true,
	"jti": true,
}

// tokenService implements TokenService.
type tokenService struct {
	config TokenConfig
	signer *security.HMACSigner
}

// NewTokenService creates a new TokenService.
func NewTokenService(config TokenConfig) (TokenService, error) {
	if len(config.SigningKey) == 0 {
		return nil, errors.New("token signing key is required")
	}
	if config.TokenDuration <= 0 {
		config.TokenDuration = DefaultTokenConfig().TokenDuration
	}

	signer, err := security.NewHMACSigner(security.AlgorithmHS256, config.SigningKey)
	if err != nil {
		return nil, err
	}

	return &tokenService{
		config: config,
		signer: signer,
	}, nil
}

func (s *tokenService) Issue(subjectID string, claims map[string]any) (string, types.Timestamp, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.config.TokenDuration)

	jwtClaims := security.NewClaims().
		WithSubject(subjectID).
		WithIssuer(s.config.Issuer).
		WithAudience(s.config.Audience).
		WithIssuedAt(now).
		WithExpirationTime(expiresAt).
		WithRandomJWTID()

	for key, value := range claims {
		if reservedClaims[key] {
			continue
		}
		jwtClaims.Set(key, fmt.Sprint(value))
	}

	token, err := security.SignJWT(jwtClaims, s.signer)
	if err != nil {
		return "", types.Timestamp{}, err
	}

	return token, types.FromTime(expiresAt), nil
}

func (s *tokenService) Verify(token string) (*TokenClaims, error) {
	opts := security.JWTVerifyOptions{
		ValidateExpiration: true,
		ValidateNotBefore:  true,
		ExpectedIssuer:     s.config.Issuer,
		ExpectedAudience:   s.config.Audience,
	}

	jwt, err := security.VerifyJWTWithOptions(token, s.signer, opts)
	if err != nil {
		return nil, err
	}

	if jwt.Claims.Subject == "" {
		return nil, security.ErrInvalidToken("missing subject")
	}

	return &TokenClaims{
		SubjectID: jwt.Claims.Subject,
		ExpiresAt: types.FromTime(jwt.Claims.ExpirationTime.Time),
	}, nil
}
