package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tbourn/go-account-api/internal/failure"
)

// Token types carried in the token_type claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken is returned by ParseAccess for any token that does not
// verify: bad signature, expired, wrong type or malformed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload of both token types.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// TokenIssuer signs HS256 refresh tokens and access tokens derived from them.
type TokenIssuer struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates an issuer. An empty key is accepted here; issuing
// then fails with an ImproperlyConfigured failure.
func NewTokenIssuer(key, issuer string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		key:        []byte(key),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair issues a refresh token for userID and the access token derived
// from it.
func (t *TokenIssuer) IssuePair(userID string) (TokenPair, error) {
	if len(t.key) == 0 {
		return TokenPair{}, failure.NewImproperlyConfigured("JWT_SIGNING_KEY is not configured")
	}

	now := t.now().UTC()
	refresh := Claims{
		TokenType: TypeRefresh,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
		},
	}
	refreshStr, err := t.sign(refresh)
	if err != nil {
		return TokenPair{}, err
	}

	accessStr, err := t.sign(t.deriveAccess(refresh, now))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Refresh: refreshStr, Access: accessStr}, nil
}

// deriveAccess copies the identity of a refresh token into a short-lived
// access token with its own id.
func (t *TokenIssuer) deriveAccess(refresh Claims, now time.Time) Claims {
	access := refresh
	access.TokenType = TypeAccess
	access.ID = uuid.NewString()
	access.IssuedAt = jwt.NewNumericDate(now)
	access.ExpiresAt = jwt.NewNumericDate(now.Add(t.accessTTL))
	return access
}

func (t *TokenIssuer) sign(c Claims) (string, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", c.TokenType, err)
	}
	return s, nil
}

// ParseAccess verifies raw as an access token and returns its claims.
func (t *TokenIssuer) ParseAccess(raw string) (*Claims, error) {
	if len(t.key) == 0 {
		return nil, failure.NewImproperlyConfigured("JWT_SIGNING_KEY is not configured")
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != TypeAccess || claims.UserID == "" {
		return nil, fmt.Errorf("%w: wrong token type %q", ErrInvalidToken, claims.TokenType)
	}
	return claims, nil
}
