package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbourn/go-account-api/internal/failure"
)

func TestHasher_HashAndCheck(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	ok, err := h.Check(hash, "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Check(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Check("not-a-bcrypt-hash", "x")
	assert.Error(t, err)
}

func TestHasher_RejectsPasswordsOverByteLimit(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)

	_, err = h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 37 two-byte runes
	_, err = h.Hash(strings.Repeat("é", 37))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewHasher_CoercesCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).Cost)
	assert.Equal(t, 12, NewHasher(12).Cost)
}

func newIssuer(now time.Time) *TokenIssuer {
	ti := NewTokenIssuer("test-key", "account-api", 5*time.Minute, 24*time.Hour)
	ti.now = func() time.Time { return now }
	return ti
}

func TestIssuePair_AccessDerivedFromRefresh(t *testing.T) {
	now := time.Now()
	ti := newIssuer(now)

	pair, err := ti.IssuePair("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Refresh)
	require.NotEmpty(t, pair.Access)
	assert.NotEqual(t, pair.Refresh, pair.Access)

	claims, err := ti.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, "account-api", claims.Issuer)
	assert.WithinDuration(t, now.Add(5*time.Minute), claims.ExpiresAt.Time, time.Second)

	// The refresh token must not be usable as an access token.
	_, err = ti.ParseAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(pair.Refresh, refresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, refresh.TokenType)
	assert.NotEqual(t, refresh.ID, claims.ID)
	assert.WithinDuration(t, now.Add(24*time.Hour), refresh.ExpiresAt.Time, time.Second)
}

func TestIssuePair_EmptyKeyIsImproperlyConfigured(t *testing.T) {
	ti := NewTokenIssuer("", "x", time.Minute, time.Hour)

	_, err := ti.IssuePair("u")
	require.Error(t, err)
	assert.Equal(t, failure.ImproperlyConfigured, failure.KindOf(err))

	_, err = ti.ParseAccess("whatever")
	assert.Equal(t, failure.ImproperlyConfigured, failure.KindOf(err))
}

func TestParseAccess_RejectsExpiredTamperedAndForeign(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	ti := newIssuer(issuedAt)
	pair, err := ti.IssuePair("u")
	require.NoError(t, err)

	// expired: verify an hour later
	ti.now = time.Now
	_, err = ti.ParseAccess(pair.Access)
	assert.True(t, errors.Is(err, ErrInvalidToken), "expired: %v", err)

	// tampered signature
	fresh := newIssuer(time.Now())
	pair, err = fresh.IssuePair("u")
	require.NoError(t, err)
	_, err = fresh.ParseAccess(pair.Access[:strings.LastIndex(pair.Access, ".")+1] + "AAAA")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// signed with another key
	other := NewTokenIssuer("other-key", "x", time.Minute, time.Hour)
	foreign, err := other.IssuePair("u")
	require.NoError(t, err)
	_, err = fresh.ParseAccess(foreign.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = fresh.ParseAccess("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
