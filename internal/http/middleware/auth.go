// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller from an "Authorization: Bearer <access>"
// header. Requests without the header stay anonymous; the permission gates in
// permissions.go decide whether that is acceptable for the route.
package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-account-api/internal/auth"
	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/failure"
)

// Gin context keys set by Authenticate.
const (
	ctxKeyUser   = "user"
	ctxKeyUserID = "userID"
)

// Authentication failure messages.
const (
	msgTokenInvalid = "Given token not valid for any token type"
	msgUserNotFound = "User not found"
	msgUserInactive = "User is inactive"
)

// ErrUserNotFound is returned by a UserLoader for unknown ids.
var ErrUserNotFound = errors.New("user not found")

// TokenParser verifies an access token.
type TokenParser interface {
	ParseAccess(raw string) (*auth.Claims, error)
}

// UserLoader loads the user an access token was issued to.
type UserLoader interface {
	LoadUser(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate resolves the bearer token, if any, to an active user.
//
// On success the user is stored under "user" and its id under "userID", so
// logging and rate limiting pick it up. Invalid tokens, unknown users and
// inactive users abort the request with an AuthenticationFailed failure.
func Authenticate(loader UserLoader, parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := parser.ParseAccess(raw)
		if err != nil {
			if failure.KindOf(err) == failure.ImproperlyConfigured {
				abortWith(c, err)
				return
			}
			abortWith(c, failure.NewAuthenticationFailed(msgTokenInvalid))
			return
		}

		u, err := loader.LoadUser(c.Request.Context(), claims.UserID)
		switch {
		case errors.Is(err, ErrUserNotFound):
			abortWith(c, failure.NewAuthenticationFailed(msgUserNotFound))
			return
		case err != nil:
			abortWith(c, err)
			return
		case !u.IsActive:
			abortWith(c, failure.NewAuthenticationFailed(msgUserInactive))
			return
		}

		c.Set(ctxKeyUser, u)
		c.Set(ctxKeyUserID, u.ID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxKeyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// bearerToken extracts the token of a "Bearer" Authorization header. The
// scheme is matched case-insensitively. A header with another scheme counts
// as absent.
func bearerToken(h string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// abortWith records err for ErrorTranslator and stops the chain.
func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
