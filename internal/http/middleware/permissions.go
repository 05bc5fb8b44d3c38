// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the permission gates. Each gate runs after Authenticate and
// aborts with NotAuthenticated for anonymous callers and PermissionDenied for
// authenticated callers that fail the check.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/failure"
)

const (
	msgNoCredentials = "Authentication credentials were not provided."
	msgNoPermission  = "You do not have permission to perform this action."
)

// permission reports whether u may proceed with the request.
type permission func(c *gin.Context, u *domain.User) bool

func gate(allow permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			abortWith(c, failure.NewNotAuthenticated(msgNoCredentials))
			return
		}
		if !allow(c, u) {
			abortWith(c, failure.NewPermissionDenied(msgNoPermission))
			return
		}
		c.Next()
	}
}

// RequireAuthenticated admits any authenticated caller.
func RequireAuthenticated() gin.HandlerFunc {
	return gate(func(*gin.Context, *domain.User) bool { return true })
}

// RequireActiveAdmin admits active administrators.
func RequireActiveAdmin() gin.HandlerFunc {
	return gate(func(_ *gin.Context, u *domain.User) bool {
		return u.IsActive && u.IsAdmin
	})
}

// RequireOwner admits the caller whose id equals the named path parameter.
func RequireOwner(param string) gin.HandlerFunc {
	return gate(func(c *gin.Context, u *domain.User) bool {
		return u.ID == c.Param(param)
	})
}
