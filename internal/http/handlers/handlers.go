// Package handlers exposes the account API endpoints:
//
//   - POST  /login        (authenticate, issue tokens)
//   - POST  /users        (create account)
//   - GET   /users        (list, ETag support)
//   - GET   /users/{id}   (retrieve)
//   - PUT   /users/{id}   (update profile)
//   - PATCH /users/{id}   (toggle activation)
//
// Handlers are transport-thin: they bind and validate input, call the
// services and serialize results. Permission checks run in route middleware.
package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/failure"
	"github.com/tbourn/go-account-api/internal/services"
	"github.com/tbourn/go-account-api/internal/validation"
)

// UserService defines the account operations consumed by the handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	Create(ctx context.Context, in services.CreateUserInput) (*domain.User, error)
	List(ctx context.Context, requesterID string, onlyActive bool) ([]domain.User, error)
	Stats(ctx context.Context, requesterID string, onlyActive bool) (int64, *time.Time, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in services.UpdateUserInput) (*domain.User, error)
	ToggleActive(ctx context.Context, id, actorID string) (*domain.User, error)
}

// AuthService authenticates a login attempt.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
}

// Handlers groups the HTTP endpoints. It depends on service interfaces to
// keep transport concerns separate from business logic.
type Handlers struct {
	users UserService
	auth  AuthService
}

// New constructs Handlers bound to the given services.
func New(users UserService, auth AuthService) *Handlers {
	return &Handlers{users: users, auth: auth}
}

// bindJSON decodes the request body into dst. An empty body decodes as an
// empty object so missing fields surface as validation errors; any other
// decoding failure is a ParseError.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return failure.NewParseError(err)
	}
	return nil
}

// bindValid decodes and validates dst.
func bindValid(c *gin.Context, dst any) error {
	if err := bindJSON(c, dst); err != nil {
		return err
	}
	return validation.Struct(dst)
}
