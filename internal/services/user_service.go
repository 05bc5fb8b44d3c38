// Package services – UserService
//
// This file implements the UserService, which manages user accounts: sign-up
// (user + wallet), the administrative listing, retrieval, profile update and
// the activation toggle. Lookups that miss are reported as NotFound failures
// labelled "User"; duplicate emails are reported as field validation failures
// so that both render through the error translator.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-account-api/internal/auth"
	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/failure"
)

// UserRepo defines the repository contract required by the services.
// Implementations are responsible for persistence of user aggregates.
type UserRepo interface {
	// CreateUser inserts a user and its wallet.
	CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error)

	// GetUser fetches a user by ID.
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)

	// GetUserByEmail fetches a user by email.
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)

	// EmailTaken reports whether a user other than excludeID owns email.
	EmailTaken(ctx context.Context, db *gorm.DB, email, excludeID string) (bool, error)

	// ListUsers lists users except excludeID, optionally only active ones.
	ListUsers(ctx context.Context, db *gorm.DB, excludeID string, onlyActive bool) ([]domain.User, error)

	// UpdateProfile persists the email and name columns of u.
	UpdateProfile(ctx context.Context, db *gorm.DB, u *domain.User) error

	// UpdateActivation persists the is_active and modified_by columns of u.
	UpdateActivation(ctx context.Context, db *gorm.DB, u *domain.User) error

	// UsersStats returns the size and latest modification of a ListUsers result.
	UsersStats(ctx context.Context, db *gorm.DB, excludeID string, onlyActive bool) (int64, *time.Time, error)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) (bool, error)
}

// CreateUserInput is a validated sign-up payload.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	// IsActive overrides the default (active) when set.
	IsActive *bool
}

// UpdateUserInput is a validated full profile update.
type UpdateUserInput struct {
	Email     string
	FirstName string
	LastName  string
}

// UserService provides account operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo
	// Hasher hashes passwords on sign-up.
	Hasher PasswordHasher
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, r UserRepo, h PasswordHasher) *UserService {
	return &UserService{DB: db, Repo: r, Hasher: h}
}

// Create registers a new account with a zero-balance wallet. Accounts start
// active unless the input says otherwise.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fieldError("password", msgPasswordTooLong)
		}
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	u := &domain.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		IsActive:  active,
	}
	created, err := s.Repo.CreateUser(ctx, s.DB, u)
	if err != nil {
		return nil, emailConflict(err)
	}
	return created, nil
}

// List returns all users except the requester. With onlyActive, inactive
// accounts are left out.
func (s *UserService) List(ctx context.Context, requesterID string, onlyActive bool) ([]domain.User, error) {
	return s.Repo.ListUsers(ctx, s.DB, requesterID, onlyActive)
}

// Stats summarizes what List would return, for conditional responses.
func (s *UserService) Stats(ctx context.Context, requesterID string, onlyActive bool) (int64, *time.Time, error) {
	return s.Repo.UsersStats(ctx, s.DB, requesterID, onlyActive)
}

// Get returns the user with id or a NotFound failure.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failure.NewNotFound(ResourceUser, msgNotFound)
		}
		return nil, err
	}
	return u, nil
}

// Update replaces the profile fields of user id.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email != u.Email {
		if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
			return nil, err
		}
	}

	u.Email = email
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	if err := s.Repo.UpdateProfile(ctx, s.DB, u); err != nil {
		return nil, emailConflict(err)
	}
	return u, nil
}

// ToggleActive flips the activation of user id and records actorID as the
// modifier. An actor cannot toggle their own account.
func (s *UserService) ToggleActive(ctx context.Context, id, actorID string) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.ID == actorID {
		return nil, failure.NewTransitionNotAllowed(msgToggleOwnActive)
	}

	u.IsActive = !u.IsActive
	actor := actorID
	u.ModifiedByID = &actor
	if err := s.Repo.UpdateActivation(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	taken, err := s.Repo.EmailTaken(ctx, s.DB, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return fieldError("email", msgEmailTaken)
	}
	return nil
}

// emailConflict maps a unique-key violation that slipped past
// ensureEmailFree (a concurrent write of the same email) to the same field
// failure.
func emailConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fieldError("email", msgEmailTaken)
	}
	return err
}

func fieldError(field, msg string) error {
	return failure.NewValidation(failure.FieldError{Field: field, Messages: []string{msg}})
}

// normalizeEmail trims and lower-cases the domain part of an address.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}
