// Package services – AuthService
//
// This file implements login: credential verification, token issuance and the
// wallet summary returned to the client. The last-login stamp is written only
// after every other step succeeded, so failed logins leave no trace on the
// user row.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-account-api/internal/auth"
	"github.com/tbourn/go-account-api/internal/domain"
	"github.com/tbourn/go-account-api/internal/failure"
)

// LoginRepo is the persistence needed by AuthService.
type LoginRepo interface {
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	GetWalletByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Wallet, error)
	UpdateLastLogin(ctx context.Context, db *gorm.DB, id string, at time.Time) error
}

// TokenIssuer issues the token pair for a verified user.
type TokenIssuer interface {
	IssuePair(userID string) (auth.TokenPair, error)
}

// LoginResult is everything a successful login returns.
type LoginResult struct {
	User   *domain.User
	Wallet *domain.Wallet
	Tokens auth.TokenPair
}

// AuthService authenticates users and issues tokens.
type AuthService struct {
	DB     *gorm.DB
	Repo   LoginRepo
	Hasher PasswordHasher
	Tokens TokenIssuer

	// Now is the clock used for the last-login stamp.
	Now func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService using the wall clock.
func NewAuthService(db *gorm.DB, r LoginRepo, h PasswordHasher, t TokenIssuer) *AuthService {
	return &AuthService{DB: db, Repo: r, Hasher: h, Tokens: t, Now: time.Now}
}

// Authenticate returns the user owning email if password matches, whether or
// not the account is active. Any mismatch yields ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.Repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Spend the same bcrypt work as a real check.
			_, _ = s.Hasher.Check(s.dummy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.Hasher.Check(u.Password, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates, issues a token pair, loads the wallet and stamps the
// last-login time.
//
// Errors:
//   - ErrInvalidCredentials: unknown email or wrong password
//   - ErrAccountDeactivated: valid credentials of an inactive account
//   - NotFound("Wallet"): the user has no wallet
//   - ImproperlyConfigured: token signing is not configured
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}

	pair, err := s.Tokens.IssuePair(u.ID)
	if err != nil {
		return nil, err
	}

	w, err := s.Repo.GetWalletByUser(ctx, s.DB, u.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failure.NewNotFound(ResourceWallet, msgNotFound)
		}
		return nil, err
	}

	now := s.now().UTC()
	if err := s.Repo.UpdateLastLogin(ctx, s.DB, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now

	return &LoginResult{User: u, Wallet: w, Tokens: pair}, nil
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}
