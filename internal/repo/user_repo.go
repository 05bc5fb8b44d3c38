// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - A duplicate email surfaces as gorm.ErrDuplicatedKey when the handle
//     was opened with TranslateError (see Open).
//   - Other DB errors (connectivity issues, etc.) are propagated as-is.
//
// Functions:
//
//   - CreateUser(ctx, db, u) -> *domain.User, error
//     Inserts a user and its zero-balance wallet in one transaction.
//
//   - GetUser(ctx, db, id) -> *domain.User, error
//     Fetches a user by primary key.
//
//   - GetUserByEmail(ctx, db, email) -> *domain.User, error
//     Fetches a user by its unique email.
//
//   - EmailTaken(ctx, db, email, excludeID) -> bool, error
//     Reports whether another user already owns email.
//
//   - ListUsers(ctx, db, excludeID, onlyActive) -> []domain.User, error
//     Lists users except excludeID, optionally only active ones.
//
//   - UpdateProfile(ctx, db, u) -> error
//     Persists email, first and last name.
//
//   - UpdateActivation(ctx, db, u) -> error
//     Persists is_active and modified_by.
//
//   - UpdateLastLogin(ctx, db, id, at) -> error
//     Stamps last_login without touching other columns.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-account-api/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts u together with an empty wallet. A missing ID is
// generated and timestamps default to now (UTC).
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		w := &domain.Wallet{
			ID:             uuid.NewString(),
			UserID:         u.ID,
			CurrentBalance: decimal.Zero,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return tx.Create(w).Error
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a single user by id, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a single user by email, or ErrNotFound.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailTaken reports whether a user other than excludeID owns email.
// Pass an empty excludeID to check against all users.
func EmailTaken(ctx context.Context, db *gorm.DB, email, excludeID string) (bool, error) {
	var n int64
	q := db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// usersScope applies the list filter shared by ListUsers and UsersStats.
func usersScope(excludeID string, onlyActive bool) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("id <> ?", excludeID)
		if onlyActive {
			q = q.Where("is_active = ?", true)
		}
		return q
	}
}

// ListUsers returns every user except excludeID, oldest first. With
// onlyActive, inactive users are filtered out.
func ListUsers(ctx context.Context, db *gorm.DB, excludeID string, onlyActive bool) ([]domain.User, error) {
	out := []domain.User{}
	err := db.WithContext(ctx).
		Scopes(usersScope(excludeID, onlyActive)).
		Order("created_at asc").
		Order("id asc").
		Find(&out).Error
	return out, err
}

// UpdateProfile writes the profile columns of u and refreshes UpdatedAt.
// Other columns, last_login in particular, are left as stored.
func UpdateProfile(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return updateColumns(ctx, db, u, "email", "first_name", "last_name")
}

// UpdateActivation writes is_active and modified_by of u and refreshes
// UpdatedAt.
func UpdateActivation(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return updateColumns(ctx, db, u, "is_active", "modified_by_id")
}

// updateColumns writes only cols (plus updated_at) of u, zero values
// included. It returns ErrNotFound when no row was affected.
func updateColumns(ctx context.Context, db *gorm.DB, u *domain.User, cols ...string) error {
	u.UpdatedAt = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(u).
		Select(append(cols, "updated_at")).
		Updates(u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLastLogin sets last_login for id. It returns ErrNotFound when no row
// was affected.
func UpdateLastLogin(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
