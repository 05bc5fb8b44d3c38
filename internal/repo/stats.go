// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-account-api/internal/domain"
)

// UsersStats returns the number of users a ListUsers call with the same
// arguments would return, and the latest change among them: the greatest of
// UpdatedAt and LastLogin. Logins stamp last_login without touching
// updated_at, and both are part of the serialized user.
//
// When no rows match, the returned count is 0 and latest is nil.
func UsersStats(ctx context.Context, db *gorm.DB, excludeID string, onlyActive bool) (count int64, latest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.User{}).Scopes(usersScope(excludeID, onlyActive))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest values by ordering (avoid MAX() -> TEXT in SQLite)
	var updated struct {
		UpdatedAt time.Time
	}
	err = db.WithContext(ctx).Model(&domain.User{}).
		Scopes(usersScope(excludeID, onlyActive)).
		Select("updated_at").
		Order("updated_at DESC").
		Limit(1).
		Scan(&updated).Error
	if err != nil {
		return 0, nil, err
	}

	var login struct {
		LastLogin *time.Time
	}
	err = db.WithContext(ctx).Model(&domain.User{}).
		Scopes(usersScope(excludeID, onlyActive)).
		Where("last_login IS NOT NULL").
		Select("last_login").
		Order("last_login DESC").
		Limit(1).
		Scan(&login).Error
	if err != nil {
		return 0, nil, err
	}

	latestAt := updated.UpdatedAt
	if login.LastLogin != nil && login.LastLogin.After(latestAt) {
		latestAt = *login.LastLogin
	}
	return count, &latestAt, nil
}
