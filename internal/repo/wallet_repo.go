// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read access to wallets.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-account-api/internal/domain"
)

// GetWalletByUser fetches the wallet owned by userID, or ErrNotFound.
func GetWalletByUser(ctx context.Context, db *gorm.DB, userID string) (*domain.Wallet, error) {
	var w domain.Wallet
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}
