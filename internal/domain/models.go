// Package domain defines the persistence models for user accounts and their
// wallets. These types are mapped with GORM and form the core data layer of
// the account API.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account identity.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: login identifier, unique across users.
//   - Password: bcrypt hash; never serialized.
//   - IsActive: inactive users cannot log in or authenticate.
//   - IsAdmin: grants access to the administrative endpoints.
//   - LastLogin: stamped on every successful login.
//   - ModifiedByID: the user that last toggled this account's activation.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//
// Users are never hard-deleted.
type User struct {
	ID           string     `json:"id"          gorm:"type:char(36);primaryKey"`
	Email        string     `json:"email"       gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Password     string     `json:"-"           gorm:"type:varchar(255);not null"`
	FirstName    string     `json:"first_name"  gorm:"type:varchar(150);not null;default:''"`
	LastName     string     `json:"last_name"   gorm:"type:varchar(150);not null;default:''"`
	IsActive     bool       `json:"is_active"   gorm:"not null;index"`
	IsAdmin      bool       `json:"is_admin"    gorm:"not null"`
	LastLogin    *time.Time `json:"last_login"`
	ModifiedByID *string    `json:"modified_by" gorm:"type:char(36);index"`
	CreatedAt    time.Time  `json:"created"`
	UpdatedAt    time.Time  `json:"modified"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Wallet holds the balance of exactly one user.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owning user (unique, cascade on delete/update).
//   - CurrentBalance: fixed-point balance (numeric(12,2)).
//   - UpdatedAt: last activity on the wallet.
type Wallet struct {
	ID             string          `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID         string          `json:"user_id"         gorm:"type:char(36);not null;uniqueIndex:ux_wallets_user"`
	CurrentBalance decimal.Decimal `json:"current_balance" gorm:"type:numeric(12,2);not null"`
	CreatedAt      time.Time       `json:"created"`
	UpdatedAt      time.Time       `json:"modified"`

	// User is the owner. The wallet is removed with it.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Wallet.
func (Wallet) TableName() string { return "wallets" }
