package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (User{}).TableName() != "users" {
		t.Fatalf("User.TableName() = %q; want %q", (User{}).TableName(), "users")
	}
	if (Wallet{}).TableName() != "wallets" {
		t.Fatalf("Wallet.TableName() = %q; want %q", (Wallet{}).TableName(), "wallets")
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&User{}, &Wallet{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&User{}, &Wallet{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&User{}, "ux_users_email") {
		t.Fatalf("expected index ux_users_email on users")
	}
	if !m.HasIndex(&Wallet{}, "ux_wallets_user") {
		t.Fatalf("expected index ux_wallets_user on wallets")
	}

	now := time.Now().UTC()
	u := User{ID: "11111111-1111-1111-1111-111111111111", Email: "a@example.com", Password: "x", IsActive: true, CreatedAt: now}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	w := Wallet{ID: "22222222-2222-2222-2222-222222222222", UserID: u.ID, CurrentBalance: decimal.RequireFromString("12.50")}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	// Unique email.
	dup := User{ID: "33333333-3333-3333-3333-333333333333", Email: "a@example.com", Password: "x"}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique violation on email")
	}

	// Decimal round-trip.
	var got Wallet
	if err := db.First(&got, "id = ?", w.ID).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	if !got.CurrentBalance.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("balance round-trip = %s", got.CurrentBalance)
	}

	// Cascade: deleting the user removes the wallet.
	if err := db.Delete(&User{}, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	var count int64
	db.Model(&Wallet{}).Where("user_id = ?", u.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected wallet cascade delete, still have %d", count)
	}
}
