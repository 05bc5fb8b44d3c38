package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-account-api/internal/config"
	"github.com/tbourn/go-account-api/internal/domain"
)

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()

	rdb, err := openRedis(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, rdb)

	mr := miniredis.RunT(t)
	rdb, err = openRedis(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NotNil(t, rdb)
	_ = rdb.Close()

	_, err = openRedis(ctx, "not a url")
	assert.Error(t, err)

	mr.Close()
	_, err = openRedis(ctx, "redis://"+mr.Addr())
	assert.Error(t, err)
}

func TestOpenDB_SQLiteMigrates(t *testing.T) {
	cfg := config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "app.db")}

	db, err := openDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.True(t, db.Migrator().HasTable(&domain.User{}))
	assert.True(t, db.Migrator().HasTable(&domain.Wallet{}))

	_, err = openDB(config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}
