package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"outfitted/internal/config"
	"outfitted/internal/database"
	"outfitted/internal/models"
	"outfitted/internal/service"
	"outfitted/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shelf = AdminAccount{Username: "shelf", Email: "Shelf@Outfitted.ru", Password: "shelf"}

func TestEnsureAdmin_CreatesAccount(t *testing.T) {
	db := testutil.NewTestDB(t)

	admin, err := EnsureAdmin(context.Background(), db, shelf)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "shelf@outfitted.ru", admin.Email)
	assert.True(t, service.VerifyPassword("shelf", admin.Password))

	// Running again changes nothing.
	again, err := EnsureAdmin(context.Background(), db, shelf)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureAdmin_PromotesMatchingUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	existing := testutil.CreateUser(t, db, "shelf", "kept-password", false)
	account := AdminAccount{Username: "shelf", Email: existing.Email, Password: "shelf"}

	admin, err := EnsureAdmin(context.Background(), db, account)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, admin.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, existing.ID).Error)
	assert.True(t, stored.IsAdmin)
	assert.True(t, service.VerifyPassword("kept-password", stored.Password))
}

func TestEnsureAdmin_IgnoresEmailOnlyMatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	eve := testutil.CreateUser(t, db, "eve", "eve-password", false)
	require.NoError(t, db.Model(eve).Update("email", "shelf@outfitted.ru").Error)

	_, err := EnsureAdmin(context.Background(), db, shelf)
	require.Error(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, eve.ID).Error)
	assert.False(t, stored.IsAdmin)

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins).Error)
	assert.Zero(t, admins)
}

func TestEnsureAdmin_UsernameWithDifferentEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	other := testutil.CreateUser(t, db, "shelf", "other-password", false)

	_, err := EnsureAdmin(context.Background(), db, shelf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different email")

	var stored models.User
	require.NoError(t, db.First(&stored, other.ID).Error)
	assert.False(t, stored.IsAdmin)
}

func TestEnsureAdmin_RequiresCredentials(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := EnsureAdmin(context.Background(), db, AdminAccount{Username: "shelf", Email: "shelf@outfitted.ru"})
	assert.Error(t, err)
}

func TestInitRuntime(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Env:            "test",
		DBDriver:       "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "outfitted.db"),
		RedisURL:       mr.Addr(),
		AdminBootstrap: true,
		AdminUsername:  "shelf",
		AdminEmail:     "shelf@outfitted.ru",
		AdminPassword:  "shelf",
	}

	db, rdb, err := InitRuntime(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	t.Cleanup(func() {
		_ = rdb.Close()
		_ = database.Close(db)
	})

	var admin models.User
	require.NoError(t, db.Where("username = ?", "shelf").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
}

func TestInitRuntime_WithoutRedisOrBootstrap(t *testing.T) {
	cfg := &config.Config{
		Env:        "test",
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "outfitted.db"),
		RedisURL:   "redis://:bad@127.0.0.1:notaport",
	}

	db, rdb, err := InitRuntime(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, rdb)
	t.Cleanup(func() { _ = database.Close(db) })

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}
