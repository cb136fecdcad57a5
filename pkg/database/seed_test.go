package database

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nord-digital/userdir/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	require.NoError(t, CreateIndexes(db))
	return db
}

func TestSeedCreatesBootstrapAdmin(t *testing.T) {
	db := openTestDB(t)

	admin := DefaultAdmin{Login: "admin", Password: "admin", Name: "Admin"}
	require.NoError(t, Seed(db, admin))

	var user model.User
	require.NoError(t, db.Where("login = ?", "admin").First(&user).Error)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "admin", user.Password)
	assert.Equal(t, model.GenderUnknown, user.Gender)
	// The bootstrap admin records itself as its creator
	assert.Equal(t, "admin", user.CreatedBy)
	assert.Nil(t, user.RevokedAt)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	admin := DefaultAdmin{Login: "admin", Password: "admin", Name: "Admin"}

	require.NoError(t, Seed(db, admin))
	require.NoError(t, Seed(db, admin))

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSeedSkipsWhenAnyAdminExists(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Seed(db, DefaultAdmin{Login: "root", Password: "root", Name: "Root"}))
	require.NoError(t, Seed(db, DefaultAdmin{Login: "admin", Password: "admin", Name: "Admin"}))

	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("login = ?", "admin").Count(&count).Error)
	assert.Zero(t, count)
}
