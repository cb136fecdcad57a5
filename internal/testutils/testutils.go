// Package testutils provides shared helpers for package tests. The store
// tests run against an in-memory sqlite database migrated with the same
// schema and indexes as production.
package testutils

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nord-digital/userdir/internal/model"
	"github.com/nord-digital/userdir/pkg/database"
)

// NewTestDB opens a fresh in-memory database with the production schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}))
	require.NoError(t, database.CreateIndexes(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// NewUser builds a persisted-shape user record with sane defaults.
func NewUser(login string, opts ...func(*model.User)) *model.User {
	now := time.Now().UTC()
	u := &model.User{
		ID:         uuid.New(),
		Login:      login,
		Password:   "pw",
		Name:       "Name",
		Gender:     model.GenderUnknown,
		CreatedAt:  now,
		CreatedBy:  login,
		ModifiedAt: now,
		ModifiedBy: login,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// AsAdmin marks the user as an administrator.
func AsAdmin() func(*model.User) {
	return func(u *model.User) { u.IsAdmin = true }
}

// WithPassword sets the password.
func WithPassword(pw string) func(*model.User) {
	return func(u *model.User) { u.Password = pw }
}

// WithBirthday sets the birthday.
func WithBirthday(y int, m time.Month, d int) func(*model.User) {
	return func(u *model.User) {
		bd := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		u.Birthday = &bd
	}
}

// Blocked marks the user as revoked.
func Blocked(by string) func(*model.User) {
	return func(u *model.User) {
		now := time.Now().UTC()
		u.RevokedAt = &now
		u.RevokedBy = by
	}
}
