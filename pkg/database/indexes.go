package database

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateIndexes creates the indexes gorm's tag syntax cannot express.
// The lower(login) unique index is what actually guarantees case-insensitive
// login uniqueness under concurrent inserts; application-level checks only
// provide the friendly error message.
func CreateIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_login_lower ON users (lower(login));",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users (created_at);",
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
