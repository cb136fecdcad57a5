package model

import (
	"time"

	"github.com/google/uuid"
)

// Gender values stored on a user record.
const (
	GenderFemale  = 0
	GenderMale    = 1
	GenderUnknown = 2
)

// User is the single persisted entity of the directory. Login is unique
// case-insensitively (enforced by the lower(login) index created in
// pkg/database); Token is unique when present.
type User struct {
	ID       uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Login    string     `gorm:"column:login;not null"`
	Password string     `gorm:"column:password;not null"`
	Name     string     `gorm:"column:name;not null"`
	Gender   int        `gorm:"column:gender;not null;default:2"`
	Birthday *time.Time `gorm:"column:birthday"`
	IsAdmin  bool       `gorm:"column:is_admin;not null;default:false"`

	CreatedAt  time.Time  `gorm:"column:created_at;not null"`
	CreatedBy  string     `gorm:"column:created_by;not null"`
	ModifiedAt time.Time  `gorm:"column:modified_at;not null"`
	ModifiedBy string     `gorm:"column:modified_by;not null"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`
	RevokedBy  string     `gorm:"column:revoked_by;not null;default:''"`

	Token *string `gorm:"column:token;uniqueIndex:idx_users_token,where:token IS NOT NULL"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account has not been soft-deleted.
func (u *User) IsActive() bool {
	return u.RevokedAt == nil
}
