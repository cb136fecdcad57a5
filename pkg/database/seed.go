package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/nord-digital/userdir/internal/model"
	"gorm.io/gorm"
)

// DefaultAdmin defines the bootstrap administrator credentials
type DefaultAdmin struct {
	Login    string
	Password string
	Name     string
}

// Seed creates the bootstrap administrator against an empty store. It is a
// no-op when any admin account already exists, so it can run on every start.
// The admin's created_by is self-referential, there being no real editor yet.
func Seed(db *gorm.DB, admin DefaultAdmin) error {
	var count int64
	if err := db.Model(&model.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	user := model.User{
		ID:         uuid.New(),
		Login:      admin.Login,
		Password:   admin.Password,
		Name:       admin.Name,
		Gender:     model.GenderUnknown,
		IsAdmin:    true,
		CreatedAt:  now,
		CreatedBy:  admin.Login,
		ModifiedAt: now,
		ModifiedBy: admin.Login,
	}

	return db.Create(&user).Error
}
