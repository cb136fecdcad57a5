package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/model"
	ctxutil "github.com/nord-digital/userdir/pkg/context"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore is the persistence contract for directory accounts. Login
// lookups are case-insensitive; lookups return (nil, nil) when no row
// matches so callers can distinguish absence from storage failure.
type UserStore interface {
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	FindByToken(ctx context.Context, token string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListActive(ctx context.Context) ([]model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, user *model.User) error
	CountAdmins(ctx context.Context) (int64, error)
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindByLogin")

	logger.DebugWithContext(ctx, "Looking up user by login").
		String("login", login).
		Log()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("lower(login) = lower(?)", login).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to look up user by login").
			String("login", login).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, fmt.Errorf("failed to find user by login: %w", result.Error)
	}

	return &user, nil
}

func (r *UserRepository) FindByToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindByToken")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("token = ?", token).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to look up user by token").
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, fmt.Errorf("failed to find user by token: %w", result.Error)
	}

	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindByID")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to look up user by id").
			String("user_id", id.String()).
			Err(result.Error).
			Log()
		return nil, fmt.Errorf("failed to find user by id: %w", result.Error)
	}

	return &user, nil
}

// ListActive returns non-revoked accounts ordered by creation time, so the
// registry reads oldest-first.
func (r *UserRepository) ListActive(ctx context.Context) ([]model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "ListActive")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var users []model.User
	result := r.db.WithContext(ctx).
		Where("revoked_at IS NULL").
		Order("created_at ASC").
		Find(&users)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to list active users").
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, fmt.Errorf("failed to list active users: %w", result.Error)
	}

	logger.DebugWithContext(ctx, "Active users listed").
		Int("count", len(users)).
		Duration(duration).
		Log()

	return users, nil
}

func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "ListAll")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var users []model.User
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&users)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to list users").
			Err(result.Error).
			Log()
		return nil, fmt.Errorf("failed to list users: %w", result.Error)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Create")

	logger.DebugWithContext(ctx, "Creating user").
		String("login", user.Login).
		Bool("is_admin", user.IsAdmin).
		Log()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			logger.WarnWithContext(ctx, "Login already taken").
				String("login", user.Login).
				Log()
			return apperrors.ErrLoginExists
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("login", user.Login).
			Duration(duration).
			Err(result.Error).
			Log()
		return fmt.Errorf("failed to create user: %w", result.Error)
	}

	logger.InfoWithContext(ctx, "User created").
		String("login", user.Login).
		String("user_id", user.ID.String()).
		Duration(duration).
		Log()

	return nil
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Save")

	if err := ctx.Err(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.ErrLoginExists
		}
		logger.ErrorWithContext(ctx, "Failed to save user").
			String("login", user.Login).
			Err(result.Error).
			Log()
		return fmt.Errorf("failed to save user: %w", result.Error)
	}

	return nil
}

// Delete removes the row permanently. The model has no gorm.DeletedAt
// column, so this is a hard delete.
func (r *UserRepository) Delete(ctx context.Context, user *model.User) error {
	ctx = ctxutil.NewContext(ctx, "repository", "Delete")

	if err := ctx.Err(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(user)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete user").
			String("login", user.Login).
			Err(result.Error).
			Log()
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	logger.InfoWithContext(ctx, "User deleted").
		String("login", user.Login).
		Log()

	return nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "CountAdmins")

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("is_admin = ?", true).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count admins: %w", result.Error)
	}

	return count, nil
}
