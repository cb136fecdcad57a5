package service

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/model"
	"github.com/nord-digital/userdir/internal/repository"
	ctxutil "github.com/nord-digital/userdir/pkg/context"
	"github.com/nord-digital/userdir/pkg/dates"
	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/nord-digital/userdir/pkg/validation"
	"github.com/google/uuid"
)

// UserService is the access-control and lifecycle core. Every operation
// takes the resolved editor and re-checks authorization against the target
// before touching the store.
type UserService struct {
	repo  repository.UserStore
	cache *TokenCache

	nowFunc func() time.Time
	idFunc  func() uuid.UUID
}

func NewUserService(repo repository.UserStore, cache *TokenCache) *UserService {
	return &UserService{
		repo:    repo,
		cache:   cache,
		nowFunc: func() time.Time { return time.Now().UTC() },
		idFunc:  uuid.New,
	}
}

// CreateParams carries the validated input for account creation.
type CreateParams struct {
	Login    string
	Password string
	Name     string
	Gender   int
	Birthday *time.Time
	IsAdmin  bool
}

// UpdateParams carries a partial profile update; nil/empty fields are left
// untouched on the target.
type UpdateParams struct {
	Name     string
	Gender   *int
	Birthday *time.Time
}

// AuthenticateByCredentials resolves an account from a login/password pair.
// Login comparison is case-insensitive, password comparison is exact.
// Returns (nil, nil) when nothing matches; blocked accounts still resolve —
// each operation decides whether blocked status matters.
func (s *UserService) AuthenticateByCredentials(ctx context.Context, login, password string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "AuthenticateByCredentials")

	user, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil || user.Password != password {
		return nil, nil
	}
	return user, nil
}

// AuthenticateByToken resolves an account from a bearer token, consulting
// the token cache first. The record itself is always re-read from the store.
func (s *UserService) AuthenticateByToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "AuthenticateByToken")

	if token == "" {
		return nil, nil
	}

	if cached := s.cache.Lookup(ctx, token); cached != "" {
		if id, err := uuid.Parse(cached); err == nil {
			user, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			if user != nil && user.Token != nil && *user.Token == token {
				return user, nil
			}
			// Stale entry, fall through to the store
			s.cache.Invalidate(ctx, token)
		}
	}

	user, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if user == nil {
		return nil, nil
	}

	s.cache.Store(ctx, token, user.ID.String())
	return user, nil
}

// Login is the strict identity check behind the who-am-I endpoint: unlike
// editor resolution it rejects both unknown credentials and blocked
// accounts.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Login")

	user, err := s.AuthenticateByCredentials(ctx, login, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("login", login).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		logger.WarnWithContext(ctx, "Login attempt on blocked account").
			String("login", login).
			Log()
		return nil, apperrors.ErrAccountBlocked
	}

	logger.InfoWithContext(ctx, "Login succeeded").
		String("login", user.Login).
		Log()
	return user, nil
}

// Self is the token who-am-I check, with the same failure modes as Login.
func (s *UserService) Self(ctx context.Context, editor *model.User) (*model.User, error) {
	if editor == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !editor.IsActive() {
		return nil, apperrors.ErrAccountBlocked
	}
	return editor, nil
}

// requireAdmin gates the admin-only operations. A missing editor is an
// authentication failure, not an authorization one.
func (s *UserService) requireAdmin(editor *model.User) error {
	if editor == nil {
		return apperrors.ErrInvalidCredentials
	}
	if !editor.IsAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

// authorizeTarget gates the self-or-admin operations. A non-admin may only
// act on itself, and only while active; blocked status on a self-target
// wins even for admins.
func (s *UserService) authorizeTarget(editor *model.User, targetLogin string) error {
	if editor == nil {
		return apperrors.ErrInvalidCredentials
	}
	self := strings.EqualFold(editor.Login, targetLogin)
	if !editor.IsAdmin && !self {
		return apperrors.ErrForbidden
	}
	if self && !editor.IsActive() {
		return apperrors.ErrAccountBlocked
	}
	return nil
}

func (s *UserService) mustFind(ctx context.Context, login string) (*model.User, error) {
	target, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return target, nil
}

func (s *UserService) stamp(user *model.User, editor *model.User) {
	user.ModifiedAt = s.nowFunc()
	if editor != nil {
		user.ModifiedBy = editor.Login
	}
}

// Create registers a new account. Admin only; the login must be free under
// case-insensitive comparison.
func (s *UserService) Create(ctx context.Context, editor *model.User, p CreateParams) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Create")

	if err := s.requireAdmin(editor); err != nil {
		return nil, err
	}

	if !validation.IsValidLogin(p.Login) {
		return nil, apperrors.ErrInvalidLogin
	}
	if !validation.IsValidPassword(p.Password) {
		return nil, apperrors.ErrInvalidPassword
	}
	if !validation.IsValidName(p.Name) {
		return nil, apperrors.ErrInvalidName
	}
	if !validation.IsValidGender(p.Gender) {
		return nil, apperrors.ErrInvalidGender
	}

	existing, err := s.repo.FindByLogin(ctx, p.Login)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil {
		return nil, apperrors.ErrLoginExists
	}

	now := s.nowFunc()
	user := &model.User{
		ID:         s.idFunc(),
		Login:      p.Login,
		Password:   p.Password,
		Name:       p.Name,
		Gender:     p.Gender,
		Birthday:   p.Birthday,
		IsAdmin:    p.IsAdmin,
		CreatedAt:  now,
		CreatedBy:  editor.Login,
		ModifiedAt: now,
		ModifiedBy: editor.Login,
	}

	// Concurrent creates race on the unique index; the store surfaces the
	// loser as ErrLoginExists.
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User registered").
		String("login", user.Login).
		String("created_by", editor.Login).
		Bool("is_admin", user.IsAdmin).
		Log()

	return user, nil
}

// Update applies a partial profile change: only supplied fields are
// touched, and each supplied field is validated.
func (s *UserService) Update(ctx context.Context, editor *model.User, login string, p UpdateParams) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Update")

	if err := s.authorizeTarget(editor, login); err != nil {
		return nil, err
	}

	target, err := s.mustFind(ctx, login)
	if err != nil {
		return nil, err
	}

	if p.Name != "" {
		if !validation.IsValidName(p.Name) {
			return nil, apperrors.ErrInvalidName
		}
		target.Name = p.Name
	}
	if p.Gender != nil {
		if !validation.IsValidGender(*p.Gender) {
			return nil, apperrors.ErrInvalidGender
		}
		target.Gender = *p.Gender
	}
	if p.Birthday != nil {
		target.Birthday = p.Birthday
	}

	s.stamp(target, editor)
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	return target, nil
}

// UpdatePassword replaces the target's password. An empty new password is
// a no-op returning (nil, nil) rather than an error.
func (s *UserService) UpdatePassword(ctx context.Context, editor *model.User, login, newPassword string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "UpdatePassword")

	if err := s.authorizeTarget(editor, login); err != nil {
		return nil, err
	}
	if newPassword == "" {
		return nil, nil
	}
	if !validation.IsValidPassword(newPassword) {
		return nil, apperrors.ErrInvalidPassword
	}

	target, err := s.mustFind(ctx, login)
	if err != nil {
		return nil, err
	}

	target.Password = newPassword
	s.stamp(target, editor)
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Password changed").
		String("login", target.Login).
		String("modified_by", target.ModifiedBy).
		Log()

	return target, nil
}

// UpdateLogin renames the account. An empty new login is a no-op returning
// (nil, nil); a new login held by a different account is a conflict.
func (s *UserService) UpdateLogin(ctx context.Context, editor *model.User, oldLogin, newLogin string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "UpdateLogin")

	if err := s.authorizeTarget(editor, oldLogin); err != nil {
		return nil, err
	}
	if newLogin == "" {
		return nil, nil
	}
	if !validation.IsValidLogin(newLogin) {
		return nil, apperrors.ErrInvalidLogin
	}

	target, err := s.mustFind(ctx, oldLogin)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByLogin(ctx, newLogin)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if existing != nil && existing.ID != target.ID {
		return nil, apperrors.ErrLoginExists
	}

	target.Login = newLogin
	s.stamp(target, editor)
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "Login changed").
		String("old_login", oldLogin).
		String("new_login", newLogin).
		Log()

	return target, nil
}

// ActiveUsers lists non-blocked accounts ordered by creation time. Admin
// only.
func (s *UserService) ActiveUsers(ctx context.Context, editor *model.User) ([]model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "ActiveUsers")

	if err := s.requireAdmin(editor); err != nil {
		return nil, err
	}

	users, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return users, nil
}

// UserByLogin returns one account for the reduced profile view. Admin only.
func (s *UserService) UserByLogin(ctx context.Context, editor *model.User, login string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "UserByLogin")

	if err := s.requireAdmin(editor); err != nil {
		return nil, err
	}
	return s.mustFind(ctx, login)
}

// UsersOlderThan returns accounts strictly older than the given whole-year
// age. Accounts without a birthday never qualify. Admin only.
func (s *UserService) UsersOlderThan(ctx context.Context, editor *model.User, age int) ([]model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "UsersOlderThan")

	if err := s.requireAdmin(editor); err != nil {
		return nil, err
	}

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := s.nowFunc()
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Birthday == nil {
			continue
		}
		if dates.YearsBetween(now, *u.Birthday) > age {
			out = append(out, u)
		}
	}
	return out, nil
}

// Block soft-deletes the target: revocation fields are set, everything
// else is preserved so Unblock can restore it. Admin only.
func (s *UserService) Block(ctx context.Context, editor *model.User, login string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Block")

	if err := s.requireAdmin(editor); err != nil {
		return nil, err
	}

	target, err := s.mustFind(ctx, login)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	target.RevokedAt = &now
	target.RevokedBy = editor.Login
	s.stamp(target, editor)
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User blocked").
		String("login", target.Login).
		String("revoked_by", editor.Login).
		Log()

	return target, nil
}

// Unblock clears the revocation fields. A missing target is reported as
// not found, the same as every other lookup.
func (s *UserService) Unblock(ctx context.Context, editor *model.User, login string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Unblock")

	if err := s.requireAdmin(editor); err != nil {
		return nil, err
	}

	target, err := s.mustFind(ctx, login)
	if err != nil {
		return nil, err
	}

	target.RevokedAt = nil
	target.RevokedBy = ""
	s.stamp(target, editor)
	if err := s.repo.Save(ctx, target); err != nil {
		return nil, err
	}

	logger.InfoWithContext(ctx, "User unblocked").
		String("login", target.Login).
		Log()

	return target, nil
}

// DeleteHard removes the record permanently and drops its cached token
// binding. Admin only, irreversible.
func (s *UserService) DeleteHard(ctx context.Context, editor *model.User, login string) error {
	ctx = ctxutil.NewContext(ctx, "service", "DeleteHard")

	if err := s.requireAdmin(editor); err != nil {
		return err
	}

	target, err := s.mustFind(ctx, login)
	if err != nil {
		return err
	}

	if target.Token != nil {
		s.cache.Invalidate(ctx, *target.Token)
	}

	if err := s.repo.Delete(ctx, target); err != nil {
		return err
	}

	logger.InfoWithContext(ctx, "User purged").
		String("login", target.Login).
		String("deleted_by", editor.Login).
		Log()

	return nil
}
