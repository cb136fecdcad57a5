package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/model"
	"github.com/nord-digital/userdir/internal/repository"
	"github.com/nord-digital/userdir/internal/service"
	"github.com/nord-digital/userdir/internal/testutils"
)

type fixture struct {
	repo  repository.UserStore
	users *service.UserService
	admin *model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutils.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	users := service.NewUserService(repo, nil)

	admin := testutils.NewUser("admin", testutils.AsAdmin(), testutils.WithPassword("admin"))
	require.NoError(t, repo.Create(context.Background(), admin))

	return &fixture{repo: repo, users: users, admin: admin}
}

func (f *fixture) createUser(t *testing.T, login string, opts ...func(*service.CreateParams)) *model.User {
	t.Helper()

	p := service.CreateParams{
		Login:    login,
		Password: "pw1",
		Name:     "Bob",
		Gender:   model.GenderMale,
	}
	for _, opt := range opts {
		opt(&p)
	}

	user, err := f.users.Create(context.Background(), f.admin, p)
	require.NoError(t, err)
	return user
}

func TestAuthenticateByCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")

	t.Run("case-insensitive login, exact password", func(t *testing.T) {
		user, err := f.users.AuthenticateByCredentials(ctx, "BOB", "pw1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "bob", user.Login)
	})

	t.Run("wrong password resolves nothing", func(t *testing.T) {
		user, err := f.users.AuthenticateByCredentials(ctx, "bob", "PW1")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown login resolves nothing", func(t *testing.T) {
		user, err := f.users.AuthenticateByCredentials(ctx, "nobody", "pw1")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("blocked accounts still resolve", func(t *testing.T) {
		_, err := f.users.Block(ctx, f.admin, "bob")
		require.NoError(t, err)

		user, err := f.users.AuthenticateByCredentials(ctx, "bob", "pw1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.False(t, user.IsActive())
	})
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")

	user, err := f.users.Login(ctx, "bob", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Login)

	_, err = f.users.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.users.Block(ctx, f.admin, "bob")
	require.NoError(t, err)

	_, err = f.users.Login(ctx, "bob", "pw1")
	assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)
}

func TestSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")

	bob, err := f.repo.FindByLogin(ctx, "bob")
	require.NoError(t, err)

	me, err := f.users.Self(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "bob", me.Login)

	_, err = f.users.Self(ctx, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.users.Block(ctx, f.admin, "bob")
	require.NoError(t, err)
	blocked, err := f.repo.FindByLogin(ctx, "bob")
	require.NoError(t, err)

	_, err = f.users.Self(ctx, blocked)
	assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("stamps audit fields and identifier", func(t *testing.T) {
		user := f.createUser(t, "bob")
		assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")
		assert.Equal(t, "admin", user.CreatedBy)
		assert.Equal(t, "admin", user.ModifiedBy)
		assert.True(t, user.IsActive())
	})

	t.Run("duplicate login conflicts regardless of case", func(t *testing.T) {
		_, err := f.users.Create(ctx, f.admin, service.CreateParams{
			Login: "BOB", Password: "other", Name: "Other", Gender: model.GenderFemale,
		})
		assert.ErrorIs(t, err, apperrors.ErrLoginExists)
	})

	t.Run("nil editor is an authentication failure", func(t *testing.T) {
		_, err := f.users.Create(ctx, nil, service.CreateParams{
			Login: "x", Password: "x", Name: "X", Gender: model.GenderUnknown,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("non-admin editor is forbidden", func(t *testing.T) {
		bob, err := f.repo.FindByLogin(ctx, "bob")
		require.NoError(t, err)

		_, err = f.users.Create(ctx, bob, service.CreateParams{
			Login: "x", Password: "x", Name: "X", Gender: model.GenderUnknown,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("field validation", func(t *testing.T) {
		cases := []service.CreateParams{
			{Login: "bad login", Password: "pw", Name: "X", Gender: 0},
			{Login: "ok", Password: "bad pw", Name: "X", Gender: 0},
			{Login: "ok", Password: "pw", Name: "X1", Gender: 0},
			{Login: "ok", Password: "pw", Name: "X", Gender: 5},
		}
		for _, p := range cases {
			_, err := f.users.Create(ctx, f.admin, p)
			require.Error(t, err)
			domainErr := apperrors.GetDomainError(err)
			require.NotNil(t, domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		}
	})
}

// blindStore hides one login from lookups while delegating everything else,
// reproducing the window where a concurrent insert lands between the
// service's uniqueness pre-check and its own insert.
type blindStore struct {
	repository.UserStore
	hidden string
}

func (s *blindStore) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	if strings.EqualFold(login, s.hidden) {
		return nil, nil
	}
	return s.UserStore.FindByLogin(ctx, login)
}

func TestCreateLosingUniquenessRace(t *testing.T) {
	db := testutils.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	admin := testutils.NewUser("admin", testutils.AsAdmin())
	require.NoError(t, repo.Create(ctx, admin))

	// The winner's row is already in the store, but the loser's pre-check
	// does not see it; only the lower(login) unique index stops the insert.
	require.NoError(t, repo.Create(ctx, testutils.NewUser("dup")))

	users := service.NewUserService(&blindStore{UserStore: repo, hidden: "dup"}, nil)
	_, err := users.Create(ctx, admin, service.CreateParams{
		Login: "DUP", Password: "pw2", Name: "Other", Gender: model.GenderFemale,
	})
	assert.ErrorIs(t, err, apperrors.ErrLoginExists)

	// Exactly one account holds the login
	var count int64
	require.NoError(t, db.Model(&model.User{}).Where("lower(login) = lower(?)", "dup").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	survivor, err := repo.FindByLogin(ctx, "dup")
	require.NoError(t, err)
	require.NotNil(t, survivor)
	assert.Equal(t, "dup", survivor.Login)
}

func TestUpdatePartialSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")

	bd := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)
	updated, err := f.users.Update(ctx, f.admin, "bob", service.UpdateParams{Birthday: &bd})
	require.NoError(t, err)

	// Untouched fields survive
	assert.Equal(t, "Bob", updated.Name)
	assert.Equal(t, model.GenderMale, updated.Gender)
	require.NotNil(t, updated.Birthday)
	assert.True(t, bd.Equal(*updated.Birthday))

	female := model.GenderFemale
	updated, err = f.users.Update(ctx, f.admin, "bob", service.UpdateParams{Name: "Роберт", Gender: &female})
	require.NoError(t, err)
	assert.Equal(t, "Роберт", updated.Name)
	assert.Equal(t, model.GenderFemale, updated.Gender)
	require.NotNil(t, updated.Birthday)

	_, err = f.users.Update(ctx, f.admin, "bob", service.UpdateParams{Name: "bad name 1"})
	require.Error(t, err)

	_, err = f.users.Update(ctx, f.admin, "missing", service.UpdateParams{Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestSelfServiceAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")
	f.createUser(t, "carol")

	bob, err := f.repo.FindByLogin(ctx, "bob")
	require.NoError(t, err)

	t.Run("active non-admin may edit itself", func(t *testing.T) {
		_, err := f.users.Update(ctx, bob, "bob", service.UpdateParams{Name: "Bobby"})
		assert.NoError(t, err)
	})

	t.Run("non-admin on another target is forbidden", func(t *testing.T) {
		_, err := f.users.Update(ctx, bob, "carol", service.UpdateParams{Name: "X"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = f.users.ActiveUsers(ctx, bob)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = f.users.UserByLogin(ctx, bob, "carol")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = f.users.UsersOlderThan(ctx, bob, 10)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = f.users.Block(ctx, bob, "carol")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		_, err = f.users.Unblock(ctx, bob, "carol")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		err = f.users.DeleteHard(ctx, bob, "carol")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("blocked non-admin loses self-service", func(t *testing.T) {
		_, err := f.users.Block(ctx, f.admin, "bob")
		require.NoError(t, err)

		blockedBob, err := f.repo.FindByLogin(ctx, "bob")
		require.NoError(t, err)
		require.False(t, blockedBob.IsActive())

		_, err = f.users.Update(ctx, blockedBob, "bob", service.UpdateParams{Name: "Bobbb"})
		assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)

		_, err = f.users.UpdatePassword(ctx, blockedBob, "bob", "newpw")
		assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)

		_, err = f.users.UpdateLogin(ctx, blockedBob, "bob", "bobby")
		assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)
	})
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")

	t.Run("empty new password changes nothing", func(t *testing.T) {
		user, err := f.users.UpdatePassword(ctx, f.admin, "bob", "")
		require.NoError(t, err)
		assert.Nil(t, user)

		stored, err := f.repo.FindByLogin(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "pw1", stored.Password)
	})

	t.Run("valid password is stored", func(t *testing.T) {
		user, err := f.users.UpdatePassword(ctx, f.admin, "bob", "pw2")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "pw2", user.Password)
	})

	t.Run("invalid characters rejected", func(t *testing.T) {
		_, err := f.users.UpdatePassword(ctx, f.admin, "bob", "pw 3")
		require.Error(t, err)
		domainErr := apperrors.GetDomainError(err)
		require.NotNil(t, domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}

func TestUpdateLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")
	f.createUser(t, "carol")

	t.Run("empty new login changes nothing", func(t *testing.T) {
		user, err := f.users.UpdateLogin(ctx, f.admin, "bob", "")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("taken login conflicts", func(t *testing.T) {
		_, err := f.users.UpdateLogin(ctx, f.admin, "bob", "CAROL")
		assert.ErrorIs(t, err, apperrors.ErrLoginExists)
	})

	t.Run("renaming to own login in another case is allowed", func(t *testing.T) {
		user, err := f.users.UpdateLogin(ctx, f.admin, "bob", "Bob")
		require.NoError(t, err)
		assert.Equal(t, "Bob", user.Login)
	})

	t.Run("rename succeeds", func(t *testing.T) {
		user, err := f.users.UpdateLogin(ctx, f.admin, "Bob", "robert")
		require.NoError(t, err)
		assert.Equal(t, "robert", user.Login)

		gone, err := f.repo.FindByLogin(ctx, "bob")
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestBlockUnblockRestoresState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bd := time.Date(1990, time.May, 10, 0, 0, 0, 0, time.UTC)
	created := f.createUser(t, "bob", func(p *service.CreateParams) { p.Birthday = &bd })

	blocked, err := f.users.Block(ctx, f.admin, "bob")
	require.NoError(t, err)
	assert.False(t, blocked.IsActive())
	assert.Equal(t, "admin", blocked.RevokedBy)
	require.NotNil(t, blocked.RevokedAt)

	restored, err := f.users.Unblock(ctx, f.admin, "bob")
	require.NoError(t, err)
	assert.True(t, restored.IsActive())
	assert.Empty(t, restored.RevokedBy)

	// Everything except the modification stamp matches the pre-block state
	assert.Equal(t, created.Login, restored.Login)
	assert.Equal(t, created.Password, restored.Password)
	assert.Equal(t, created.Name, restored.Name)
	assert.Equal(t, created.Gender, restored.Gender)
	require.NotNil(t, restored.Birthday)
	assert.True(t, created.Birthday.Equal(*restored.Birthday))
	assert.Equal(t, created.CreatedBy, restored.CreatedBy)
}

func TestUnblockMissingTarget(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Unblock(context.Background(), f.admin, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUsersOlderThan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	young := time.Now().UTC().AddDate(-10, 0, 0)
	f.createUser(t, "older", func(p *service.CreateParams) { p.Birthday = &old })
	f.createUser(t, "younger", func(p *service.CreateParams) { p.Birthday = &young })
	f.createUser(t, "ageless")

	users, err := f.users.UsersOlderThan(ctx, f.admin, 30)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "older", users[0].Login)

	// Accounts without a birthday never qualify
	users, err = f.users.UsersOlderThan(ctx, f.admin, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestDeleteHard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")

	require.NoError(t, f.users.DeleteHard(ctx, f.admin, "bob"))

	gone, err := f.repo.FindByLogin(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = f.users.DeleteHard(ctx, f.admin, "bob")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestListActiveVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob")
	f.createUser(t, "carol")

	_, err := f.users.Block(ctx, f.admin, "carol")
	require.NoError(t, err)

	users, err := f.users.ActiveUsers(ctx, f.admin)
	require.NoError(t, err)

	logins := make([]string, 0, len(users))
	for _, u := range users {
		logins = append(logins, u.Login)
	}
	assert.Equal(t, []string{"admin", "bob"}, logins)
}

// Lifecycle walk: create, obtain a token, empty-password no-op, block away
// self-service, unblock to restore it.
func TestAccountLifecycleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens := service.NewTokenService(f.users, f.repo, nil)

	f.createUser(t, "bob")

	token, err := tokens.Issue(ctx, "bob", "pw1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	bob, err := f.users.AuthenticateByToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, bob)

	unchanged, err := f.users.UpdatePassword(ctx, bob, "bob", "")
	require.NoError(t, err)
	assert.Nil(t, unchanged)

	_, err = f.users.Block(ctx, f.admin, "bob")
	require.NoError(t, err)

	bob, err = f.users.AuthenticateByToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, bob)
	_, err = f.users.Update(ctx, bob, "bob", service.UpdateParams{Name: "Bobby"})
	assert.ErrorIs(t, err, apperrors.ErrAccountBlocked)

	_, err = f.users.Unblock(ctx, f.admin, "bob")
	require.NoError(t, err)

	bob, err = f.users.AuthenticateByToken(ctx, token)
	require.NoError(t, err)
	_, err = f.users.Update(ctx, bob, "bob", service.UpdateParams{Name: "Bobby"})
	assert.NoError(t, err)
}
