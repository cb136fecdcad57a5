package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	apperrors "github.com/nord-digital/userdir/internal/errors"
	"github.com/nord-digital/userdir/internal/model"
	"github.com/nord-digital/userdir/internal/repository"
	ctxutil "github.com/nord-digital/userdir/pkg/context"
	"github.com/nord-digital/userdir/pkg/logger"
)

const tokenBytes = 64

// TokenService issues opaque bearer tokens. A token is bound to the account
// for its whole lifetime: repeated issuance returns the stored value
// unchanged, there is no rotation or expiry.
type TokenService struct {
	users     *UserService
	repo      repository.UserStore
	cache     *TokenCache
	randBytes func(b []byte) (int, error)
}

func NewTokenService(users *UserService, repo repository.UserStore, cache *TokenCache) *TokenService {
	return &TokenService{
		users:     users,
		repo:      repo,
		cache:     cache,
		randBytes: rand.Read,
	}
}

// Issue resolves the credentials and returns the account's token, minting
// one on first use. Blocked accounts keep their token; blocking is enforced
// by the operations a token is spent on, not by issuance.
func (s *TokenService) Issue(ctx context.Context, login, password string) (string, error) {
	ctx = ctxutil.NewContext(ctx, "service", "Issue")

	user, err := s.users.AuthenticateByCredentials(ctx, login, password)
	if err != nil {
		return "", err
	}
	if user == nil {
		logger.WarnWithContext(ctx, "Token requested with invalid credentials").
			String("login", login).
			Log()
		return "", apperrors.ErrInvalidCredentials
	}

	return s.IssueFor(ctx, user)
}

// IssueFor mints or returns the token for an already-resolved account.
// The bootstrap routine uses it directly, before any credentials exist to
// verify against.
func (s *TokenService) IssueFor(ctx context.Context, user *model.User) (string, error) {
	if user.Token != nil && *user.Token != "" {
		return *user.Token, nil
	}

	buf := make([]byte, tokenBytes)
	if _, err := s.randBytes(buf); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, fmt.Errorf("failed to generate token: %w", err))
	}
	token := hex.EncodeToString(buf)

	user.Token = &token
	if err := s.repo.Save(ctx, user); err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.Store(ctx, token, user.ID.String())

	logger.InfoWithContext(ctx, "Token issued").
		String("login", user.Login).
		Log()

	return token, nil
}
