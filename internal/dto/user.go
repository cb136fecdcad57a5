package dto

import (
	"time"

	"github.com/nord-digital/userdir/internal/constants"
	"github.com/nord-digital/userdir/internal/model"
)

// CreateUserRequest carries the fields an editor supplies when registering
// a new account. Login and password are restricted to Latin letters and
// digits, the display name additionally allows Cyrillic letters.
type CreateUserRequest struct {
	Login    string `json:"login" binding:"required,login_chars"`
	Password string `json:"password" binding:"required,login_chars"`
	Name     string `json:"name" binding:"required,name_chars"`
	Gender   int    `json:"gender" binding:"min=0,max=2"`
	Birthday *Date  `json:"birthday"`
	IsAdmin  bool   `json:"is_admin"`
}

// UpdateUserRequest carries a partial profile update. Zero values mean
// "leave unchanged": an empty name is skipped, and gender/birthday are
// pointers so absence is distinguishable from an explicit value.
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty,name_chars"`
	Gender   *int   `json:"gender" binding:"omitempty,min=0,max=2"`
	Birthday *Date  `json:"birthday"`
}

// UpdatePasswordRequest carries a password change. An empty new password
// is accepted and treated as a no-op by the service layer.
type UpdatePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UpdateLoginRequest carries a login change. An empty new login is
// accepted and treated as a no-op by the service layer.
type UpdateLoginRequest struct {
	NewLogin string `json:"new_login"`
}

// CredentialsRequest carries a login/password pair for authentication
// endpoints.
type CredentialsRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the full directory view of an account. Password and
// token never leave the service.
type UserResponse struct {
	ID         string  `json:"id"`
	Login      string  `json:"login"`
	Name       string  `json:"name"`
	Gender     int     `json:"gender"`
	Birthday   *string `json:"birthday"`
	IsAdmin    bool    `json:"is_admin"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at"`
	CreatedBy  string  `json:"created_by"`
	ModifiedAt string  `json:"modified_at"`
	ModifiedBy string  `json:"modified_by"`
	RevokedAt  *string `json:"revoked_at,omitempty"`
	RevokedBy  string  `json:"revoked_by,omitempty"`
}

// ProfileResponse is the reduced view returned by the single-account
// lookup: name, gender, birthday and status only.
type ProfileResponse struct {
	Name     string  `json:"name"`
	Gender   int     `json:"gender"`
	Birthday *string `json:"birthday"`
	IsAdmin  bool    `json:"is_admin"`
	Active   bool    `json:"active"`
}

func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Login:      u.Login,
		Name:       u.Name,
		Gender:     u.Gender,
		Birthday:   formatDate(u.Birthday),
		IsAdmin:    u.IsAdmin,
		Active:     u.IsActive(),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		CreatedBy:  u.CreatedBy,
		ModifiedAt: u.ModifiedAt.Format(time.RFC3339),
		ModifiedBy: u.ModifiedBy,
		RevokedBy:  u.RevokedBy,
	}
	if u.RevokedAt != nil {
		s := u.RevokedAt.Format(time.RFC3339)
		resp.RevokedAt = &s
	}
	return resp
}

func NewUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

func NewProfileResponse(u *model.User) ProfileResponse {
	return ProfileResponse{
		Name:     u.Name,
		Gender:   u.Gender,
		Birthday: formatDate(u.Birthday),
		IsAdmin:  u.IsAdmin,
		Active:   u.IsActive(),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(constants.DateLayout)
	return &s
}
