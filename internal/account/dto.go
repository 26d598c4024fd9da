package account

import (
	"time"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/common/validation"
)

// CreateAccountDTO is shared by self-registration, admin creation and the CLI.
type CreateAccountDTO struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password1   string `json:"password1"`
	Password2   string `json:"password2"`
	Role        string `json:"role,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsStaff     bool   `json:"-"`
	IsSuperuser bool   `json:"-"`
}

func (dto CreateAccountDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).
		Required().
		MaxLength(validation.UsernameMaxLength).
		Username()
	v.Field("email", dto.Email).
		Required().
		Email()
	v.Field("role", dto.Role).
		OneOf(internal.ErrCodeInvalidRole, internal.RoleAdmin, internal.RoleUser)

	return validation.Merge(
		v.Validate(),
		validation.ValidatePasswordPair("password1", dto.Password1, "password2", dto.Password2),
	)
}

// RoleOrDefault returns the requested role, or user when none was given.
func (dto CreateAccountDTO) RoleOrDefault() string {
	if dto.Role == "" {
		return internal.RoleUser
	}
	return dto.Role
}

func (dto CreateAccountDTO) ActiveOrDefault() bool {
	if dto.IsActive == nil {
		return true
	}
	return *dto.IsActive
}

// UpdateAccountDTO carries a partial update; nil fields are left unchanged.
type UpdateAccountDTO struct {
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (dto UpdateAccountDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.Email != nil {
		v.Field("email", *dto.Email).Required().Email()
	}
	if dto.Role != nil {
		v.Field("role", *dto.Role).Required().
			OneOf(internal.ErrCodeInvalidRole, internal.RoleAdmin, internal.RoleUser)
	}
	if dto.Password != nil {
		v.Field("password", *dto.Password).Required().
			MinLength(validation.PasswordMinLength, internal.ErrCodeInvalidPassword)
	}
	return v.Validate()
}

type ChangePasswordDTO struct {
	OldPassword  string `json:"old_password"`
	NewPassword1 string `json:"new_password1"`
	NewPassword2 string `json:"new_password2"`
}

func (dto ChangePasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("old_password", dto.OldPassword).Required()
	return validation.Merge(
		v.Validate(),
		validation.ValidatePasswordPair("new_password1", dto.NewPassword1, "new_password2", dto.NewPassword2),
	)
}

type PublicAccount struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// SessionInfo describes the authenticated caller.
type SessionInfo struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsAdmin     bool      `json:"is_admin"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	DateJoined  time.Time `json:"date_joined"`
}
