package auth

import (
	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/core/common/validation"
)

// RegisterDTO is the self-registration form. Role and flags cannot be chosen here.
type RegisterDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

func (d RegisterDTO) toAccountDTO() account.CreateAccountDTO {
	active := true
	return account.CreateAccountDTO{
		Username:  d.Username,
		Email:     d.Email,
		Password1: d.Password1,
		Password2: d.Password2,
		Role:      internal.RoleUser,
		IsActive:  &active,
	}
}

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required()
	return v.Validate()
}
