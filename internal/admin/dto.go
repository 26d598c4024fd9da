package admin

import (
	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/core/common/validation"
)

type CreateUserDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Password1 string `json:"password1,omitempty"`
	Password2 string `json:"password2,omitempty"`
	Role      string `json:"role,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

// toAccountDTO accepts either the password1/password2 pair or a single password.
func (dto CreateUserDTO) toAccountDTO() account.CreateAccountDTO {
	p1, p2 := dto.Password1, dto.Password2
	if p1 == "" && p2 == "" && dto.Password != "" {
		p1, p2 = dto.Password, dto.Password
	}
	return account.CreateAccountDTO{
		Username:  dto.Username,
		Email:     dto.Email,
		Password1: p1,
		Password2: p2,
		Role:      dto.Role,
		IsActive:  dto.IsActive,
	}
}

type UpdateUserDTO = account.UpdateAccountDTO

type BulkActionDTO struct {
	UserIDs []int64 `json:"user_ids"`
	Action  string  `json:"action"`
}

func (dto BulkActionDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("user_ids", dto.UserIDs).Required().Custom(positiveIDs("user_ids"))
	v.Field("action", dto.Action).Required()
	return v.Validate()
}

func positiveIDs(field string) validation.ValidatorFunc {
	return func(value interface{}) *internal.AppError {
		ids, _ := value.([]int64)
		for _, id := range ids {
			if id <= 0 {
				return internal.NewValidationFieldError(field, "Every id must be a positive integer", internal.ErrCodeValidationFailed)
			}
		}
		return nil
	}
}

type BulkActionResult struct {
	Message  string  `json:"message"`
	Action   Action  `json:"action"`
	Affected int64   `json:"affected"`
	UserIDs  []int64 `json:"user_ids"`
}

type DeleteResult struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type UsersResponse struct {
	Count   int                     `json:"count"`
	Results []account.PublicAccount `json:"results"`
}
