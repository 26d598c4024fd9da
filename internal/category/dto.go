package category

import (
	"strings"
	"time"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/common/validation"
)

// CategoryDTO is the create/update payload. A client-supplied owner is accepted
// for compatibility and ignored.
type CategoryDTO struct {
	Name string `json:"name"`
	User *int64 `json:"user,omitempty"`
}

func (dto CategoryDTO) Validate() *internal.AppError {
	return validation.ValidateCategoryName(dto.Name)
}

func (dto CategoryDTO) CleanName() string {
	return strings.TrimSpace(dto.Name)
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	User      *int64    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoriesResponse struct {
	Count      int                `json:"count"`
	Categories []CategoryResponse `json:"results"`
}
