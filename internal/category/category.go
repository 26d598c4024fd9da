package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
)

// Category groups transactions. OwnerID is nil for global rows.
type Category struct {
	ID        int64
	Name      string
	OwnerID   *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) IsGlobal() bool {
	return c.OwnerID == nil
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		User:      c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCategory(name string, ownerID int64) *Category {
	owner := ownerID
	return &Category{
		Name:    name,
		OwnerID: &owner,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
