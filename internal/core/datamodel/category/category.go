package category

import (
	"time"

	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
)

// Category rows with a nil OwnerID are global and belong to nobody.
type Category struct {
	ID        int64                     `gorm:"primaryKey"`
	Name      string                    `gorm:"column:name;size:100;not null"`
	OwnerID   *int64                    `gorm:"column:user_id;index"`
	Owner     *accountDatamodel.Account `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
