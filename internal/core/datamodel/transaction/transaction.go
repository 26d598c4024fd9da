package transaction

import (
	"time"

	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int64                       `gorm:"primaryKey"`
	Amount      decimal.Decimal             `gorm:"column:amount;type:numeric(10,2);not null"`
	Description string                      `gorm:"column:description;type:text;not null"`
	Date        time.Time                   `gorm:"column:date;type:date;not null;index"`
	CategoryID  *int64                      `gorm:"column:category_id;index"`
	Category    *categoryDatamodel.Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	UserID      int64                       `gorm:"column:user_id;not null;index"`
	Owner       *accountDatamodel.Account   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
