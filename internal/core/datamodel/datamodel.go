// Package datamodel groups the gorm models persisted by the service.
package datamodel

import (
	"gorm.io/gorm"

	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/transaction"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&accountDatamodel.Account{},
		&categoryDatamodel.Category{},
		&transactionDatamodel.Transaction{},
	}
}

// AutoMigrate creates the schema without goose. Used for sqlite and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
