package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/budget-manager/internal"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/transaction"
	"github.com/frahmantamala/budget-manager/internal/transaction"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.RepositoryAPI {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.ListFilter) ([]*transactionDatamodel.Transaction, int64, error) {
	scope := ownedBy(filter)

	var count int64
	err := r.db.WithContext(ctx).Model(&transactionDatamodel.Transaction{}).
		Scopes(scope).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []*transactionDatamodel.Transaction
	err = r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Owner").
		Preload("Category").
		Order("date DESC").Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

func ownedBy(filter transaction.ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", filter.OwnerID)
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		return db
	}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	var row transactionDatamodel.Transaction
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Category").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTransactionNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *TransactionRepository) Create(ctx context.Context, row *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

func (r *TransactionRepository) Update(ctx context.Context, row *transactionDatamodel.Transaction) error {
	result := r.db.WithContext(ctx).Model(row).
		Select("amount", "description", "date", "category_id", "updated_at").
		Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&transactionDatamodel.Transaction{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) CategoryVisible(ctx context.Context, categoryID, ownerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).
		Where("id = ? AND (user_id = ? OR user_id IS NULL)", categoryID, ownerID).
		Count(&count).Error
	return count > 0, err
}
