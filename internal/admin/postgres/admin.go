package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/admin"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) admin.RepositoryAPI {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) ListAccounts(ctx context.Context) ([]*accountDatamodel.Account, error) {
	var accounts []*accountDatamodel.Account
	err := r.db.WithContext(ctx).Order("username ASC").Find(&accounts).Error
	return accounts, err
}

func (r *AdminRepository) GetAccount(ctx context.Context, id int64) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// DeleteAccount removes the account; categories and transactions go with it
// through ON DELETE CASCADE.
func (r *AdminRepository) DeleteAccount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&accountDatamodel.Account{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrAccountNotFound
		}
		return nil
	})
}

func (r *AdminRepository) ApplyBulk(ctx context.Context, action admin.Action, ids []int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var result *gorm.DB
		switch action {
		case admin.ActionDelete:
			result = tx.Where("id IN ?", ids).Delete(&accountDatamodel.Account{})
		case admin.ActionActivate:
			result = tx.Model(&accountDatamodel.Account{}).Where("id IN ?", ids).Update("is_active", true)
		case admin.ActionDeactivate:
			result = tx.Model(&accountDatamodel.Account{}).Where("id IN ?", ids).Update("is_active", false)
		default:
			return fmt.Errorf("unsupported bulk action %q", action)
		}
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	return affected, err
}
