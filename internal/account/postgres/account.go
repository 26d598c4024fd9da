package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	accountDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/account"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) account.RepositoryAPI {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) WithTx(ctx context.Context, fn func(tx account.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AccountRepository{db: tx})
	})
}

func (r *AccountRepository) Create(ctx context.Context, acc *accountDatamodel.Account) error {
	err := r.db.WithContext(ctx).Create(acc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return account.ErrDuplicateUsername
	}
	return err
}

func (r *AccountRepository) CreateCategories(ctx context.Context, categories []*categoryDatamodel.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Owner").Create(&categories).Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*accountDatamodel.Account, error) {
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

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*accountDatamodel.Account, error) {
	var acc accountDatamodel.Account
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&acc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *AccountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accountDatamodel.Account{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *AccountRepository) Update(ctx context.Context, acc *accountDatamodel.Account) error {
	result := r.db.WithContext(ctx).Model(acc).
		Select("email", "password_hash", "role", "is_active", "is_staff", "is_superuser", "updated_at").
		Updates(acc)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrAccountNotFound
	}
	return nil
}
