package account

import (
	"context"
	"fmt"

	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
)

// DefaultCategoryNames are created, in order, for every new account.
var DefaultCategoryNames = []string{"Food", "Transport", "Salary"}

func defaultCategories(accountID int64) []*categoryDatamodel.Category {
	categories := make([]*categoryDatamodel.Category, 0, len(DefaultCategoryNames))
	for _, name := range DefaultCategoryNames {
		owner := accountID
		categories = append(categories, &categoryDatamodel.Category{
			Name:    name,
			OwnerID: &owner,
		})
	}
	return categories
}

// provisionDefaults runs once per account, right after its first insert.
func (s *Service) provisionDefaults(ctx context.Context, tx RepositoryAPI, accountID int64) error {
	if err := tx.CreateCategories(ctx, defaultCategories(accountID)); err != nil {
		return fmt.Errorf("provision default categories: %w", err)
	}
	s.logger.Debug("default categories provisioned", "account_id", accountID, "count", len(DefaultCategoryNames))
	return nil
}
