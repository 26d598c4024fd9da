package category

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/access"
	categoryDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns the caller's own categories ordered by name. Global rows are not listed.
func (s *Service) List(ctx context.Context, caller *internal.Caller) ([]*Category, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}

	dataCategories, err := s.repo.ListByOwner(ctx, caller.ID)
	if err != nil {
		s.logger.Error("failed to list categories", "user_id", caller.ID, "error", err)
		return nil, internal.NewInternalError("failed to list categories", err)
	}

	categories := make([]*Category, 0, len(dataCategories))
	for _, dc := range dataCategories {
		categories = append(categories, FromDataModel(dc))
	}
	return categories, nil
}

func (s *Service) Get(ctx context.Context, caller *internal.Caller, id int64) (*Category, error) {
	dc, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(dc), nil
}

// Create always assigns the caller as owner.
func (s *Service) Create(ctx context.Context, caller *internal.Caller, dto CategoryDTO) (*Category, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dc := ToDataModel(NewCategory(dto.CleanName(), caller.ID))
	if err := s.repo.Create(ctx, dc); err != nil {
		s.logger.Error("failed to create category", "user_id", caller.ID, "error", err)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.logger.Info("category created", "category_id", dc.ID, "user_id", caller.ID)
	return FromDataModel(dc), nil
}

func (s *Service) Update(ctx context.Context, caller *internal.Caller, id int64, dto CategoryDTO) (*Category, error) {
	dc, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dc.Name = dto.CleanName()
	if err := s.repo.Update(ctx, dc); err != nil {
		s.logger.Error("failed to update category", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update category", err)
	}
	return FromDataModel(dc), nil
}

// Delete removes the category. Transactions referencing it keep existing
// with a null category.
func (s *Service) Delete(ctx context.Context, caller *internal.Caller, id int64) error {
	if _, err := s.loadOwned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "category_id", id, "error", err)
		return internal.NewInternalError("failed to delete category", err)
	}

	s.logger.Info("category deleted", "category_id", id, "user_id", caller.ID)
	return nil
}

// loadOwned hides rows owned by someone else behind the not-found error.
func (s *Service) loadOwned(ctx context.Context, caller *internal.Caller, id int64) (*categoryDatamodel.Category, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}

	dc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to get category", "category_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get category", err)
	}

	if !access.RequireOwner(caller, dc.OwnerID).Allowed() {
		return nil, internal.ErrCategoryNotFound
	}
	return dc, nil
}
