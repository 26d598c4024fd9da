package transaction

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/access"
	transactionDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/transaction"
)

type ListFilter struct {
	OwnerID    int64
	CategoryID *int64
	Limit      int
	Offset     int
}

type RepositoryAPI interface {
	// List returns one page ordered by date then id, newest first, plus the total count.
	List(ctx context.Context, filter ListFilter) ([]*transactionDatamodel.Transaction, int64, error)
	GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error)
	Create(ctx context.Context, tx *transactionDatamodel.Transaction) error
	Update(ctx context.Context, tx *transactionDatamodel.Transaction) error
	Delete(ctx context.Context, id int64) error
	// CategoryVisible reports whether the category exists and is owned by ownerID or global.
	CategoryVisible(ctx context.Context, categoryID, ownerID int64) (bool, error)
}

type Page struct {
	Transactions []*Transaction
	Count        int64
	Limit        int
	Offset       int
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

func (s *Service) List(ctx context.Context, caller *internal.Caller, query ListQuery) (*Page, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}

	query = query.normalized()
	rows, count, err := s.repo.List(ctx, ListFilter{
		OwnerID:    caller.ID,
		CategoryID: query.CategoryID,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		s.logger.Error("failed to list transactions", "user_id", caller.ID, "error", err)
		return nil, internal.NewInternalError("failed to list transactions", err)
	}

	page := &Page{
		Transactions: make([]*Transaction, 0, len(rows)),
		Count:        count,
		Limit:        query.Limit,
		Offset:       query.Offset,
	}
	for _, row := range rows {
		page.Transactions = append(page.Transactions, FromDataModel(row))
	}
	return page, nil
}

func (s *Service) Get(ctx context.Context, caller *internal.Caller, id int64) (*Transaction, error) {
	row, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// Create assigns the caller as owner regardless of the payload.
func (s *Service) Create(ctx context.Context, caller *internal.Caller, dto TransactionDTO) (*Transaction, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}

	fields, err := s.validate(ctx, caller, dto)
	if err != nil {
		return nil, err
	}

	row := &transactionDatamodel.Transaction{
		Amount:      fields.Amount,
		Description: fields.Description,
		Date:        fields.Date,
		CategoryID:  fields.CategoryID,
		UserID:      caller.ID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create transaction", "user_id", caller.ID, "error", err)
		return nil, internal.NewInternalError("failed to create transaction", err)
	}

	s.logger.Info("transaction created", "transaction_id", row.ID, "user_id", caller.ID)
	return s.reload(ctx, row)
}

// Update replaces the editable fields. The owner never changes.
func (s *Service) Update(ctx context.Context, caller *internal.Caller, id int64, dto TransactionDTO) (*Transaction, error) {
	row, err := s.loadOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	fields, err := s.validate(ctx, caller, dto)
	if err != nil {
		return nil, err
	}

	row.Amount = fields.Amount
	row.Description = fields.Description
	row.Date = fields.Date
	row.CategoryID = fields.CategoryID
	row.Category = nil
	row.Owner = nil
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update transaction", "transaction_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update transaction", err)
	}
	return s.reload(ctx, row)
}

func (s *Service) Delete(ctx context.Context, caller *internal.Caller, id int64) error {
	if _, err := s.loadOwned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete transaction", "transaction_id", id, "error", err)
		return internal.NewInternalError("failed to delete transaction", err)
	}

	s.logger.Info("transaction deleted", "transaction_id", id, "user_id", caller.ID)
	return nil
}

func (s *Service) validate(ctx context.Context, caller *internal.Caller, dto TransactionDTO) (*validFields, error) {
	fields, appErr := dto.parse()
	if appErr != nil {
		return nil, appErr
	}
	if fields.CategoryID == nil {
		return fields, nil
	}

	visible, err := s.repo.CategoryVisible(ctx, *fields.CategoryID, caller.ID)
	if err != nil {
		s.logger.Error("failed to check category", "category_id", *fields.CategoryID, "error", err)
		return nil, internal.NewInternalError("failed to check category", err)
	}
	if !visible {
		return nil, internal.NewValidationFieldError("category_id",
			"Invalid category. The category does not exist or is not available", internal.ErrCodeInvalidCategory)
	}
	return fields, nil
}

func (s *Service) loadOwned(ctx context.Context, caller *internal.Caller, id int64) (*transactionDatamodel.Transaction, error) {
	if err := access.RequireAuthenticated(caller).Err(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to get transaction", "transaction_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get transaction", err)
	}

	owner := row.UserID
	if !access.RequireOwner(caller, &owner).Allowed() {
		return nil, internal.ErrTransactionNotFound
	}
	return row, nil
}

// reload fetches the row with its owner and category for the response.
func (s *Service) reload(ctx context.Context, row *transactionDatamodel.Transaction) (*Transaction, error) {
	loaded, err := s.repo.GetByID(ctx, row.ID)
	if err != nil {
		s.logger.Warn("failed to reload transaction", "transaction_id", row.ID, "error", err)
		return FromDataModel(row), nil
	}
	return FromDataModel(loaded), nil
}
