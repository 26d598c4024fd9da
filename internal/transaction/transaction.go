package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-manager/internal/core/common/validation"
	transactionDatamodel "github.com/frahmantamala/budget-manager/internal/core/datamodel/transaction"
)

// Transaction is a financial movement owned by exactly one account.
type Transaction struct {
	ID            int64
	Amount        decimal.Decimal
	Description   string
	Date          time.Time
	CategoryID    *int64
	CategoryName  string
	OwnerID       int64
	OwnerUsername string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t *Transaction) ToResponse() TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		Amount:      t.Amount.StringFixed(validation.AmountMaxPlaces),
		Description: t.Description,
		Date:        t.Date.Format(validation.DateLayout),
		CategoryID:  t.CategoryID,
		Owner:       OwnerRef{ID: t.OwnerID, Username: t.OwnerUsername},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.CategoryID != nil {
		resp.Category = &CategoryRef{ID: *t.CategoryID, Name: t.CategoryName}
	}
	return resp
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CategoryID:  t.CategoryID,
		UserID:      t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// FromDataModel reads the owner and category names when the associations are preloaded.
func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	tx := &Transaction{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		CategoryID:  t.CategoryID,
		OwnerID:     t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.Category != nil {
		tx.CategoryName = t.Category.Name
	}
	if t.Owner != nil {
		tx.OwnerUsername = t.Owner.Username
	}
	return tx
}
