package transaction

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/common/validation"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AmountInput accepts both "12.50" and 12.50 on the wire.
type AmountInput string

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	*a = AmountInput(b)
	return nil
}

// OptionalID accepts a number, a numeric string, an empty string or null.
type OptionalID struct {
	Value *int64
	Raw   string
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	o.Raw = raw
	o.Value = nil
	if raw == "" || raw == "null" {
		return nil
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		o.Value = &id
	}
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(*o.Value, 10)), nil
}

// invalid reports a non-empty value that is not an integer id.
func (o OptionalID) invalid() bool {
	return o.Value == nil && o.Raw != "" && o.Raw != "null"
}

type TransactionDTO struct {
	Amount      AmountInput `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	CategoryID  OptionalID  `json:"category_id"`
}

// validFields holds a DTO after parsing. Category visibility is checked by the service.
type validFields struct {
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	CategoryID  *int64
}

func (dto TransactionDTO) parse() (*validFields, *internal.AppError) {
	amount, amountErr := validation.ParseAmount("amount", string(dto.Amount))
	date, dateErr := validation.ParseDate("date", dto.Date)

	var categoryErr *internal.AppError
	if dto.CategoryID.invalid() {
		categoryErr = internal.NewValidationFieldError("category_id", "Invalid category id", internal.ErrCodeInvalidCategory)
	}

	if err := validation.Merge(amountErr, dateErr, categoryErr); err != nil {
		return nil, err
	}
	return &validFields{
		Amount:      amount,
		Description: strings.TrimSpace(dto.Description),
		Date:        date,
		CategoryID:  dto.CategoryID.Value,
	}, nil
}

// ListQuery is the pagination and filter input of List.
type ListQuery struct {
	Limit      int
	Offset     int
	CategoryID *int64
}

func (q ListQuery) normalized() ListQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

type OwnerRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TransactionResponse struct {
	ID          int64        `json:"id"`
	Amount      string       `json:"amount"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	CategoryID  *int64       `json:"category_id"`
	Category    *CategoryRef `json:"category"`
	Owner       OwnerRef     `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type TransactionsResponse struct {
	Count   int64                 `json:"count"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	Results []TransactionResponse `json:"results"`
}
