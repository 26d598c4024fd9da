package transaction

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, caller *internal.Caller, query ListQuery) (*Page, error)
	Get(ctx context.Context, caller *internal.Caller, id int64) (*Transaction, error)
	Create(ctx context.Context, caller *internal.Caller, dto TransactionDTO) (*Transaction, error)
	Update(ctx context.Context, caller *internal.Caller, id int64, dto TransactionDTO) (*Transaction, error)
	Delete(ctx context.Context, caller *internal.Caller, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page, err := h.Service.List(r.Context(), h.Caller(r), query)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	results := make([]TransactionResponse, 0, len(page.Transactions))
	for _, t := range page.Transactions {
		results = append(results, t.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, TransactionsResponse{
		Count:   page.Count,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Results: results,
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	t, err := h.Service.Get(r.Context(), h.Caller(r), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var dto TransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	t, err := h.Service.Create(r.Context(), h.Caller(r), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t.ToResponse())
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto TransactionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	t, err := h.Service.Update(r.Context(), h.Caller(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t.ToResponse())
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), h.Caller(r), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	var query ListQuery
	values := r.URL.Query()

	intParam := func(name string) (int, error) {
		raw := values.Get(name)
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, internal.NewValidationFieldError(name, name+" must be a non-negative integer", internal.ErrCodeValidationFailed)
		}
		return v, nil
	}

	var err error
	if query.Limit, err = intParam("limit"); err != nil {
		return query, err
	}
	if query.Offset, err = intParam("offset"); err != nil {
		return query, err
	}
	if raw := values.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return query, internal.NewValidationFieldError("category_id", "category_id must be an integer", internal.ErrCodeInvalidCategory)
		}
		query.CategoryID = &id
	}
	return query, nil
}
