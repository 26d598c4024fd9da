package admin

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/transport"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context, caller *internal.Caller) ([]*account.Account, error)
	GetUser(ctx context.Context, caller *internal.Caller, id int64) (*account.Account, error)
	CreateUser(ctx context.Context, caller *internal.Caller, dto CreateUserDTO) (*account.Account, error)
	UpdateUser(ctx context.Context, caller *internal.Caller, id int64, dto UpdateUserDTO) (*account.Account, error)
	DeleteUser(ctx context.Context, caller *internal.Caller, id int64) (*DeleteResult, error)
	BulkAction(ctx context.Context, caller *internal.Caller, dto BulkActionDTO) (*BulkActionResult, error)
	Statistics(ctx context.Context, caller *internal.Caller) (*Statistics, error)
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

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context(), h.Caller(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	results := make([]account.PublicAccount, 0, len(users))
	for _, u := range users {
		results = append(results, u.ToPublic())
	}
	h.WriteJSON(w, http.StatusOK, UsersResponse{Count: len(results), Results: results})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.GetUser(r.Context(), h.Caller(r), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToPublic())
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.CreateUser(r.Context(), h.Caller(r), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, u.ToPublic())
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), h.Caller(r), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u.ToPublic())
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.DeleteUser(r.Context(), h.Caller(r), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) BulkAction(w http.ResponseWriter, r *http.Request) {
	var dto BulkActionDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.BulkAction(r.Context(), h.Caller(r), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Statistics(r.Context(), h.Caller(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}
