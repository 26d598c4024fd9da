package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*Session, error)
	Login(ctx context.Context, dto LoginDTO) (*Session, error)
	Refresh(ctx context.Context, dto RefreshTokenDTO) (*AuthTokens, error)
	Authenticate(ctx context.Context, accessToken string) (*internal.Caller, error)
	Me(ctx context.Context, caller *internal.Caller) (*account.SessionInfo, error)
	ChangePassword(ctx context.Context, caller *internal.Caller, dto account.ChangePasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	session, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	session, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.Logger.Info("Auth: login failed", "username", dto.Username, "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.Refresh(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: the client discards its tokens. A valid bearer token is still required.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	caller := h.Caller(r)
	if !caller.IsAuthenticated() {
		h.HandleServiceError(w, internal.ErrAuthenticationRequired)
		return
	}
	h.Logger.Info("Auth: logout", "account_id", caller.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	info, err := h.Service.Me(r.Context(), h.Caller(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller := h.Caller(r)
	if !caller.IsAuthenticated() {
		h.HandleServiceError(w, internal.ErrAuthenticationRequired)
		return
	}

	var dto account.ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), caller, dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
