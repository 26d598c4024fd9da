package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/access"
	"github.com/frahmantamala/budget-manager/internal/transport"
	"github.com/frahmantamala/budget-manager/pkg/logger"
)

// Authenticator resolves a bearer token into the caller behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*internal.Caller, error)
}

// Authenticate puts the caller into the request context. Requests without a
// token continue anonymously; a token that does not resolve is rejected.
func Authenticate(authn Authenticator, lg *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				base.Logger.Debug("auth middleware: token rejected", "error", err)
				base.HandleServiceError(w, err)
				return
			}

			ctx := internal.ContextWithCaller(r.Context(), caller)
			ctx = logger.With(ctx, "account_id", caller.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthenticated stops anonymous requests before the handler runs.
func RequireAuthenticated(lg *slog.Logger) func(http.Handler) http.Handler {
	return guard(lg, access.RequireAuthenticated)
}

// RequireAdmin answers 401 for anonymous and 403 for non-admin callers, so
// admin handlers never see a body from someone who may not use them.
func RequireAdmin(lg *slog.Logger) func(http.Handler) http.Handler {
	return guard(lg, access.RequireAdmin)
}

func guard(lg *slog.Logger, check func(*internal.Caller) access.Decision) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(lg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := check(base.Caller(r)).Err(); err != nil {
				base.HandleServiceError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
