package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3"

	"github.com/frahmantamala/budget-manager/internal/admin"
	"github.com/frahmantamala/budget-manager/internal/auth"
	"github.com/frahmantamala/budget-manager/internal/category"
	"github.com/frahmantamala/budget-manager/internal/transaction"
	"github.com/frahmantamala/budget-manager/internal/transport"
	"github.com/frahmantamala/budget-manager/internal/transport/middleware"
	"github.com/frahmantamala/budget-manager/internal/transport/swagger"
)

// Dependencies are the handlers and collaborators mounted by RegisterAllRoutes.
// Nil handlers leave their routes unregistered.
type Dependencies struct {
	DB             *sql.DB
	DBDriver       string
	Authenticator  middleware.Authenticator
	Auth           *auth.Handler
	Categories     *category.Handler
	Transactions   *transaction.Handler
	Admin          *admin.Handler
	AuthLimiter    *limiter.Limiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

var corsOptions = cors.Options{
	AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.TraceIDHeader},
	ExposedHeaders: []string{middleware.TraceIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	MaxAge:         300,
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	lg := deps.Logger

	opts := corsOptions
	opts.AllowedOrigins = deps.AllowedOrigins

	// Apply global middleware
	router.Use(cors.Handler(opts))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestLogger)
	router.Use(middleware.RecoveryMiddleware(lg))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", swagger.SpecHandler)
	router.Handle("/swagger/*", swagger.Handler())

	authenticate := func(next http.Handler) http.Handler { return next }
	if deps.Authenticator != nil {
		authenticate = middleware.Authenticate(deps.Authenticator, lg)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if deps.DB != nil {
			health := NewHealthHandler(transport.NewBaseHandler(lg), deps.DB, deps.DBDriver)
			r.Get("/health", health.Health)
			r.Get("/ping", health.Ping)
		}

		if h := deps.Auth; h != nil {
			r.Route("/auth", func(ar chi.Router) {
				// credentials travel in the body; a stale bearer header is ignored here
				ar.Group(func(lr chi.Router) {
					lr.Use(middleware.RateLimit(deps.AuthLimiter, lg))
					lr.Post("/register", h.Register)
					lr.Post("/login", h.Login)
				})
				ar.Post("/refresh", h.RefreshToken)

				ar.Group(func(sr chi.Router) {
					sr.Use(authenticate)
					sr.Post("/logout", h.Logout)
					sr.Get("/me", h.Me)
					sr.Post("/password", h.ChangePassword)
				})
			})
		}

		r.Group(func(pr chi.Router) {
			pr.Use(authenticate)

			if h := deps.Categories; h != nil {
				pr.Route("/categories", func(cr chi.Router) {
					cr.Use(middleware.RequireAuthenticated(lg))
					cr.Get("/", h.GetCategories)
					cr.Post("/", h.CreateCategory)
					cr.Get("/{id}", h.GetCategory)
					cr.Put("/{id}", h.UpdateCategory)
					cr.Delete("/{id}", h.DeleteCategory)
				})
			}

			if h := deps.Transactions; h != nil {
				pr.Route("/transactions", func(tr chi.Router) {
					tr.Use(middleware.RequireAuthenticated(lg))
					tr.Get("/", h.GetTransactions)
					tr.Post("/", h.CreateTransaction)
					tr.Get("/{id}", h.GetTransaction)
					tr.Put("/{id}", h.UpdateTransaction)
					tr.Delete("/{id}", h.DeleteTransaction)
				})
			}

			if h := deps.Admin; h != nil {
				pr.Route("/admin/users", func(ur chi.Router) {
					ur.Use(middleware.RequireAdmin(lg))
					ur.Get("/", h.ListUsers)
					ur.Post("/", h.CreateUser)
					// static segments before {id}
					ur.Post("/bulk-actions", h.BulkAction)
					ur.Get("/statistics", h.Statistics)
					ur.Get("/{id}", h.GetUser)
					ur.Patch("/{id}", h.UpdateUser)
					ur.Delete("/{id}", h.DeleteUser)
				})
			}
		})
	})
}
