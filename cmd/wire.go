package cmd

import (
	"log/slog"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	accountPostgres "github.com/frahmantamala/budget-manager/internal/account/postgres"
	"github.com/frahmantamala/budget-manager/internal/admin"
	adminPostgres "github.com/frahmantamala/budget-manager/internal/admin/postgres"
	"github.com/frahmantamala/budget-manager/internal/auth"
	"github.com/frahmantamala/budget-manager/internal/category"
	categoryPostgres "github.com/frahmantamala/budget-manager/internal/category/postgres"
	"github.com/frahmantamala/budget-manager/internal/core/events"
	"github.com/frahmantamala/budget-manager/internal/transaction"
	transactionPostgres "github.com/frahmantamala/budget-manager/internal/transaction/postgres"
)

type services struct {
	Accounts     *account.Service
	Auth         *auth.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Admin        *admin.Service
	Events       *events.EventBus
}

// buildServices wires repositories into services. The event bus gets the
// audit logger for every event type.
func buildServices(cfg *internal.Config, db *database, lg *slog.Logger) *services {
	bus := events.NewEventBus(lg)
	bus.Subscribe(events.AllEvents, events.AuditLogger(lg))

	accountService := account.NewService(accountPostgres.NewAccountRepository(db.Gorm), cfg.Security.BCryptCost, lg)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	return &services{
		Accounts:     accountService,
		Auth:         auth.NewService(accountService, tokens, lg),
		Categories:   category.NewService(categoryPostgres.NewCategoryRepository(db.Gorm), lg),
		Transactions: transaction.NewService(transactionPostgres.NewTransactionRepository(db.Gorm), lg),
		Admin: admin.NewService(
			adminPostgres.NewAdminRepository(db.Gorm),
			adminPostgres.NewStatsRepository(db.SQL),
			accountService,
			bus,
			lg,
		),
		Events: bus,
	}
}
