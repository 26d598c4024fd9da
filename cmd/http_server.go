package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"github.com/ulule/limiter/v3"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/admin"
	"github.com/frahmantamala/budget-manager/internal/auth"
	"github.com/frahmantamala/budget-manager/internal/category"
	"github.com/frahmantamala/budget-manager/internal/transaction"
	"github.com/frahmantamala/budget-manager/internal/transport"
	"github.com/frahmantamala/budget-manager/internal/transport/middleware"
	"github.com/frahmantamala/budget-manager/internal/transport/rest"
	"github.com/frahmantamala/budget-manager/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *database
	Services *services
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.DB.Close()

	if err := setupRoutes(deps); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.DB.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	// let in-flight audit events finish
	deps.Services.Events.Wait()
	deps.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) error {
	var authLimiter *limiter.Limiter
	if deps.Config.RateLimit.Enabled {
		var err error
		authLimiter, err = middleware.NewLimiter(deps.Config.RateLimit.Rate)
		if err != nil {
			return err
		}
	}

	base := transport.NewBaseHandler(deps.Logger)
	svcs := deps.Services
	rest.RegisterAllRoutes(deps.Router, rest.Dependencies{
		DB:             deps.DB.SQL.DB,
		DBDriver:       deps.DB.Driver,
		Authenticator:  svcs.Auth,
		Auth:           auth.NewHandler(base, svcs.Auth),
		Categories:     category.NewHandler(base, svcs.Categories),
		Transactions:   transaction.NewHandler(base, svcs.Transactions),
		Admin:          admin.NewHandler(base, svcs.Admin),
		AuthLimiter:    authLimiter,
		AllowedOrigins: deps.Config.Server.Origins(),
		Logger:         deps.Logger,
	})
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Services: buildServices(config, db, lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}
