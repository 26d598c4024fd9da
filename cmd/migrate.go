package cmd

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/budget-manager/db"
	"github.com/frahmantamala/budget-manager/internal/core/datamodel"
	"github.com/frahmantamala/budget-manager/pkg/logger"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations (goose on postgres, AutoMigrate on sqlite)",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	if cfg.Database.Driver == "sqlite" {
		conn, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()
		if migrateRollback {
			return fmt.Errorf("rollback is not supported for sqlite")
		}
		lg.Info("running gorm AutoMigrate", "driver", cfg.Database.Driver)
		return datamodel.AutoMigrate(conn.Gorm)
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	lg.Info("running goose migrations", "command", command)
	if err := goose.RunContext(ctx, command, sqlDB, db.MigrationsDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
