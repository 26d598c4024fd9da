package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/core/datamodel"
)

// database holds the gorm handle used by repositories and an sqlx view over
// the same pool for read models.
type database struct {
	Gorm   *gorm.DB
	SQL    *sqlx.DB
	Driver string
}

func (d *database) Close() error {
	return d.SQL.Close()
}

// sqlxDriverName is the name sqlx uses to pick the bind style.
func sqlxDriverName(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "pgx"
}

func initDB(cfg internal.DatabaseConfig) (*database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	if cfg.Driver == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := datamodel.AutoMigrate(gdb); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}

	return &database{
		Gorm:   gdb,
		SQL:    sqlx.NewDb(sqlDB, sqlxDriverName(cfg.Driver)),
		Driver: cfg.Driver,
	}, nil
}
