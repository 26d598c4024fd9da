package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/admin"
)

const countsQuery = `
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active,
	COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS admins,
	COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS regular
FROM accounts`

const (
	postgresMonth = `to_char(date_trunc('month', date_joined), 'YYYY-MM')`
	sqliteMonth   = `strftime('%Y-%m', date_joined)`
)

// StatsRepository is a read model over the accounts table. Month truncation
// happens in the database.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) admin.StatsReader {
	return &StatsRepository{db: db}
}

type accountCounts struct {
	Total   int64 `db:"total"`
	Active  int64 `db:"active"`
	Admins  int64 `db:"admins"`
	Regular int64 `db:"regular"`
}

// Statistics runs the counts and the monthly breakdown concurrently.
func (r *StatsRepository) Statistics(ctx context.Context) (*admin.Statistics, error) {
	var counts accountCounts
	months := []admin.MonthCount{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.GetContext(gctx, &counts, r.db.Rebind(countsQuery), internal.RoleAdmin, internal.RoleUser)
	})
	g.Go(func() error {
		return r.db.SelectContext(gctx, &months, r.monthlyQuery())
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &admin.Statistics{
		TotalUsers:    counts.Total,
		ActiveUsers:   counts.Active,
		InactiveUsers: counts.Total - counts.Active,
		AdminUsers:    counts.Admins,
		RegularUsers:  counts.Regular,
		UsersByMonth:  months,
	}, nil
}

func (r *StatsRepository) monthlyQuery() string {
	month := postgresMonth
	if isSQLite(r.db.DriverName()) {
		month = sqliteMonth
	}
	return `SELECT ` + month + ` AS month, COUNT(*) AS count
FROM accounts
WHERE date_joined IS NOT NULL
GROUP BY 1
ORDER BY 1 ASC`
}

func isSQLite(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3":
		return true
	}
	return false
}
