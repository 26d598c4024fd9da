package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/transaction"
)

func sqliteConfig(source string) *internal.Config {
	return &internal.Config{
		Database: internal.DatabaseConfig{
			Driver:          "sqlite",
			Source:          source,
			AutoMigrate:     true,
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: time.Hour,
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    "cmd-access-secret-0123456789abcdefghij",
			RefreshTokenSecret:   "cmd-refresh-secret-0123456789abcdefghij",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: time.Hour,
			BCryptCost:           bcrypt.MinCost,
		},
	}
}

var _ = Describe("initDB", func() {
	var (
		ctx context.Context
		lg  *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		lg = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("rejects an unknown driver", func() {
		cfg := sqliteConfig("budget.db")
		cfg.Database.Driver = "mysql"
		_, err := initDB(cfg.Database)
		Expect(err).To(MatchError(ContainSubstring("unsupported database driver")))
	})

	It("enforces foreign keys on sqlite even when the source omits the flag", func() {
		// a file keeps the schema visible to every pooled connection
		cfg := sqliteConfig(filepath.Join(GinkgoT().TempDir(), "budget.db"))
		db, err := initDB(cfg.Database)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		var enabled int
		Expect(db.SQL.GetContext(ctx, &enabled, "PRAGMA foreign_keys")).To(Succeed())
		Expect(enabled).To(Equal(1))

		svc := buildServices(cfg, db, lg)
		DeferCleanup(svc.Events.Wait)

		root, err := svc.Accounts.Create(ctx, account.CreateAccountDTO{
			Username: "root", Email: "root@example.com",
			Password1: "s3cretpass", Password2: "s3cretpass", Role: internal.RoleAdmin,
		})
		Expect(err).NotTo(HaveOccurred())
		alice, err := svc.Accounts.Create(ctx, account.CreateAccountDTO{
			Username: "alice", Email: "alice@example.com",
			Password1: "s3cretpass", Password2: "s3cretpass",
		})
		Expect(err).NotTo(HaveOccurred())

		By("nulling the transaction category when the category goes away")
		aliceCaller := alice.ToCaller()
		categories, err := svc.Categories.List(ctx, aliceCaller)
		Expect(err).NotTo(HaveOccurred())
		food := categories[0].ID

		txn, err := svc.Transactions.Create(ctx, aliceCaller, transaction.TransactionDTO{
			Amount: "9.99", Date: "2026-03-01", CategoryID: transaction.OptionalID{Value: &food},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(svc.Categories.Delete(ctx, aliceCaller, food)).To(Succeed())

		reloaded, err := svc.Transactions.Get(ctx, aliceCaller, txn.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.CategoryID).To(BeNil())

		By("cascading account deletion to owned rows")
		_, err = svc.Admin.DeleteUser(ctx, root.ToCaller(), alice.ID)
		Expect(err).NotTo(HaveOccurred())

		var orphans int64
		Expect(db.Gorm.Table("categories").Where("user_id = ?", alice.ID).Count(&orphans).Error).To(Succeed())
		Expect(orphans).To(BeZero())
		Expect(db.Gorm.Table("transactions").Where("user_id = ?", alice.ID).Count(&orphans).Error).To(Succeed())
		Expect(orphans).To(BeZero())
	})
})

var _ = Describe("loadConfig", func() {
	It("reads config.yml from the given directory and validates it", func() {
		GinkgoT().Setenv("APP_ENV", "")
		GinkgoT().Setenv("DOCKER_ENV", "")
		dir := GinkgoT().TempDir()
		yml := `
http_server:
  port: 9090
  read_header_timeout: 5s
  read_timeout: 15s
database:
  driver: sqlite
  source: budget.db
  max_open_conns: 5
  max_idle_conns: 1
  conn_max_lifetime: 30m
  conn_max_idle_time: 5m
security:
  access_token_secret: "yml-access-secret-0123456789abcdefghij"
  refresh_token_secret: "yml-refresh-secret-0123456789abcdefghij"
  access_token_duration: 15m
  refresh_token_duration: 24h
  bcrypt_cost: 4
logging:
  level: error
  format: text
`
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Database.GetDSN()).To(Equal("budget.db?_foreign_keys=on"))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(15 * time.Minute))
	})

	It("fails when the configuration is invalid", func() {
		GinkgoT().Setenv("APP_ENV", "")
		GinkgoT().Setenv("DOCKER_ENV", "")
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte("database:\n  driver: oracle\n"), 0o600)).To(Succeed())

		_, err := loadConfig(dir)
		Expect(err).To(MatchError(ContainSubstring("invalid config")))
	})
})
