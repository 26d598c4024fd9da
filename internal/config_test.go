package internal_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-manager/internal"
)

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, *",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Driver:          "sqlite",
			Source:          "file::memory:",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: internal.SecurityConfig{
			AccessTokenSecret:    strings.Repeat("a", 32),
			RefreshTokenSecret:   strings.Repeat("b", 32),
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			BCryptCost:           10,
		},
		RateLimit: internal.RateLimitConfig{Enabled: true, Rate: "5-M"},
		Logging:   internal.LoggingConfig{Level: "info", Format: "json"},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("rejects an unknown database driver", func() {
		cfg := validConfig()
		cfg.Database.Driver = "mysql"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Driver")))
	})

	It("rejects short token secrets", func() {
		cfg := validConfig()
		cfg.Security.AccessTokenSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("AccessTokenSecret")))
	})

	It("rejects identical access and refresh secrets", func() {
		cfg := validConfig()
		cfg.Security.RefreshTokenSecret = cfg.Security.AccessTokenSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must differ")))
	})

	It("rejects more idle than open connections", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 10
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("requires a rate when rate limiting is enabled", func() {
		cfg := validConfig()
		cfg.RateLimit.Rate = ""
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("Rate")))
	})

	It("splits allowed origins", func() {
		Expect(validConfig().Server.Origins()).To(Equal([]string{"http://localhost:3000", "*"}))
	})

	DescribeTable("GetDSN turns sqlite foreign keys on",
		func(driver, source, expected string) {
			cfg := internal.DatabaseConfig{Driver: driver, Source: source}
			Expect(cfg.GetDSN()).To(Equal(expected))
		},
		Entry("plain file", "sqlite", "budget.db", "budget.db?_foreign_keys=on"),
		Entry("existing parameters", "sqlite", "file:budget.db?mode=memory", "file:budget.db?_foreign_keys=on&mode=memory"),
		Entry("explicitly disabled", "sqlite", "budget.db?_foreign_keys=off", "budget.db?_foreign_keys=on"),
		Entry("short alias", "sqlite", "budget.db?_fk=0", "budget.db?_foreign_keys=on"),
		Entry("postgres untouched", "postgres", "postgres://u:p@localhost/budget?sslmode=disable", "postgres://u:p@localhost/budget?sslmode=disable"),
	)

	Describe("LoadConfigFromEnv", func() {
		It("reads values and falls back to defaults", func() {
			GinkgoT().Setenv("DB_DRIVER", "sqlite")
			GinkgoT().Setenv("DB_SOURCE", "budget.db")
			GinkgoT().Setenv("HTTP_PORT", "9090")
			GinkgoT().Setenv("DB_AUTO_MIGRATE", "true")
			GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "30m")
			GinkgoT().Setenv("BCRYPT_COST", "not-a-number")

			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Database.Driver).To(Equal("sqlite"))
			Expect(cfg.Database.Source).To(Equal("budget.db"))
			Expect(cfg.Database.AutoMigrate).To(BeTrue())
			Expect(cfg.Server.Port).To(Equal(9090))
			Expect(cfg.Security.AccessTokenDuration).To(Equal(30 * time.Minute))
			Expect(cfg.Security.BCryptCost).To(Equal(12))
			Expect(cfg.RateLimit.Rate).To(Equal("5-M"))
		})
	})
})
