package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/internal/category"
	"github.com/frahmantamala/budget-manager/internal/transaction"
	"github.com/frahmantamala/budget-manager/pkg/logger"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account, a demo account and a few demo transactions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		lg := logger.LoggerWrapper()

		conn, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := context.Background()
		if clearData {
			// children first
			for _, table := range []string{"transactions", "categories", "accounts"} {
				if err := conn.Gorm.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("failed to clear %s: %w", table, err)
				}
			}
			lg.Info("cleared existing data")
		}

		svcs := buildServices(cfg, conn, lg)
		defer svcs.Events.Wait()

		if _, err := ensureAccount(ctx, svcs.Accounts, "admin", internal.RoleAdmin); err != nil {
			return err
		}
		demo, err := ensureAccount(ctx, svcs.Accounts, "demo", internal.RoleUser)
		if err != nil {
			return err
		}

		return seedTransactions(ctx, svcs.Categories, svcs.Transactions, demo.ToCaller())
	},
}

// ensureAccount creates the account through the account service so default
// categories are provisioned; existing accounts are left untouched.
func ensureAccount(ctx context.Context, accounts *account.Service, username, role string) (*account.Account, error) {
	existing, err := accounts.GetByUsername(ctx, username)
	if err == nil {
		fmt.Println("account already exists:", username)
		return existing, nil
	}
	if !errors.Is(err, internal.ErrAccountNotFound) {
		return nil, err
	}

	acc, err := accounts.Create(ctx, account.CreateAccountDTO{
		Username:  username,
		Email:     username + "@example.com",
		Password1: seedPassword,
		Password2: seedPassword,
		Role:      role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed %s: %w", username, err)
	}
	fmt.Printf("Seeded %s account: %s / %s\n", role, username, seedPassword)
	return acc, nil
}

func seedTransactions(ctx context.Context, categories *category.Service, transactions *transaction.Service, caller *internal.Caller) error {
	page, err := transactions.List(ctx, caller, transaction.ListQuery{Limit: 1})
	if err != nil {
		return err
	}
	if page.Count > 0 {
		fmt.Println("demo transactions already exist")
		return nil
	}

	owned, err := categories.List(ctx, caller)
	if err != nil {
		return err
	}
	ids := map[string]int64{}
	for _, c := range owned {
		ids[c.Name] = c.ID
	}

	today := time.Now().UTC()
	demo := []struct {
		amount   string
		desc     string
		daysAgo  int
		category string
	}{
		{"2500.00", "Monthly salary", 20, "Salary"},
		{"45.90", "Groceries", 6, "Food"},
		{"12.50", "Lunch", 2, "Food"},
		{"3.20", "Bus ticket", 1, "Transport"},
		{"19.99", "Book", 0, ""},
	}

	for _, d := range demo {
		dto := transaction.TransactionDTO{
			Amount:      transaction.AmountInput(d.amount),
			Description: d.desc,
			Date:        today.AddDate(0, 0, -d.daysAgo).Format("2006-01-02"),
		}
		if id, ok := ids[d.category]; ok {
			dto.CategoryID = transaction.OptionalID{Value: &id}
		}
		if _, err := transactions.Create(ctx, caller, dto); err != nil {
			return fmt.Errorf("failed to seed transaction %q: %w", d.desc, err)
		}
	}
	fmt.Printf("Seeded %d demo transactions\n", len(demo))
	return nil
}
