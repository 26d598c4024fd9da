package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/budget-manager/internal"
	"github.com/frahmantamala/budget-manager/internal/account"
	"github.com/frahmantamala/budget-manager/pkg/logger"
)

var (
	superuserName     string
	superuserEmail    string
	superuserPassword string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an account with staff and superuser flags",
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

		svcs := buildServices(cfg, conn, lg)
		acc, err := svcs.Accounts.Create(context.Background(), account.CreateAccountDTO{
			Username:    superuserName,
			Email:       superuserEmail,
			Password1:   superuserPassword,
			Password2:   superuserPassword,
			Role:        internal.RoleAdmin,
			IsStaff:     true,
			IsSuperuser: true,
		})
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok {
				return fmt.Errorf("%s", appErr.GetDetailedMessage())
			}
			return err
		}

		fmt.Printf("Superuser %s created (id %d)\n", acc.Username, acc.ID)
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "username")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "email address")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "password (at least 8 characters)")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")
}
