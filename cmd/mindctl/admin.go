package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mindfolk/internal/repository"
	"mindfolk/internal/service"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage moderator accounts",
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision an admin account with password login",
	RunE:  runAdminCreate,
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Password; falls back to MINDFOLK_ADMIN_PASSWORD")
	_ = adminCreateCmd.MarkFlagRequired("email")

	adminCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	defer logger.Sync()

	password := adminPassword
	if password == "" {
		password = os.Getenv("MINDFOLK_ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("--password or MINDFOLK_ADMIN_PASSWORD is required")
	}

	cfg, pool, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	sessions := service.NewSessionService(cfg.SessionSecret, time.Minute, time.Hour, nil)
	accounts := service.NewAccountService(logger, repository.NewPgUserRepository(pool), nil, sessions, nil)
	user, err := accounts.ProvisionAdmin(cmd.Context(), adminEmail, adminName, password)
	if err != nil {
		return fmt.Errorf("provision admin: %w", err)
	}
	logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return nil
}
