package main

import (
	"fmt"
	"os"

	"go-dental-clinic/cmd/bootstrap"
	"go-dental-clinic/config"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/infrastructure/database"
	"go-dental-clinic/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dental-clinic",
		Short: "Dental clinic scheduling and commission API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize application with all dependencies
			app, err := bootstrap.New(cmd.Context())
			if err != nil {
				logrus.Errorf("Failed to initialize application: %v", err)
				return err
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	run := func(up bool) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			bootstrap.SetupLogger(cfg.App.LogLevel)
			return database.Migrate(cfg.DB, cfg.App.MigrationsPath, up)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE:  run(true),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert all migrations",
		RunE:  run(false),
	})

	return cmd
}

// tokenCmd mints an access token for local development. Production tokens
// come from the identity service sharing JWT_SECRET.
func tokenCmd() *cobra.Command {
	var userID, clinicID string
	var roleID int

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			uid, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			cid, err := uuid.Parse(clinicID)
			if err != nil {
				return fmt.Errorf("invalid --clinic: %w", err)
			}

			token, tokenID, err := jwt.NewJWTService(cfg.JWT).GenerateAccessToken(uid, cid, roleID)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "token_id: %s\n%s\n", tokenID, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID the token acts for")
	cmd.Flags().StringVar(&clinicID, "clinic", "", "clinic ID the token is scoped to")
	cmd.Flags().IntVar(&roleID, "role", entity.RoleIDAdmin, "role ID (1 admin, 2 dentist, 3 receptionist)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("clinic")

	return cmd
}
