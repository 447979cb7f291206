package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/manojtanwar99/stayvira/internal/config"
	"github.com/manojtanwar99/stayvira/internal/database"
	"github.com/manojtanwar99/stayvira/internal/repository"
	"github.com/manojtanwar99/stayvira/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// adminSeeder is the part of the account service seed-admin needs.
type adminSeeder interface {
	EnsureAdmin(ctx context.Context, email, password, name string) (bool, error)
}

// seederFactory opens the account store. The returned func releases it.
type seederFactory func(ctx context.Context, cost int) (adminSeeder, func(), error)

func newSeedAdminCmd(logger *slog.Logger, open seederFactory) *cobra.Command {
	var (
		email    string
		password string
		name     string
		cost     int
	)

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the admin account, or promote and reset an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			seeder, closeFn, err := open(cmd.Context(), cost)
			if err != nil {
				return err
			}
			defer closeFn()

			created, err := seeder.EnsureAdmin(cmd.Context(), email, password, name)
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			logger.Info("admin account ready", "email", email, "created", created)
			if created {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", email)
			} else {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "updated admin %s\n", email)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "Admin User", "display name")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}

func openUserService(ctx context.Context, cost int) (adminSeeder, func(), error) {
	dbCfg, err := config.LoadDatabase()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(ctx, *dbCfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := database.Migrate(db); err != nil {
		closeFn()
		return nil, nil, err
	}

	// seed-admin never touches images.
	users := service.NewUserService(repository.NewUserRepository(db), nil, cost, nil)
	return users, closeFn, nil
}
