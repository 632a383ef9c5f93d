package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	authpersistence "github.com/wyfcoding/corepnl/internal/auth/infrastructure/persistence"
	catalogpersistence "github.com/wyfcoding/corepnl/internal/catalog/infrastructure/persistence"
	entitlementpersistence "github.com/wyfcoding/corepnl/internal/entitlement/infrastructure/persistence"
	"github.com/wyfcoding/corepnl/pkg/config"
	"github.com/wyfcoding/corepnl/pkg/db"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the storefront tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			database, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()
			return migrate(cmd.Context(), database)
		},
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	return db.Init(ctx, db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
}

func migrate(ctx context.Context, database *db.DB) error {
	err := database.WithContext(ctx).AutoMigrate(
		&catalogpersistence.CourseModel{},
		&catalogpersistence.EbookModel{},
		&entitlementpersistence.PurchaseModel{},
		&authpersistence.UserModel{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info(ctx, "database migrated")
	return nil
}
