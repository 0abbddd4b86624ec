package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/odonto/admin-api/internal/repository/postgres"
	"github.com/odonto/admin-api/pkg/metrics"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := load()
			if err != nil {
				return err
			}
			if cfg.Demo() {
				l.Info("no database configured, nothing to migrate")
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := postgres.NewDB(ctx, postgres.DatabaseConfig{
				URL:             cfg.Database.URL,
				MaxOpenConns:    cfg.Database.MaxOpenConns,
				MaxIdleConns:    cfg.Database.MaxIdleConns,
				ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			})
			if err != nil {
				return err
			}
			store := postgres.NewStore(db, metrics.NewNop())
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			l.Info("schema applied")
			return nil
		},
	}
}
