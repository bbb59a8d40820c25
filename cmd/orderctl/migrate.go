package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/storage/postgres"
)

const migrateTimeout = 30 * time.Second

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the PostgreSQL schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Usage: "number of migrations to apply (0 = all)"},
				},
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, store *postgres.Store) error {
						if err := store.MigrateUp(ctx, c.Int("steps")); err != nil {
							return fmt.Errorf("migrate up failed: %w", err)
						}
						return printMigrationState(ctx, c.App.Writer, "migrate up ok", store)
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back applied migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, store *postgres.Store) error {
						if err := store.MigrateDown(ctx, c.Int("steps")); err != nil {
							return fmt.Errorf("migrate down failed: %w", err)
						}
						return printMigrationState(ctx, c.App.Writer, "migrate down ok", store)
					})
				},
			},
			{
				Name:  "status",
				Usage: "show the applied schema version",
				Action: func(c *cli.Context) error {
					return withStore(c, func(ctx context.Context, store *postgres.Store) error {
						return printMigrationState(ctx, c.App.Writer, "migration status", store)
					})
				},
			},
		},
	}
}

// withStore открывает PostgreSQL напрямую, без автоприменения миграций.
func withStore(c *cli.Context, fn func(ctx context.Context, store *postgres.Store) error) error {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("migrations require a PostgreSQL DSN (--%s or ORDERSTORE_POSTGRES_DSN)", flagPostgresDSN)
	}

	ctx, cancel := context.WithTimeout(c.Context, migrateTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	return fn(ctx, store)
}

func printMigrationState(ctx context.Context, w io.Writer, prefix string, store *postgres.Store) error {
	state, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s: version=%d applied=%d pending=%d\n", prefix, state.Version, state.Applied, state.Pending)
	return nil
}
