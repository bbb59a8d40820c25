package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/orderstore/internal/app"
	"github.com/vladislavdragonenkov/orderstore/internal/version"
)

const (
	flagStorageDriver   = "storage-driver"
	flagPostgresDSN     = "postgres-dsn"
	flagAutoMigrate     = "auto-migrate"
	flagKafkaBrokers    = "kafka-brokers"
	flagKafkaTopic      = "kafka-topic"
	flagLogLevel        = "log-level"
	flagMetricsTextfile = "metrics-textfile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "orderctl:", err)
		os.Exit(1)
	}
}

// newApp собирает дерево команд orderctl.
func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		_, _ = fmt.Fprintln(c.App.Writer, version.String())
	}

	return &cli.App{
		Name:      "orderctl",
		Usage:     "manage customers, products and orders in the order store",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagStorageDriver,
				Usage: "storage backend: memory|postgres (env ORDERSTORE_STORAGE_DRIVER)",
			},
			&cli.StringFlag{
				Name:  flagPostgresDSN,
				Usage: "PostgreSQL DSN (env ORDERSTORE_POSTGRES_DSN)",
			},
			&cli.BoolFlag{
				Name:  flagAutoMigrate,
				Usage: "apply pending migrations on start (env ORDERSTORE_POSTGRES_AUTO_MIGRATE)",
			},
			&cli.StringFlag{
				Name:  flagKafkaBrokers,
				Usage: "comma separated Kafka brokers for order events (env ORDERSTORE_KAFKA_BROKERS)",
			},
			&cli.StringFlag{
				Name:  flagKafkaTopic,
				Usage: "Kafka topic for order events (env ORDERSTORE_KAFKA_TOPIC)",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "log level (env ORDERSTORE_LOG_LEVEL)",
			},
			&cli.StringFlag{
				Name:  flagMetricsTextfile,
				Usage: "write Prometheus metrics to this file on exit (env ORDERSTORE_METRICS_TEXTFILE)",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			customerCommand(),
			productCommand(),
			orderCommand(),
			checkCommand(),
			demoCommand(),
		},
	}
}

// configFromContext читает окружение и поверх него применяет явно заданные флаги.
func configFromContext(c *cli.Context) (app.Config, error) {
	cfg, err := app.ReadEnv()
	if err != nil {
		return app.Config{}, err
	}

	if c.IsSet(flagStorageDriver) {
		cfg.StorageDriver = c.String(flagStorageDriver)
	}
	if c.IsSet(flagPostgresDSN) {
		cfg.PostgresDSN = c.String(flagPostgresDSN)
	}
	if c.IsSet(flagAutoMigrate) {
		cfg.PostgresAutoMigrate = c.Bool(flagAutoMigrate)
	}
	if c.IsSet(flagKafkaBrokers) {
		cfg.KafkaBrokers = c.String(flagKafkaBrokers)
	}
	if c.IsSet(flagKafkaTopic) {
		cfg.KafkaTopic = c.String(flagKafkaTopic)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.IsSet(flagMetricsTextfile) {
		cfg.MetricsTextfile = c.String(flagMetricsTextfile)
	}

	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// withDependencies поднимает зависимости по конфигурации, выполняет fn и
// освобождает ресурсы. override может подправить конфигурацию перед запуском.
func withDependencies(c *cli.Context, override func(*app.Config), fn func(ctx context.Context, deps *app.Dependencies) error) (err error) {
	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	if override != nil {
		override(&cfg)
	}

	logger, err := app.NewLogger(cfg.LogLevel, c.App.ErrWriter)
	if err != nil {
		return err
	}

	deps, err := app.NewDependencies(c.Context, cfg, logger.WithField("component", "orderctl"))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(c.Context, deps)
}
