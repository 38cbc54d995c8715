package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/muhammadchandra19/spot-exchange/internal/infrastructure/postgresql/migrations"
	"github.com/muhammadchandra19/spot-exchange/pkg/config"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	migration "github.com/muhammadchandra19/spot-exchange/pkg/migration-pg"
	"github.com/muhammadchandra19/spot-exchange/pkg/postgresql"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all, down requires > 0)")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithEncoding("console"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *direction, *steps); err != nil {
		log.Error(err, logger.NewField("direction", *direction))
		os.Exit(1)
	}
	log.Info("Migration completed", logger.NewField("direction", *direction))
}

func run(log *logger.Logger, direction string, steps int) error {
	ctx := context.Background()

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		return err
	}

	client, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		return err
	}
	defer client.Close()

	runner := migration.NewRunner(client, log, migration.Config{
		Source:    migrations.FS,
		Schema:    cfg.PostgreSQL.SearchPath,
		TableName: "schema_migrations",
	})
	if err := runner.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	switch direction {
	case "up":
		return runner.MigrateUp(ctx, steps)
	case "down":
		return runner.MigrateDown(ctx, steps)
	default:
		flag.Usage()
		return fmt.Errorf("invalid direction %q, use up or down", direction)
	}
}
