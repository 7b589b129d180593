package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"letsshare/config"
	logs "letsshare/internal/infra/log"
	"letsshare/internal/infra/persistence/model"
	"letsshare/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const migrateTimeout = 2 * time.Minute

type tabler interface {
	TableName() string
}

func main() {
	dryRun := flag.Bool("dry-run", false, "List the tables that would be migrated without connecting")
	flag.Parse()

	if *dryRun {
		for _, name := range tableNames(model.All()) {
			fmt.Println(name)
		}

		return
	}

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			logs.New,
			postgres.New,
		),
		fx.Invoke(registerMigration),
	)

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := app.Stop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// registerMigration runs after the postgres start hook has pinged the database.
func registerMigration(lc fx.Lifecycle, db *gorm.DB, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return runMigrations(ctx, db, logger)
		},
	})
}

func runMigrations(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	models := model.All()
	logger.Info("Running migrations", slog.Any("tables", tableNames(models)))

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return errors.Wrap(err, "failed to auto-migrate models")
	}

	logger.Info("Migrations completed")

	return nil
}

func tableNames(models []any) []string {
	names := make([]string, 0, len(models))
	for _, m := range models {
		if t, ok := m.(tabler); ok {
			names = append(names, t.TableName())
		}
	}

	return names
}
