package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/db"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	"github.com/angelmondragon/darkstore-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "up|down|status|version|create|validate")
	dir := flag.String("dir", "", "migrations directory; empty uses the embedded set")
	name := flag.String("name", "", "migration name for -cmd=create")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()
	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	if err := run(ctx, logg, *cmd, *dir, *name, *version); err != nil {
		logg.Error(ctx, "migrate failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, cmd, dir, name, version string) error {
	switch cmd {
	case "create":
		if name == "" {
			return errors.New("-name is required for create")
		}
		if dir == "" {
			dir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "path", path), "migration created")
		return nil
	case "validate":
		err := migrate.Validate(migrate.Embedded())
		if dir != "" {
			err = migrate.ValidateDir(dir)
		}
		if err != nil {
			return err
		}
		logg.Info(ctx, "migrations valid")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	if cfg.DB.IsSQLite() {
		if cmd != "up" {
			return fmt.Errorf("sqlite databases only support -cmd=up, got %q", cmd)
		}
		if err := migrate.AutoMigrateModels(dbClient); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema migrated")
		return nil
	}

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return err
	}
	runner, err := migrate.NewRunner(sqlDB, dir)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		results, err := runner.Up(ctx)
		logResults(ctx, logg, results...)
		return err
	case "down":
		result, err := runner.Down(ctx)
		logResults(ctx, logg, result)
		return err
	case "version":
		if version == "" {
			return errors.New("-version is required for version")
		}
		results, err := runner.To(ctx, version)
		logResults(ctx, logg, results...)
		return err
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			logg.Info(logg.WithFields(ctx, map[string]any{
				"version": st.Source.Version,
				"path":    st.Source.Path,
				"state":   string(st.State),
			}), "migration status")
		}
		return nil
	default:
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
}

func logResults(ctx context.Context, logg *logger.Logger, results ...*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"version":     res.Source.Version,
			"direction":   res.Direction,
			"duration_ms": res.Duration.Milliseconds(),
		}), "migration applied")
	}
}
