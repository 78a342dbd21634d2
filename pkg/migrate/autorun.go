package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/db"
	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. sqlite databases are migrated from the GORM models.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.DB.IsSQLite() {
		logg.Info(logg.WithField(ctx, "env", cfg.App.Env), "running model auto-migrate (sqlite)")
		return AutoMigrateModels(client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, "")
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	results, err := runner.Up(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "applied", len(results)), "goose migrations completed")
	return nil
}

// AutoMigrateModels creates the persisted tables straight from the GORM models.
func AutoMigrateModels(client *db.Client) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}
	if err := client.DB().AutoMigrate(
		&models.User{},
		&models.Warehouse{},
		&models.WarehouseProduct{},
		&models.WarehouseAssignment{},
		&models.Address{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
