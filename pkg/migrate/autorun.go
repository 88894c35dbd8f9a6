package migrate

import (
	"context"
	"fmt"

	"github.com/metaxoft5/Nathan-Backend/pkg/config"
	"github.com/metaxoft5/Nathan-Backend/pkg/db"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at startup in dev environments
// when the AutoMigrate feature flag is set. Production deploys run
// cmd/migrate explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
		logg.Info(ctx, "migrate.dev_auto_run")
	}

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "migrate.dev_auto_run_done")
	}
	return nil
}
