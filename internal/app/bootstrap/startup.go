// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/programhub/internal/app/store/users"
	"github.com/dalemusser/programhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// ProgramHub re-applies the configured deadlines (tests call Startup without
// LoadConfig), logs them, and creates the bootstrap admin when one is
// configured and missing.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Gateway == nil {
		return errors.New("startup: no document gateway")
	}

	timeouts.Configure(appCfg.timeouts())
	t := timeouts.Current()
	logger.Info("operation deadlines",
		zap.Duration("ping", t.Ping),
		zap.Duration("short", t.Short),
		zap.Duration("medium", t.Medium),
		zap.Duration("long", t.Long),
		zap.Duration("upload", t.Upload))

	return ensureBootstrapAdmin(ctx, appCfg, deps, logger)
}

func ensureBootstrapAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.BootstrapAdminEmail == "" {
		return nil
	}

	sctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	created, err := userstore.New(deps.Gateway).EnsureAdmin(sctx, appCfg.BootstrapAdminEmail, appCfg.BootstrapAdminPassword)
	if err != nil {
		logger.Error("bootstrap admin setup failed", zap.String("email", appCfg.BootstrapAdminEmail), zap.Error(err))
		return err
	}
	if created {
		logger.Info("created bootstrap admin", zap.String("email", appCfg.BootstrapAdminEmail))
	}
	return nil
}
