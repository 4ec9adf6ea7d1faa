// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/fishnet/internal/app/store/users"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	cur := timeouts.Current()
	logger.Info("timeouts configured",
		zap.Duration("short", cur.Short),
		zap.Duration("medium", cur.Medium),
		zap.Duration("long", cur.Long))

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin promotes the account registered under email to admin. Accounts
// are only ever created through registration, so a missing account is
// logged and skipped rather than invented.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.FishnetMongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		logger.Warn("admin_email has no account yet; register it and restart", zap.String("email", email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up admin user: %w", err)
	}
	if u.Role == models.RoleAdmin {
		return nil
	}

	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin user: %w", err)
	}
	logger.Info("promoted user to admin",
		zap.String("user_id", u.ID.Hex()),
		zap.String("previous_role", u.Role))
	return nil
}
