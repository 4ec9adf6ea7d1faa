// internal/app/features/account/handler.go
package account

import (
	"github.com/dalemusser/fishnet/internal/app/accounts"
	uierrors "github.com/dalemusser/fishnet/internal/app/features/errors"
	"github.com/dalemusser/fishnet/internal/app/system/auditlog"
	"github.com/dalemusser/fishnet/internal/app/system/ratelimit"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the /auth routes: sign-up, sign-in, the caller's profile,
// and the token balance.
type Handler struct {
	Dir      *accounts.Directory
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.LoginLimiter // nil disables login throttling
	Log      *zap.Logger
}

func NewHandler(dir *accounts.Directory, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		Dir:      dir,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Limiter:  limiter,
		Log:      logger,
	}
}

// authData is the body of a successful register or login.
type authData struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type userData struct {
	User *models.User `json:"user"`
}
