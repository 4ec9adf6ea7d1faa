// internal/app/features/catches/handler.go
package catches

import (
	"github.com/dalemusser/fishnet/internal/app/catchlog"
	uierrors "github.com/dalemusser/fishnet/internal/app/features/errors"
	"github.com/dalemusser/fishnet/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the /catches routes and the public /stats summary.
type Handler struct {
	Ledger   *catchlog.Ledger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(ledger *catchlog.Ledger, errLog *uierrors.ErrorLogger, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Ledger:   ledger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Log:      logger,
	}
}
