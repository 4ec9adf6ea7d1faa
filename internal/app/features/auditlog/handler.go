// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/dalemusser/fishnet/internal/app/features/errors"
	"github.com/dalemusser/fishnet/internal/app/store/audit"
	"go.uber.org/zap"
)

// Handler serves the admin view of recorded audit events.
type Handler struct {
	Store  *audit.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

// NewHandler constructs an audit log feature handler over store.
func NewHandler(store *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:  store,
		ErrLog: errLog,
		Log:    logger,
	}
}
