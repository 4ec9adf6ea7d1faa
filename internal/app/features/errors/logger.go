// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/fishnet/internal/app/accounts"
	"github.com/dalemusser/fishnet/internal/app/catchlog"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger writes error responses and logs the ones that are the
// server's fault.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err at error level and sends a 500 carrying userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())))
	if userMsg == "" {
		userMsg = "Internal server error"
	}
	respond.Fail(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs err at debug level and sends a 400 carrying userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Debug(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path))
	respond.Fail(w, http.StatusBadRequest, userMsg)
}

// Write maps a service error onto its HTTP status and message. Anything it
// does not recognize is a 500.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	var (
		insufficient *accounts.InsufficientTokensError
		acctInvalid  *accounts.ValidationError
		catchInvalid *catchlog.ValidationError
	)

	switch {
	case stderrors.As(err, &insufficient):
		respond.JSON(w, http.StatusBadRequest, respond.Payload{
			Error:         "Insufficient tokens",
			CurrentTokens: respond.Int64(insufficient.Current),
			Required:      respond.Int64(insufficient.Required),
		})
	case stderrors.As(err, &acctInvalid):
		respond.Fail(w, http.StatusBadRequest, acctInvalid.Msg)
	case stderrors.As(err, &catchInvalid):
		respond.Fail(w, http.StatusBadRequest, catchInvalid.Msg)
	case stderrors.Is(err, accounts.ErrDuplicateEmail):
		respond.Fail(w, http.StatusBadRequest, "User with this email already exists")
	case stderrors.Is(err, accounts.ErrDuplicateLicense):
		respond.Fail(w, http.StatusBadRequest, "License ID already registered")
	case stderrors.Is(err, catchlog.ErrInvalidID):
		respond.Fail(w, http.StatusBadRequest, "Invalid catch ID")

	case stderrors.Is(err, auth.ErrMissingToken):
		respond.Fail(w, http.StatusUnauthorized, "No token provided")
	case stderrors.Is(err, auth.ErrUnauthenticated),
		stderrors.Is(err, auth.ErrInvalidToken),
		stderrors.Is(err, auth.ErrExpiredToken):
		respond.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
	case stderrors.Is(err, accounts.ErrInvalidCredentials):
		respond.Fail(w, http.StatusUnauthorized, "Invalid email or password")
	case stderrors.Is(err, auth.ErrAccountDeactivated):
		respond.Fail(w, http.StatusUnauthorized, "Account is deactivated. Please contact support.")

	case stderrors.Is(err, catchlog.ErrForbidden):
		respond.Fail(w, http.StatusForbidden, "Not authorized to modify this catch")
	case stderrors.Is(err, auth.ErrRoleRequired):
		respond.Fail(w, http.StatusForbidden, "Insufficient permissions")

	case stderrors.Is(err, auth.ErrUserNotFound):
		respond.Fail(w, http.StatusNotFound, "User not found")
	case stderrors.Is(err, catchlog.ErrNotFound):
		respond.Fail(w, http.StatusNotFound, "Catch not found")

	default:
		e.LogServerError(w, r, "request failed", err, "")
	}
}
