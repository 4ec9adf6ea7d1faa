// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/fishnet/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration. Each value is one of
// "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), or "off".
type Config struct {
	Auth    string // register, login, password, profile
	Tokens  string // spend / earn
	Catches string // catch create / update / delete
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// clientIP prefers proxy headers over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

func (l *Logger) setting(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryTokens:
		return l.config.Tokens
	case audit.CategoryCatches:
		return l.config.Catches
	}
	return "all"
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op, so handlers under test may pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func (l *Logger) event(r *http.Request, category, eventType string, userID *primitive.ObjectID, success bool, reason string, details map[string]string) audit.Event {
	return audit.Event{
		Category:      category,
		EventType:     eventType,
		UserID:        userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: reason,
		Details:       details,
	}
}

// --- Authentication Events ---

// UserRegistered logs a new account.
func (l *Logger) UserRegistered(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventUserRegistered, &userID, true, "",
		map[string]string{"email": email}))
}

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventLoginSuccess, &userID, true, "",
		map[string]string{"email": email}))
}

// LoginFailedUserNotFound logs a login for an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, nil, false, "user not found",
		map[string]string{"attempted_email": attemptedEmail}))
}

// LoginFailedWrongPassword logs a login with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, &userID, false, "wrong password",
		map[string]string{"email": email}))
}

// LoginFailedUserDisabled logs a login attempt on a deactivated account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventLoginFailedUserDisabled, &userID, false, "account deactivated",
		map[string]string{"email": email}))
}

// Logout logs a client-side logout. There is no session to end server side.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventLogout, nil, true, "", nil))
}

// PasswordChanged logs a successful password change.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventPasswordChanged, &userID, true, "", nil))
}

// PasswordChangeFailed logs a password change rejected for a wrong current password.
func (l *Logger) PasswordChangeFailed(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventPasswordChangeFailed, &userID, false, "current password incorrect", nil))
}

// ProfileUpdated logs a profile edit and which fields it touched.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, userID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, l.event(r, audit.CategoryAuth, audit.EventProfileUpdated, &userID, true, "",
		map[string]string{"fields_changed": fieldsChanged}))
}

// --- Token Events ---

// TokensSpent logs a debit and the resulting balance.
func (l *Logger) TokensSpent(ctx context.Context, r *http.Request, userID primitive.ObjectID, amount, balance int64, reason string) {
	l.Log(ctx, l.event(r, audit.CategoryTokens, audit.EventTokensSpent, &userID, true, "", map[string]string{
		"amount":  strconv.FormatInt(amount, 10),
		"balance": strconv.FormatInt(balance, 10),
		"reason":  reason,
	}))
}

// TokensSpendRejected logs a debit refused for lack of balance.
func (l *Logger) TokensSpendRejected(ctx context.Context, r *http.Request, userID primitive.ObjectID, amount, balance int64, reason string) {
	l.Log(ctx, l.event(r, audit.CategoryTokens, audit.EventTokensSpendRejected, &userID, false, "insufficient tokens", map[string]string{
		"amount":  strconv.FormatInt(amount, 10),
		"balance": strconv.FormatInt(balance, 10),
		"reason":  reason,
	}))
}

// TokensEarned logs a credit and the resulting balance.
func (l *Logger) TokensEarned(ctx context.Context, r *http.Request, userID primitive.ObjectID, amount, balance int64, reason string) {
	l.Log(ctx, l.event(r, audit.CategoryTokens, audit.EventTokensEarned, &userID, true, "", map[string]string{
		"amount":  strconv.FormatInt(amount, 10),
		"balance": strconv.FormatInt(balance, 10),
		"reason":  reason,
	}))
}

// --- Catch Events ---

// CatchCreated logs a new catch.
func (l *Logger) CatchCreated(ctx context.Context, r *http.Request, userID, catchID primitive.ObjectID, fishType string) {
	l.Log(ctx, l.event(r, audit.CategoryCatches, audit.EventCatchCreated, &userID, true, "", map[string]string{
		"catch_id":  catchID.Hex(),
		"fish_type": fishType,
	}))
}

// CatchUpdated logs an edit by the owner.
func (l *Logger) CatchUpdated(ctx context.Context, r *http.Request, userID, catchID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, l.event(r, audit.CategoryCatches, audit.EventCatchUpdated, &userID, true, "", map[string]string{
		"catch_id":       catchID.Hex(),
		"fields_changed": fieldsChanged,
	}))
}

// CatchDeleted logs a removal by the owner.
func (l *Logger) CatchDeleted(ctx context.Context, r *http.Request, userID, catchID primitive.ObjectID) {
	l.Log(ctx, l.event(r, audit.CategoryCatches, audit.EventCatchDeleted, &userID, true, "", map[string]string{
		"catch_id": catchID.Hex(),
	}))
}

// CatchDenied logs a mutation attempted by someone other than the owner.
func (l *Logger) CatchDenied(ctx context.Context, r *http.Request, userID primitive.ObjectID, catchID, action string) {
	l.Log(ctx, l.event(r, audit.CategoryCatches, audit.EventCatchDenied, &userID, false, "not owner", map[string]string{
		"catch_id": catchID,
		"action":   action,
	}))
}
