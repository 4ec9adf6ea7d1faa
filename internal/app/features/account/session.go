// internal/app/features/account/session.go
package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fishnet/internal/app/accounts"
	"github.com/dalemusser/fishnet/internal/app/system/ratelimit"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	LicenseID    string `json:"licenseId"`
	Region       string `json:"region"`
	BoatName     string `json:"boatName"`
	Experience   int    `json:"experience"`
	ProfilePhoto string `json:"profilePhoto"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and returns it with a token.
// POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode register body failed", err, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, token, err := h.Dir.Register(ctx, accounts.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		LicenseID:    req.LicenseID,
		Region:       req.Region,
		BoatName:     req.BoatName,
		Experience:   req.Experience,
		ProfilePhoto: req.ProfilePhoto,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.UserRegistered(ctx, r, u.ID, u.Email)
	respond.Created(w, "User registered successfully", authData{Token: token, User: u})
}

// HandleLogin exchanges credentials for a token.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login body failed", err, "Please provide email and password")
		return
	}

	if ok, reason := h.Limiter.Check(r, req.Email); !ok {
		h.Log.Warn("login throttled",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", req.Email))
		respond.Fail(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, token, err := h.Dir.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrAccountDeactivated):
			h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.Email)
		case errors.Is(err, accounts.ErrInvalidCredentials) && u == nil:
			h.AuditLog.LoginFailedUserNotFound(ctx, r, req.Email)
		case errors.Is(err, accounts.ErrInvalidCredentials):
			h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Email)
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Limiter.ResetEmail(req.Email)
	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Email)
	respond.OK(w, "Login successful", authData{Token: token, User: u})
}

// HandleLogout acknowledges a logout. Tokens are not tracked server side,
// so the client simply discards its copy.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.AuditLog.Logout(r.Context(), r)
	respond.OK(w, "Logout successful. Please remove token from client.", nil)
}
