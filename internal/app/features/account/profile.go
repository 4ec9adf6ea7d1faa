// internal/app/features/account/profile.go
package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/fishnet/internal/app/accounts"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
)

type profileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	LicenseID    *string `json:"licenseId"`
	Region       *string `json:"region"`
	BoatName     *string `json:"boatName"`
	Experience   *int    `json:"experience"`
	ProfilePhoto *string `json:"profilePhoto"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeMe returns the caller's profile.
// GET /auth/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}
	respond.OK(w, "", u)
}

// HandleUpdateMe applies a partial profile update.
// PUT /auth/me
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	var req profileRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile body failed", err, "Invalid request body")
		return
	}
	patch := accounts.ProfilePatch{
		Name:         req.Name,
		Phone:        req.Phone,
		LicenseID:    req.LicenseID,
		Region:       req.Region,
		BoatName:     req.BoatName,
		Experience:   req.Experience,
		ProfilePhoto: req.ProfilePhoto,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Dir.UpdateProfile(ctx, u.ID, patch)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.ProfileUpdated(ctx, r, u.ID, strings.Join(patch.Fields(), ","))
	respond.OK(w, "Profile updated successfully", userData{User: updated})
}

// HandleChangePassword replaces the caller's password.
// PUT /auth/password
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	var req passwordRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode password body failed", err, "Please provide current and new password")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Dir.ChangePassword(ctx, u.ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		h.AuditLog.PasswordChangeFailed(ctx, r, u.ID)
		respond.Fail(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.PasswordChanged(ctx, r, u.ID)
	respond.OK(w, "Password changed successfully", nil)
}
