// internal/app/features/catches/mutate.go
package catches

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/fishnet/internal/app/catchlog"
	"github.com/dalemusser/fishnet/internal/app/policy/catchpolicy"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	FishType string           `json:"fishType"`
	Quantity *float64         `json:"quantity"`
	Weight   *float64         `json:"weight"`
	Location *locationRequest `json:"location"`
	Time     string           `json:"time"`
	Notes    string           `json:"notes"`
	Weather  *models.Weather  `json:"weather"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

func (l *locationRequest) input() *catchlog.LocationInput {
	if l == nil {
		return nil
	}
	return &catchlog.LocationInput{Latitude: l.Latitude, Longitude: l.Longitude, Address: l.Address}
}

type updateRequest struct {
	FishType *string  `json:"fishType"`
	Quantity *float64 `json:"quantity"`
	Weight   *float64 `json:"weight"`
	Notes    *string  `json:"notes"`
	Time     *string  `json:"time"`
}

// HandleCreate records a catch for the caller.
// POST /catches
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	var req createRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode catch body failed", err, "Invalid catch data")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Ledger.Create(ctx, u, catchlog.CatchInput{
		FishType: req.FishType,
		Quantity: req.Quantity,
		Weight:   req.Weight,
		Location: req.Location.input(),
		Time:     req.Time,
		Notes:    req.Notes,
		Weather:  req.Weather,
	})
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.CatchCreated(ctx, r, u.ID, c.ID, c.FishType)
	respond.Created(w, "Catch recorded successfully", c)
}

// HandleUpdate edits a catch the caller owns.
// PUT /catches/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Ownership is decided before the body is read.
	c, err := h.Ledger.Authorize(ctx, id, u.ID, catchpolicy.ActionUpdate)
	if err != nil {
		if errors.Is(err, catchlog.ErrForbidden) {
			h.AuditLog.CatchDenied(ctx, r, u.ID, id, string(catchpolicy.ActionUpdate))
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	var req updateRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode catch update failed", err, "Invalid catch data")
		return
	}
	patch := catchlog.CatchPatch{
		FishType: req.FishType,
		Quantity: req.Quantity,
		Weight:   req.Weight,
		Notes:    req.Notes,
		Time:     req.Time,
	}

	c, err = h.Ledger.Apply(ctx, c, patch)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.CatchUpdated(ctx, r, u.ID, c.ID, strings.Join(patch.Fields(), ","))
	respond.OK(w, "Catch updated successfully", c)
}

// HandleDelete removes a catch the caller owns.
// DELETE /catches/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ledger.Delete(ctx, id, u.ID); err != nil {
		if errors.Is(err, catchlog.ErrForbidden) {
			h.AuditLog.CatchDenied(ctx, r, u.ID, id, string(catchpolicy.ActionDelete))
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		h.AuditLog.CatchDeleted(ctx, r, u.ID, oid)
	}
	respond.OK(w, "Catch deleted successfully", nil)
}
