// internal/app/features/catches/list.go
package catches

import (
	"context"
	"net/http"

	"github.com/dalemusser/fishnet/internal/app/catchlog"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/paging"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

// ServeMine lists the caller's catches.
// GET /catches?fishType=&limit=&skip=
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	win := paging.Owner.Parse(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Ledger.ListByOwner(ctx, u.ID, catchlog.ListFilter{
		FishType: query.Get(r, "fishType"),
		Limit:    win.Limit,
		Skip:     win.Skip,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own catches failed", err, "Error retrieving catches")
		return
	}
	respond.List(w, rows)
}

// ServeAll lists every user's catches. No token required.
// GET /catches/all?fishType=&limit=&skip=
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	win := paging.Public.Parse(r)
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Ledger.ListAll(ctx, catchlog.ListFilter{
		FishType: query.Get(r, "fishType"),
		Limit:    win.Limit,
		Skip:     win.Skip,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list all catches failed", err, "Error retrieving catches")
		return
	}
	respond.List(w, rows)
}

// ServeStats aggregates the caller's catches.
// GET /catches/stats
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.Ledger.StatsForOwner(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "owner catch stats failed", err, "Error retrieving statistics")
		return
	}
	respond.OK(w, "", s)
}

// ServeGlobalStats aggregates every catch. No token required.
// GET /stats
func (h *Handler) ServeGlobalStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	s, err := h.Ledger.GlobalStats(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "global catch stats failed", err, "Error retrieving statistics")
		return
	}
	respond.OK(w, "", s)
}

// ServeOne returns a single catch.
// GET /catches/{id}
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Ledger.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	respond.OK(w, "", c)
}
