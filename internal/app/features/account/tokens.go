// internal/app/features/account/tokens.go
package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/fishnet/internal/app/accounts"
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/app/system/respond"
	"github.com/dalemusser/fishnet/internal/app/system/timeouts"
)

type tokensRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// HandleSpend debits the caller's balance.
// POST /auth/tokens/spend
func (h *Handler) HandleSpend(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	var req tokensRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode spend body failed", err, "Amount must be a positive number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	balance, err := h.Dir.SpendTokens(ctx, u.ID, req.Amount, req.Reason)
	if err != nil {
		var ite *accounts.InsufficientTokensError
		if errors.As(err, &ite) {
			h.AuditLog.TokensSpendRejected(ctx, r, u.ID, req.Amount, ite.Current, req.Reason)
		}
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.TokensSpent(ctx, r, u.ID, req.Amount, balance, req.Reason)
	respond.JSON(w, http.StatusOK, respond.Payload{
		Success: true,
		Message: "Tokens spent successfully",
		Tokens:  respond.Int64(balance),
	})
}

// HandleEarn credits the caller's balance.
// POST /auth/tokens/earn
func (h *Handler) HandleEarn(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Write(w, r, auth.ErrUnauthenticated)
		return
	}

	var req tokensRequest
	if err := respond.Decode(w, r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode earn body failed", err, "Amount must be a positive number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	balance, err := h.Dir.EarnTokens(ctx, u.ID, req.Amount, req.Reason)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	h.AuditLog.TokensEarned(ctx, r, u.ID, req.Amount, balance, req.Reason)
	respond.JSON(w, http.StatusOK, respond.Payload{
		Success: true,
		Message: "Tokens earned successfully",
		Tokens:  respond.Int64(balance),
	})
}
