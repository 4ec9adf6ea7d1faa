package auth

import (
	"context"
	"net/http"

	"github.com/dalemusser/fishnet/internal/domain/models"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user resolved for this request & "found?" flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok && u != nil
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects u into the request context, bypassing token checks.
// Only handler tests should call it.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}
