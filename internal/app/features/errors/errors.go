// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/fishnet/internal/app/system/respond"
)

// Handler answers requests that match no route.
// No DB needed; it only writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound is installed as the router's fallback.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed is installed for known paths hit with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respond.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}
