// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/dalemusser/fishnet/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under /admin/audit. Admins only.
func Routes(h *Handler, rv *auth.Resolver) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(rv.RequireUser)
		pr.Use(rv.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
	})

	return r
}
