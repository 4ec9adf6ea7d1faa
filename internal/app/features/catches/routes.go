// internal/app/features/catches/routes.go
package catches

import (
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /catches. Only /all is public.
func Routes(h *Handler, rv *auth.Resolver) chi.Router {
	r := chi.NewRouter()
	r.Get("/all", h.ServeAll)

	r.Group(func(pr chi.Router) {
		pr.Use(rv.RequireUser)
		pr.Get("/", h.ServeMine)
		pr.Post("/", h.HandleCreate)
		pr.Get("/stats", h.ServeStats)
		pr.Get("/{id}", h.ServeOne)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}

// StatsRoutes mounts under /stats and is public.
func StatsRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGlobalStats)
	return r
}
