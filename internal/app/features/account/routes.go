// internal/app/features/account/routes.go
package account

import (
	"github.com/dalemusser/fishnet/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /auth. Register, login, and logout are open; the rest
// need a bearer token.
func Routes(h *Handler, rv *auth.Resolver) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(rv.RequireUser)
		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpdateMe)
		pr.Put("/password", h.HandleChangePassword)
		pr.Post("/tokens/spend", h.HandleSpend)
		pr.Post("/tokens/earn", h.HandleEarn)
	})
	return r
}
