package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nstepanov/passvault/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the vault API.
//
// Routes:
//
//	POST   /api/auth/register           → authHandler.Register
//	POST   /api/auth/login              → authHandler.Login
//	GET    /api/auth/me                 → authHandler.Me        (session)
//	POST   /api/auth/logout             → authHandler.Logout    (session)
//	GET    /api/password/list           → vaultHandler.List     (session)
//	GET    /api/password/show/{id}      → vaultHandler.Show     (session)
//	POST   /api/password/add            → vaultHandler.Add      (session + CSRF)
//	PUT    /api/password/edit/{id}      → vaultHandler.Edit     (session + CSRF)
//	DELETE /api/password/delete/{id}    → vaultHandler.Delete   (session + CSRF)
//
// Middleware chain, in order: AllowContentType("application/json"),
// WithRequestLogging, then SessionAuth on protected groups and CSRF on
// mutating password routes.
func NewRouter(
	authHandler *AuthHandler,
	vaultHandler *VaultHandler,
	ident middleware.Identifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public endpoints
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected group: requires a live session
			r.Group(func(r chi.Router) {
				r.Use(middleware.SessionAuth(ident))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/password", func(r chi.Router) {
			r.Use(middleware.SessionAuth(ident))

			r.Get("/list", vaultHandler.List)
			r.Get("/show/{id}", vaultHandler.Show)

			// Mutations additionally require the anti-forgery token
			r.Group(func(r chi.Router) {
				r.Use(middleware.CSRF)
				r.Post("/add", vaultHandler.Add)
				r.Put("/edit/{id}", vaultHandler.Edit)
				r.Delete("/delete/{id}", vaultHandler.Delete)
			})
		})
	})

	return r
}
