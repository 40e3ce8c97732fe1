package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/streamhub/authd/internal/logging"
	"github.com/streamhub/authd/internal/server/config"
	"github.com/streamhub/authd/internal/server/services"
)

// NewRouter assembles the public HTTP surface. Everything hangs off
// /api/v1/users; the second group is gated by the access-token middleware.
func NewRouter(logger logging.Logger, users *services.UserService, media *services.MediaService, cfg *config.Config) http.Handler {
	api := &API{
		logger:  logger.With("module", "httpapi"),
		users:   users,
		media:   media,
		cookies: newCookieWriter(cfg.CookieSecure, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", api.handleRegister)
		r.Post("/login", api.handleLogin)
		r.Post("/refresh-token", api.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(api.requireAuth)
			r.Post("/logout", api.handleLogout)
			r.Get("/current-user", api.handleCurrentUser)
			r.Post("/change-password", api.handleChangePassword)
			r.Patch("/update-account", api.handleUpdateAccount)
			r.Patch("/avatar", api.handleUpdateAvatar)
			r.Patch("/cover-image", api.handleUpdateCoverImage)
		})
	})

	return r
}
