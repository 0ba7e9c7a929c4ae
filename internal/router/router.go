// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(articles *handlers.Articles, comments *handlers.Comments, profiles *handlers.Profiles, tags *handlers.Tags) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articles.List)
			r.Get("/feed", articles.Feed)
			r.Post("/", articles.Create)

			r.Route("/{slug}", func(r chi.Router) {
				r.Get("/", articles.Get)
				r.Put("/", articles.Update)
				r.Delete("/", articles.Delete)

				r.Post("/favorite", articles.Favorite)
				r.Delete("/favorite", articles.Unfavorite)

				r.Route("/comments", func(r chi.Router) {
					r.Get("/", comments.List)
					r.Post("/", comments.Create)
					r.Delete("/{id}", comments.Delete)
				})
			})
		})

		r.Get("/tags", tags.List)

		r.Route("/profiles/{username}", func(r chi.Router) {
			r.Get("/", profiles.Get)
			r.Post("/follow", profiles.Follow)
			r.Delete("/follow", profiles.Unfollow)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
