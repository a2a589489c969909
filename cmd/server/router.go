package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arolitec/taskboard-api/internal/api"
	"github.com/arolitec/taskboard-api/internal/api/middleware"
	"github.com/arolitec/taskboard-api/internal/api/shared"
	"github.com/arolitec/taskboard-api/internal/cache"
)

// setupRouter builds the HTTP routing table.
//
// Registration and login are public. Everything else requires a valid
// bearer token; the full listing, the user directory and task
// assignment additionally require the admin role.
func setupRouter(
	authHandler *api.AuthHandler,
	taskHandler *api.TaskHandler,
	authMiddleware *middleware.AuthMiddleware,
	db *sql.DB,
	listingCache *cache.RedisListingCache,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", healthHandler(db, listingCache))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/profile", authHandler.Profile)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAdmin)
				r.Get("/users", authHandler.ListUsers)
			})
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/", taskHandler.Create)
		r.Get("/my-tasks", taskHandler.MyTasks)
		r.Get("/{id}", taskHandler.Get)
		r.Patch("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAdmin)
			r.Get("/", taskHandler.List)
			r.Post("/{id}/assign/{userId}", taskHandler.Assign)
		})
	})

	return r
}

// healthHandler reports the liveness of the server and its backing
// services. The cache being down degrades the response body but not
// the status code, since the API stays functional without it.
func healthHandler(db *sql.DB, listingCache *cache.RedisListingCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status":   "unavailable",
				"database": "down",
			})
			return
		}

		cacheStatus := "ok"
		if err := listingCache.Ping(ctx); err != nil {
			cacheStatus = "down"
		}

		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "ok",
			"cache":    cacheStatus,
		})
	}
}
