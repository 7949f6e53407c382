// Package server assembles the HTTP surface: middleware chain, the friend
// routes, health and metrics endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aanand-mishra/friends-api/internal/http/handlers/friend"
	"github.com/aanand-mishra/friends-api/internal/metrics"
	"github.com/aanand-mishra/friends-api/internal/storage"
	"github.com/aanand-mishra/friends-api/internal/utils/response"
)

// NewRouter returns the service's root handler.
//
// Route table:
//
//	POST   /api/friends        → create a friend
//	GET    /api/friends        → list all friends
//	GET    /api/friends/{id}   → get one friend
//	PUT    /api/friends/{id}   → replace a friend's fields
//	DELETE /api/friends/{id}   → delete a friend
//	GET    /health             → store reachability
//	GET    /metrics            → Prometheus exposition
func NewRouter(store storage.Storage, m *metrics.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(instrument(m))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	// Any origin may call the API.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", health(store))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/friends", func(r chi.Router) {
		r.Post("/", friend.New(store))
		r.Get("/", friend.GetList(store))
		r.Get("/{id}", friend.GetByID(store))
		r.Put("/{id}", friend.Update(store))
		r.Delete("/{id}", friend.Delete(store))
	})

	return r
}

func health(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
