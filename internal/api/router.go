package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", s.handleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		// The web client lives on another origin. Preflight requests are
		// answered by the middleware itself.
		r.Use(corsMiddleware)

		r.Post("/import", s.handleImport)

		r.Route("/accommodations", func(r chi.Router) {
			r.Post("/", s.handleCreateAccommodation)
			r.Get("/", s.handleListAccommodations)
			r.Get("/{id}", s.handleGetAccommodation)
			r.Put("/{id}", s.handleUpdateAccommodation)
			r.Delete("/{id}", s.handleDeleteAccommodation)
		})
	})

	return r
}

// corsMiddleware attaches the permissive cross-origin headers every /api
// response carries and answers preflight requests directly.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
