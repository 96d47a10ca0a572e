package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"listings/internal/domain"
	"listings/internal/scraper"
	"listings/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// handleImport runs the extraction pipeline against a submitted listing
// URL. A bad URL is the caller's fault (400); everything past validation
// is ours or the remote site's (500). A mostly-empty 200 result is a
// legitimate low-confidence import, not an error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing, err := s.importer.Import(r.Context(), req.URL)
	if err != nil {
		var verr *scraper.ValidationError
		if errors.As(err, &verr) {
			s.respondWithError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.logger.Error("import failed", zap.String("url", req.URL), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondWithJSON(w, http.StatusOK, listing)
}

func (s *Server) handleCreateAccommodation(w http.ResponseWriter, r *http.Request) {
	var a domain.Accommodation
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if a.Name == "" {
		s.respondWithError(w, http.StatusBadRequest, "Accommodation name is required")
		return
	}
	if a.Status == "" {
		a.Status = "pending"
	}

	id, err := s.store.CreateAccommodation(r.Context(), &a)
	if err != nil {
		s.logger.Error("failed to create accommodation", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not save accommodation")
		return
	}

	s.respondWithJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleListAccommodations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	featuredOnly := r.URL.Query().Get("featured") == "true"

	accommodations, err := s.store.ListAccommodations(r.Context(), status, featuredOnly)
	if err != nil {
		s.logger.Error("failed to list accommodations", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not list accommodations")
		return
	}

	s.respondWithJSON(w, http.StatusOK, accommodations)
}

func (s *Server) handleGetAccommodation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := s.store.GetAccommodation(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Accommodation not found")
			return
		}
		s.logger.Error("failed to get accommodation", zap.String("id", id), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve accommodation")
		return
	}

	s.respondWithJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateAccommodation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var a domain.Accommodation
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.store.UpdateAccommodation(r.Context(), id, &a); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Accommodation not found")
			return
		}
		s.logger.Error("failed to update accommodation", zap.String("id", id), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not update accommodation")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteAccommodation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.store.DeleteAccommodation(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Accommodation not found")
			return
		}
		s.logger.Error("failed to delete accommodation", zap.String("id", id), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not delete accommodation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	// Check Postgres
	if err := s.store.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("health check failed for postgres", zap.Error(err))
	} else {
		healthStatus["postgres"] = "healthy"
	}

	// Check Redis
	if err := s.cache.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	isHealthy := healthStatus["postgres"] == "healthy" && healthStatus["redis"] == "healthy"
	if !isHealthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}

	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
