package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"listings/internal/config"
	"listings/internal/domain"

	"go.uber.org/zap"
)

// Importer runs the listing import pipeline.
type Importer interface {
	Import(ctx context.Context, url string) (*domain.Listing, error)
}

// AccommodationStore persists accommodation records.
type AccommodationStore interface {
	Ping(ctx context.Context) error
	CreateAccommodation(ctx context.Context, a *domain.Accommodation) (string, error)
	GetAccommodation(ctx context.Context, id string) (*domain.Accommodation, error)
	ListAccommodations(ctx context.Context, status string, featuredOnly bool) ([]domain.Accommodation, error)
	UpdateAccommodation(ctx context.Context, id string, a *domain.Accommodation) error
	DeleteAccommodation(ctx context.Context, id string) error
}

// Pinger reports liveness of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	importer   Importer
	store      AccommodationStore
	cache      Pinger
	logger     *zap.Logger
}

func NewServer(cfg *config.Config, imp Importer, store AccommodationStore, cache Pinger, l *zap.Logger) *Server {
	s := &Server{
		config:   cfg,
		importer: imp,
		store:    store,
		cache:    cache,
		logger:   l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
