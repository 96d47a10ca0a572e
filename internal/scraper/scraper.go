package scraper

import (
	"context"
	"strings"
	"time"

	"listings/internal/domain"
	"listings/internal/monitoring"

	"go.uber.org/zap"
)

// NormalizeURL validates and normalizes a submitted listing URL: it must
// contain the source platform token, and a missing scheme defaults to
// https. Pure transform, no network access.
func NormalizeURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", &ValidationError{Reason: "url is required"}
	}
	if !strings.Contains(strings.ToLower(u), sourceToken) {
		return "", &ValidationError{Reason: "invalid Airbnb URL"}
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}
	return u, nil
}

// ResultCache stores successful extractions keyed by normalized URL.
type ResultCache interface {
	GetListing(ctx context.Context, url string) (*domain.Listing, bool, error)
	SetListing(ctx context.Context, url string, listing *domain.Listing, ttl time.Duration) error
}

// Service runs the import pipeline: normalize, fetch, extract. One
// Listing accumulator is built per call; the service itself holds no
// per-request state and is safe for concurrent callers.
type Service struct {
	fetcher  *Fetcher
	cache    ResultCache
	cacheTTL time.Duration
	metrics  *monitoring.Metrics
	logger   *zap.Logger
}

func NewService(f *Fetcher, cache ResultCache, cacheTTL time.Duration, m *monitoring.Metrics, l *zap.Logger) *Service {
	return &Service{
		fetcher:  f,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   l,
	}
}

// Import fetches the listing page behind rawURL and extracts a Listing
// from it. A recently imported URL is served from the cache without an
// outbound fetch. Errors are *ValidationError or *FetchError.
func (s *Service) Import(ctx context.Context, rawURL string) (*domain.Listing, error) {
	url, err := NormalizeURL(rawURL)
	if err != nil {
		s.metrics.IncImportErrors("invalid_url")
		return nil, err
	}

	if s.cache != nil {
		listing, found, err := s.cache.GetListing(ctx, url)
		if err != nil {
			s.logger.Warn("import cache lookup failed", zap.String("url", url), zap.Error(err))
		} else if found {
			s.logger.Info("serving cached import", zap.String("url", url))
			return listing, nil
		}
	}

	s.logger.Info("importing listing", zap.String("url", url))
	start := time.Now()

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("failed to fetch listing", zap.String("url", url), zap.Error(err))
		s.metrics.IncImportErrors("fetch_failed")
		return nil, err
	}

	listing := Extract(html, s.logger)

	s.metrics.IncImportsTotal()
	s.metrics.ObserveImportDuration(time.Since(start))

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, url, listing, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache import", zap.String("url", url), zap.Error(err))
		}
	}

	return listing, nil
}
