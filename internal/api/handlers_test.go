package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"listings/internal/config"
	"listings/internal/domain"
	"listings/internal/scraper"
	"listings/internal/storage"

	"go.uber.org/zap"
)

type stubImporter struct {
	listing *domain.Listing
	err     error
	calls   int
	lastURL string
}

func (s *stubImporter) Import(_ context.Context, url string) (*domain.Listing, error) {
	s.calls++
	s.lastURL = url
	if s.err != nil {
		return nil, s.err
	}
	return s.listing, nil
}

type stubStore struct {
	pingErr      error
	created      *domain.Accommodation
	byID         map[string]*domain.Accommodation
	listStatus   string
	listFeatured bool
}

func newStubStore() *stubStore {
	return &stubStore{byID: map[string]*domain.Accommodation{}}
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func (s *stubStore) CreateAccommodation(_ context.Context, a *domain.Accommodation) (string, error) {
	s.created = a
	return "acc-1", nil
}

func (s *stubStore) GetAccommodation(_ context.Context, id string) (*domain.Accommodation, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return a, nil
}

func (s *stubStore) ListAccommodations(_ context.Context, status string, featuredOnly bool) ([]domain.Accommodation, error) {
	s.listStatus = status
	s.listFeatured = featuredOnly
	return []domain.Accommodation{}, nil
}

func (s *stubStore) UpdateAccommodation(_ context.Context, id string, a *domain.Accommodation) error {
	if _, ok := s.byID[id]; !ok {
		return storage.ErrNotFound
	}
	s.byID[id] = a
	return nil
}

func (s *stubStore) DeleteAccommodation(_ context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(imp Importer, store AccommodationStore, cache Pinger) *httptest.Server {
	cfg := &config.Config{ServerPort: "0"}
	s := NewServer(cfg, imp, store, cache, zap.NewNop())
	return httptest.NewServer(s.router)
}

func assertCORS(t *testing.T, resp *http.Response) {
	t.Helper()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if resp.Header.Get("Access-Control-Allow-Headers") == "" {
		t.Error("Access-Control-Allow-Headers missing")
	}
}

func TestImportEndpoint(t *testing.T) {
	imp := &stubImporter{listing: &domain.Listing{
		Name:      "Cozy Studio Loft",
		Price:     45,
		Guests:    2,
		Amenities: []string{"Wi-Fi"},
		Images:    []string{"https://x/1.jpg"},
	}}
	srv := newTestServer(imp, newStubStore(), &stubPinger{})
	defer srv.Close()

	body := bytes.NewBufferString(`{"url": "airbnb.com/rooms/123"}`)
	resp, err := http.Post(srv.URL+"/api/import", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	assertCORS(t, resp)

	var listing domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if listing.Name != "Cozy Studio Loft" || listing.Price != 45 {
		t.Errorf("unexpected listing: %+v", listing)
	}
	if imp.lastURL != "airbnb.com/rooms/123" {
		t.Errorf("importer got url %q", imp.lastURL)
	}
}

func TestImportValidationFailure(t *testing.T) {
	imp := &stubImporter{err: &scraper.ValidationError{Reason: "invalid Airbnb URL"}}
	srv := newTestServer(imp, newStubStore(), &stubPinger{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/import", "application/json",
		bytes.NewBufferString(`{"url": "https://example.com/listing"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	assertCORS(t, resp)

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatal(err)
	}
	if payload["error"] != "invalid Airbnb URL" {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestImportFetchFailure(t *testing.T) {
	imp := &stubImporter{err: &scraper.FetchError{StatusCode: http.StatusServiceUnavailable}}
	srv := newTestServer(imp, newStubStore(), &stubPinger{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/import", "application/json",
		bytes.NewBufferString(`{"url": "airbnb.com/rooms/123"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	assertCORS(t, resp)
}

func TestImportMalformedBody(t *testing.T) {
	imp := &stubImporter{}
	srv := newTestServer(imp, newStubStore(), &stubPinger{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/import", "application/json",
		bytes.NewBufferString(`{"url":`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if imp.calls != 0 {
		t.Errorf("importer called %d times for a malformed body", imp.calls)
	}
}

func TestPreflight(t *testing.T) {
	srv := newTestServer(&stubImporter{}, newStubStore(), &stubPinger{})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/import", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	assertCORS(t, resp)

	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Errorf("preflight body = %q, want empty", body)
	}
}

func TestCreateAccommodation(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(&stubImporter{}, store, &stubPinger{})
	defer srv.Close()

	payload := `{"name": "Sea Breeze Resort", "nightly_price": 80, "unit_types": [{"name": "Standard", "price": 80}]}`
	resp, err := http.Post(srv.URL+"/api/accommodations", "application/json",
		bytes.NewBufferString(payload))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var created map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created["id"] != "acc-1" {
		t.Errorf("id = %q", created["id"])
	}
	if store.created.Status != "pending" {
		t.Errorf("status defaulted to %q, want pending", store.created.Status)
	}
}

func TestCreateAccommodationRequiresName(t *testing.T) {
	srv := newTestServer(&stubImporter{}, newStubStore(), &stubPinger{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/accommodations", "application/json",
		bytes.NewBufferString(`{"nightly_price": 80}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListAccommodationsFilters(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(&stubImporter{}, store, &stubPinger{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/accommodations?status=published&featured=true")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if store.listStatus != "published" || !store.listFeatured {
		t.Errorf("filters = (%q, %v), want (published, true)", store.listStatus, store.listFeatured)
	}
}

func TestGetAccommodationNotFound(t *testing.T) {
	srv := newTestServer(&stubImporter{}, newStubStore(), &stubPinger{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/accommodations/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteAccommodation(t *testing.T) {
	store := newStubStore()
	store.byID["acc-1"] = &domain.Accommodation{ID: "acc-1", Name: "Sea Breeze Resort"}
	srv := newTestServer(&stubImporter{}, store, &stubPinger{})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/accommodations/acc-1", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if _, ok := store.byID["acc-1"]; ok {
		t.Error("accommodation still present after delete")
	}
}

func TestHealthCheck(t *testing.T) {
	store := newStubStore()
	cache := &stubPinger{}
	srv := newTestServer(&stubImporter{}, store, cache)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	cache.err = errors.New("connection refused")
	resp, err = http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when redis is down", resp.StatusCode)
	}

	var health map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health["redis"] != "unhealthy" || health["postgres"] != "healthy" {
		t.Errorf("health = %v", health)
	}
}
