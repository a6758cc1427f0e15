package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bouwshop/api/internal/services"
)

type stubSeedService struct {
	seedFn func(context.Context) (services.SeedResult, error)
}

func (s *stubSeedService) Seed(ctx context.Context) (services.SeedResult, error) {
	if s.seedFn != nil {
		return s.seedFn(ctx)
	}
	return services.SeedResult{}, errors.New("not implemented")
}

func newSeedRouter(service services.SeedService) chi.Router {
	router := chi.NewRouter()
	NewSeedHandlers(service).Routes(router)
	return router
}

func TestSeedHandlersSeedEmptyStore(t *testing.T) {
	service := &stubSeedService{
		seedFn: func(ctx context.Context) (services.SeedResult, error) {
			return services.SeedResult{Seeded: true, Categories: 6, Products: 6, Discounts: 1}, nil
		},
	}
	router := newSeedRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/seed", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp seedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Categories != 6 || resp.Products != 6 || resp.Discounts != 1 {
		t.Fatalf("unexpected counts %+v", resp)
	}
}

func TestSeedHandlersSeedAlreadyPopulated(t *testing.T) {
	service := &stubSeedService{
		seedFn: func(ctx context.Context) (services.SeedResult, error) {
			return services.SeedResult{Seeded: false}, nil
		},
	}
	router := newSeedRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/seed", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp seedResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Message != "database already seeded" || resp.Categories != 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
}
