package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/services"
)

type stubCustomerService struct {
	listFn func(context.Context, services.CustomerFilter) ([]domain.Customer, error)
	getFn  func(context.Context, string) (domain.Customer, error)
}

func (s *stubCustomerService) ListCustomers(ctx context.Context, filter services.CustomerFilter) ([]domain.Customer, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubCustomerService) GetCustomer(ctx context.Context, idOrEmail string) (domain.Customer, error) {
	if s.getFn != nil {
		return s.getFn(ctx, idOrEmail)
	}
	return domain.Customer{}, errors.New("not implemented")
}

func newCustomerRouter(service services.CustomerService) chi.Router {
	router := chi.NewRouter()
	NewCustomerHandlers(service).Routes(router)
	return router
}

func TestCustomerHandlersList(t *testing.T) {
	var captured services.CustomerFilter
	service := &stubCustomerService{
		listFn: func(ctx context.Context, filter services.CustomerFilter) ([]domain.Customer, error) {
			captured = filter
			return []domain.Customer{{ID: "c1", Email: "jan@example.be", TotalOrders: 3}}, nil
		},
	}
	router := newCustomerRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/customers?skip=10&limit=25", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured.Skip != 10 || captured.Limit != 25 {
		t.Fatalf("unexpected filter %+v", captured)
	}

	var customers []domain.Customer
	if err := json.Unmarshal(rr.Body.Bytes(), &customers); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(customers) != 1 || customers[0].TotalOrders != 3 {
		t.Fatalf("unexpected customers %+v", customers)
	}
}

func TestCustomerHandlersGetByEmail(t *testing.T) {
	service := &stubCustomerService{
		getFn: func(ctx context.Context, idOrEmail string) (domain.Customer, error) {
			if idOrEmail != "jan@example.be" {
				t.Fatalf("unexpected lookup key %s", idOrEmail)
			}
			return domain.Customer{ID: "c1", Email: idOrEmail}, nil
		},
	}
	router := newCustomerRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/customers/jan@example.be", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestCustomerHandlersGetNotFound(t *testing.T) {
	service := &stubCustomerService{
		getFn: func(ctx context.Context, idOrEmail string) (domain.Customer, error) {
			return domain.Customer{}, services.ErrCustomerNotFound
		},
	}
	router := newCustomerRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/customers/missing", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	var envelope map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse error envelope: %v", err)
	}
	if envelope["error"] != "customer_not_found" {
		t.Fatalf("unexpected error code %v", envelope["error"])
	}
}
