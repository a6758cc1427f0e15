package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/services"
)

type stubDiscountService struct {
	listFn     func(context.Context, services.DiscountFilter) ([]domain.Discount, error)
	createFn   func(context.Context, services.CreateDiscountCommand) (domain.Discount, error)
	deleteFn   func(context.Context, string) error
	validateFn func(context.Context, string, float64) (domain.Discount, error)
	redeemFn   func(context.Context, string) (domain.Discount, error)
}

func (s *stubDiscountService) ListDiscounts(ctx context.Context, filter services.DiscountFilter) ([]domain.Discount, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

func (s *stubDiscountService) CreateDiscount(ctx context.Context, cmd services.CreateDiscountCommand) (domain.Discount, error) {
	if s.createFn != nil {
		return s.createFn(ctx, cmd)
	}
	return domain.Discount{}, errors.New("not implemented")
}

func (s *stubDiscountService) DeleteDiscount(ctx context.Context, discountID string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, discountID)
	}
	return errors.New("not implemented")
}

func (s *stubDiscountService) ValidateDiscount(ctx context.Context, code string, orderAmount float64) (domain.Discount, error) {
	if s.validateFn != nil {
		return s.validateFn(ctx, code, orderAmount)
	}
	return domain.Discount{}, errors.New("not implemented")
}

func (s *stubDiscountService) RedeemDiscount(ctx context.Context, code string) (domain.Discount, error) {
	if s.redeemFn != nil {
		return s.redeemFn(ctx, code)
	}
	return domain.Discount{}, errors.New("not implemented")
}

func newDiscountRouter(service services.DiscountService) chi.Router {
	router := chi.NewRouter()
	NewDiscountHandlers(service).Routes(router)
	return router
}

func TestDiscountHandlersValidatePercentage(t *testing.T) {
	service := &stubDiscountService{
		validateFn: func(ctx context.Context, code string, orderAmount float64) (domain.Discount, error) {
			if code != "WELCOME10" || orderAmount != 100 {
				t.Fatalf("unexpected validation %s %.2f", code, orderAmount)
			}
			return domain.Discount{
				ID:            "d1",
				Code:          "WELCOME10",
				DiscountType:  domain.DiscountTypePercentage,
				DiscountValue: 10,
			}, nil
		},
	}
	router := newDiscountRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/discounts/validate/WELCOME10?order_amount=100", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp validateDiscountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Valid || resp.Code != "WELCOME10" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.DiscountAmount != 10 || resp.FinalAmount != 90 {
		t.Fatalf("unexpected amounts %.2f / %.2f", resp.DiscountAmount, resp.FinalAmount)
	}
}

func TestDiscountHandlersValidateFixedCapped(t *testing.T) {
	service := &stubDiscountService{
		validateFn: func(ctx context.Context, code string, orderAmount float64) (domain.Discount, error) {
			return domain.Discount{
				Code:          "TENNER",
				DiscountType:  domain.DiscountTypeFixed,
				DiscountValue: 10,
			}, nil
		},
	}
	router := newDiscountRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/discounts/validate/TENNER?order_amount=7.50", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp validateDiscountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.DiscountAmount != 7.5 || resp.FinalAmount != 0 {
		t.Fatalf("expected deduction capped at the order amount, got %+v", resp)
	}
}

func TestDiscountHandlersValidateExpired(t *testing.T) {
	service := &stubDiscountService{
		validateFn: func(ctx context.Context, code string, orderAmount float64) (domain.Discount, error) {
			return domain.Discount{}, services.ErrDiscountExpired
		},
	}
	router := newDiscountRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/discounts/validate/OLD?order_amount=100", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	var envelope map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse error envelope: %v", err)
	}
	if envelope["error"] != "discount_expired" {
		t.Fatalf("unexpected error code %v", envelope["error"])
	}
}

func TestDiscountHandlersValidateUnknownCode(t *testing.T) {
	service := &stubDiscountService{
		validateFn: func(ctx context.Context, code string, orderAmount float64) (domain.Discount, error) {
			return domain.Discount{}, services.ErrDiscountNotFound
		},
	}
	router := newDiscountRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/discounts/validate/NOPE?order_amount=100", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestDiscountHandlersCreate(t *testing.T) {
	validUntil := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	var captured services.CreateDiscountCommand
	service := &stubDiscountService{
		createFn: func(ctx context.Context, cmd services.CreateDiscountCommand) (domain.Discount, error) {
			captured = cmd
			return domain.Discount{ID: "d1", Code: "SUMMER20"}, nil
		},
	}
	router := newDiscountRouter(service)

	payload := `{
		"code": "summer20",
		"discount_type": "percentage",
		"discount_value": 20,
		"min_order_amount": 75,
		"max_uses": 100,
		"valid_until": "2026-12-31T23:59:59Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/discounts", bytes.NewBufferString(payload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if captured.Code != "summer20" || captured.DiscountValue != 20 || captured.MaxUses != 100 {
		t.Fatalf("unexpected command %+v", captured)
	}
	if !captured.IsActive {
		t.Fatalf("expected is_active to default true")
	}
	if captured.ValidUntil == nil || !captured.ValidUntil.Equal(validUntil) {
		t.Fatalf("unexpected valid_until %#v", captured.ValidUntil)
	}
}

func TestDiscountHandlersCreateDuplicate(t *testing.T) {
	service := &stubDiscountService{
		createFn: func(ctx context.Context, cmd services.CreateDiscountCommand) (domain.Discount, error) {
			return domain.Discount{}, services.ErrDuplicateDiscountCode
		},
	}
	router := newDiscountRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/discounts", bytes.NewBufferString(`{"code": "WELCOME10", "discount_value": 10}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestDiscountHandlersDelete(t *testing.T) {
	service := &stubDiscountService{
		deleteFn: func(ctx context.Context, discountID string) error {
			if discountID != "d1" {
				t.Fatalf("unexpected discount id %s", discountID)
			}
			return nil
		},
	}
	router := newDiscountRouter(service)

	req := httptest.NewRequest(http.MethodDelete, "/discounts/d1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}
