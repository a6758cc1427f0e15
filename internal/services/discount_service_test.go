package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

type stubDiscountRepository struct {
	discounts []domain.Discount
	inserted  []domain.Discount
	deleted   []string
}

func (s *stubDiscountRepository) List(_ context.Context, query repositories.DiscountListQuery) ([]domain.Discount, error) {
	if !query.ActiveOnly {
		return s.discounts, nil
	}
	var out []domain.Discount
	for _, discount := range s.discounts {
		if discount.IsActive {
			out = append(out, discount)
		}
	}
	return out, nil
}

func (s *stubDiscountRepository) FindByCode(_ context.Context, code string) (domain.Discount, error) {
	normalized := domain.NormalizeCode(code)
	for _, discount := range s.discounts {
		if discount.Code == normalized && discount.IsActive {
			return discount, nil
		}
	}
	return domain.Discount{}, repositories.NewDiscountError(repositories.DiscountErrorNotFound, "", nil)
}

func (s *stubDiscountRepository) Insert(_ context.Context, discount domain.Discount) error {
	for _, existing := range s.discounts {
		if existing.Code == discount.Code {
			return repositories.NewDiscountError(repositories.DiscountErrorDuplicateCode, "", nil)
		}
	}
	s.inserted = append(s.inserted, discount)
	s.discounts = append(s.discounts, discount)
	return nil
}

func (s *stubDiscountRepository) Delete(_ context.Context, discountID string) error {
	for _, discount := range s.discounts {
		if discount.ID == discountID {
			s.deleted = append(s.deleted, discountID)
			return nil
		}
	}
	return repositories.NewDiscountError(repositories.DiscountErrorNotFound, "", nil)
}

func (s *stubDiscountRepository) IncrementUsage(_ context.Context, code string) (domain.Discount, error) {
	normalized := domain.NormalizeCode(code)
	for i, discount := range s.discounts {
		if discount.Code != normalized || !discount.IsActive {
			continue
		}
		if discount.MaxUses > 0 && discount.UsedCount >= discount.MaxUses {
			return domain.Discount{}, repositories.NewDiscountError(repositories.DiscountErrorExhausted, "", nil)
		}
		s.discounts[i].UsedCount++
		return s.discounts[i], nil
	}
	return domain.Discount{}, repositories.NewDiscountError(repositories.DiscountErrorNotFound, "", nil)
}

func newTestDiscountService(t *testing.T, repo *stubDiscountRepository, now time.Time) DiscountService {
	t.Helper()
	svc, err := NewDiscountService(DiscountServiceDeps{
		Discounts: repo,
		Clock:     func() time.Time { return now },
		IDGen:     func() string { return "d1" },
	})
	if err != nil {
		t.Fatalf("NewDiscountService: %v", err)
	}
	return svc
}

func TestDiscountService_ValidateDiscount_Chain(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)

	repo := &stubDiscountRepository{
		discounts: []domain.Discount{
			{ID: "d1", Code: "WELCOME10", IsActive: true, DiscountType: domain.DiscountTypePercentage, DiscountValue: 10, MinOrderAmount: 50},
			{ID: "d2", Code: "EXPIRED", IsActive: true, DiscountValue: 5, ValidUntil: &expired},
			{ID: "d3", Code: "MAXED", IsActive: true, DiscountValue: 5, MaxUses: 3, UsedCount: 3},
		},
	}
	svc := newTestDiscountService(t, repo, now)
	ctx := context.Background()

	// Lookup is case-insensitive.
	discount, err := svc.ValidateDiscount(ctx, "welcome10", 60)
	if err != nil {
		t.Fatalf("ValidateDiscount returned error: %v", err)
	}
	if discount.Code != "WELCOME10" {
		t.Fatalf("unexpected discount %+v", discount)
	}

	if _, err := svc.ValidateDiscount(ctx, "MISSING", 60); !errors.Is(err, ErrDiscountNotFound) {
		t.Fatalf("expected ErrDiscountNotFound got %v", err)
	}
	if _, err := svc.ValidateDiscount(ctx, "EXPIRED", 60); !errors.Is(err, ErrDiscountExpired) {
		t.Fatalf("expected ErrDiscountExpired got %v", err)
	}
	if _, err := svc.ValidateDiscount(ctx, "MAXED", 60); !errors.Is(err, ErrDiscountExhausted) {
		t.Fatalf("expected ErrDiscountExhausted got %v", err)
	}
	if _, err := svc.ValidateDiscount(ctx, "WELCOME10", 49.99); !errors.Is(err, ErrMinimumOrderNotMet) {
		t.Fatalf("expected ErrMinimumOrderNotMet got %v", err)
	}
}

func TestDiscountService_ValidateDiscount_DoesNotIncrementUsage(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	repo := &stubDiscountRepository{
		discounts: []domain.Discount{
			{ID: "d1", Code: "WELCOME10", IsActive: true, DiscountValue: 10, MaxUses: 5, UsedCount: 2},
		},
	}
	svc := newTestDiscountService(t, repo, now)

	if _, err := svc.ValidateDiscount(context.Background(), "WELCOME10", 100); err != nil {
		t.Fatalf("ValidateDiscount returned error: %v", err)
	}
	if repo.discounts[0].UsedCount != 2 {
		t.Fatalf("validation must not touch usage, got %d", repo.discounts[0].UsedCount)
	}
}

func TestDiscountService_RedeemDiscount(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	repo := &stubDiscountRepository{
		discounts: []domain.Discount{
			{ID: "d1", Code: "LIMITED", IsActive: true, DiscountValue: 10, MaxUses: 1, UsedCount: 0},
		},
	}
	svc := newTestDiscountService(t, repo, now)
	ctx := context.Background()

	redeemed, err := svc.RedeemDiscount(ctx, "limited")
	if err != nil {
		t.Fatalf("RedeemDiscount returned error: %v", err)
	}
	if redeemed.UsedCount != 1 {
		t.Fatalf("expected used count 1 got %d", redeemed.UsedCount)
	}

	if _, err := svc.RedeemDiscount(ctx, "LIMITED"); !errors.Is(err, ErrDiscountExhausted) {
		t.Fatalf("expected ErrDiscountExhausted got %v", err)
	}
}

func TestDiscountService_CreateDiscount(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	repo := &stubDiscountRepository{}
	svc := newTestDiscountService(t, repo, now)

	discount, err := svc.CreateDiscount(context.Background(), CreateDiscountCommand{
		Code:          " summer20 ",
		Name:          domain.LocalizedText{EN: "Summer Sale"},
		DiscountType:  "percentage",
		DiscountValue: 20,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("CreateDiscount returned error: %v", err)
	}
	if discount.Code != "SUMMER20" {
		t.Fatalf("expected uppercased code got %q", discount.Code)
	}
	if !discount.ValidFrom.Equal(now) {
		t.Fatalf("expected valid_from defaulted to now got %v", discount.ValidFrom)
	}
}

func TestDiscountService_CreateDiscount_Duplicate(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	repo := &stubDiscountRepository{
		discounts: []domain.Discount{{ID: "d0", Code: "SUMMER20", IsActive: true, DiscountValue: 20}},
	}
	svc := newTestDiscountService(t, repo, now)

	_, err := svc.CreateDiscount(context.Background(), CreateDiscountCommand{
		Code:          "summer20",
		Name:          domain.LocalizedText{EN: "Summer Sale"},
		DiscountValue: 20,
		IsActive:      true,
	})
	if !errors.Is(err, ErrDuplicateDiscountCode) {
		t.Fatalf("expected ErrDuplicateDiscountCode got %v", err)
	}
}

func TestDiscountService_CreateDiscount_Validation(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	svc := newTestDiscountService(t, &stubDiscountRepository{}, now)

	cases := []struct {
		name string
		cmd  CreateDiscountCommand
	}{
		{name: "missing code", cmd: CreateDiscountCommand{Name: domain.LocalizedText{EN: "x"}, DiscountValue: 10}},
		{name: "missing name", cmd: CreateDiscountCommand{Code: "X", DiscountValue: 10}},
		{name: "zero value", cmd: CreateDiscountCommand{Code: "X", Name: domain.LocalizedText{EN: "x"}}},
		{name: "over 100 percent", cmd: CreateDiscountCommand{Code: "X", Name: domain.LocalizedText{EN: "x"}, DiscountType: "percentage", DiscountValue: 150}},
		{name: "bad type", cmd: CreateDiscountCommand{Code: "X", Name: domain.LocalizedText{EN: "x"}, DiscountType: "bogo", DiscountValue: 10}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateDiscount(context.Background(), tc.cmd); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput got %v", tc.name, err)
		}
	}
}

func TestDiscountService_DeleteDiscount_NotFound(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
	svc := newTestDiscountService(t, &stubDiscountRepository{}, now)

	if err := svc.DeleteDiscount(context.Background(), "missing"); !errors.Is(err, ErrDiscountNotFound) {
		t.Fatalf("expected ErrDiscountNotFound got %v", err)
	}
}
