package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

// DiscountServiceDeps bundles dependencies required to construct a DiscountService implementation.
type DiscountServiceDeps struct {
	Discounts repositories.DiscountRepository
	Clock     func() time.Time
	IDGen     func() string
}

type discountService struct {
	discounts repositories.DiscountRepository
	clock     func() time.Time
	idGen     func() string
}

// NewDiscountService wires a DiscountService backed by the provided repositories.
func NewDiscountService(deps DiscountServiceDeps) (DiscountService, error) {
	if deps.Discounts == nil {
		return nil, ErrRepositoryMissing
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	return &discountService{
		discounts: deps.Discounts,
		clock:     func() time.Time { return clock().UTC() },
		idGen:     idGen,
	}, nil
}

func (s *discountService) ListDiscounts(ctx context.Context, filter DiscountFilter) ([]domain.Discount, error) {
	if s == nil || s.discounts == nil {
		return nil, ErrRepositoryMissing
	}
	discounts, err := s.discounts.List(ctx, repositories.DiscountListQuery{
		ActiveOnly: filter.ActiveOnly,
		Limit:      maxListLimit,
	})
	if err != nil {
		return nil, s.mapDiscountError(err)
	}
	return discounts, nil
}

func (s *discountService) CreateDiscount(ctx context.Context, cmd CreateDiscountCommand) (domain.Discount, error) {
	if s == nil || s.discounts == nil {
		return domain.Discount{}, ErrRepositoryMissing
	}
	code := domain.NormalizeCode(cmd.Code)
	if code == "" {
		return domain.Discount{}, fmt.Errorf("%w: discount code is required", ErrInvalidInput)
	}
	if err := validateLocalizedName(cmd.Name); err != nil {
		return domain.Discount{}, err
	}
	discountType := domain.DiscountTypePercentage
	if strings.TrimSpace(cmd.DiscountType) != "" {
		parsed, err := domain.ParseDiscountType(cmd.DiscountType)
		if err != nil {
			return domain.Discount{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		discountType = parsed
	}
	if cmd.DiscountValue <= 0 {
		return domain.Discount{}, fmt.Errorf("%w: discount value must be > 0", ErrInvalidInput)
	}
	if discountType == domain.DiscountTypePercentage && cmd.DiscountValue > 100 {
		return domain.Discount{}, fmt.Errorf("%w: percentage discount cannot exceed 100", ErrInvalidInput)
	}
	if cmd.MinOrderAmount < 0 {
		return domain.Discount{}, fmt.Errorf("%w: minimum order amount must be >= 0", ErrInvalidInput)
	}
	if cmd.MaxUses < 0 {
		return domain.Discount{}, fmt.Errorf("%w: max uses must be >= 0", ErrInvalidInput)
	}

	now := s.clock()
	validFrom := now
	if cmd.ValidFrom != nil {
		validFrom = cmd.ValidFrom.UTC()
	}
	discount := domain.Discount{
		ID:             s.idGen(),
		Code:           code,
		Name:           cmd.Name,
		Description:    cmd.Description,
		DiscountType:   discountType,
		DiscountValue:  cmd.DiscountValue,
		MinOrderAmount: cmd.MinOrderAmount,
		MaxUses:        cmd.MaxUses,
		UsedCount:      0,
		IsActive:       cmd.IsActive,
		ValidFrom:      validFrom,
		ValidUntil:     cmd.ValidUntil,
		CreatedAt:      now,
	}
	if err := s.discounts.Insert(ctx, discount); err != nil {
		return domain.Discount{}, s.mapDiscountError(err)
	}
	return discount, nil
}

func (s *discountService) DeleteDiscount(ctx context.Context, discountID string) error {
	if s == nil || s.discounts == nil {
		return ErrRepositoryMissing
	}
	if strings.TrimSpace(discountID) == "" {
		return fmt.Errorf("%w: discount id is required", ErrInvalidInput)
	}
	if err := s.discounts.Delete(ctx, discountID); err != nil {
		return s.mapDiscountError(err)
	}
	return nil
}

// ValidateDiscount runs the eligibility chain in order: existence, expiry,
// usage cap, minimum order amount. It never touches the usage counter.
func (s *discountService) ValidateDiscount(ctx context.Context, code string, orderAmount float64) (domain.Discount, error) {
	if s == nil || s.discounts == nil {
		return domain.Discount{}, ErrRepositoryMissing
	}
	if domain.NormalizeCode(code) == "" {
		return domain.Discount{}, fmt.Errorf("%w: discount code is required", ErrInvalidInput)
	}

	discount, err := s.discounts.FindByCode(ctx, code)
	if err != nil {
		return domain.Discount{}, s.mapDiscountError(err)
	}

	now := s.clock()
	if discount.ValidUntil != nil && discount.ValidUntil.Before(now) {
		return domain.Discount{}, ErrDiscountExpired
	}
	if discount.MaxUses > 0 && discount.UsedCount >= discount.MaxUses {
		return domain.Discount{}, ErrDiscountExhausted
	}
	if orderAmount < discount.MinOrderAmount {
		return domain.Discount{}, fmt.Errorf("%w: minimum order amount is €%.2f", ErrMinimumOrderNotMet, discount.MinOrderAmount)
	}
	return discount, nil
}

// RedeemDiscount increments the usage counter. The cap check and the write
// share a transaction in the repository.
func (s *discountService) RedeemDiscount(ctx context.Context, code string) (domain.Discount, error) {
	if s == nil || s.discounts == nil {
		return domain.Discount{}, ErrRepositoryMissing
	}
	if domain.NormalizeCode(code) == "" {
		return domain.Discount{}, fmt.Errorf("%w: discount code is required", ErrInvalidInput)
	}
	discount, err := s.discounts.IncrementUsage(ctx, code)
	if err != nil {
		return domain.Discount{}, s.mapDiscountError(err)
	}
	return discount, nil
}

func (s *discountService) mapDiscountError(err error) error {
	if err == nil {
		return nil
	}
	var discountErr *repositories.DiscountError
	if errors.As(err, &discountErr) {
		switch discountErr.Code {
		case repositories.DiscountErrorNotFound:
			return ErrDiscountNotFound
		case repositories.DiscountErrorDuplicateCode:
			return ErrDuplicateDiscountCode
		case repositories.DiscountErrorExhausted:
			return ErrDiscountExhausted
		}
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrDiscountNotFound
		case repoErr.IsUnavailable():
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
