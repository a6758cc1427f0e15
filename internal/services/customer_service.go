package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

// CustomerServiceDeps bundles dependencies required to construct a CustomerService implementation.
type CustomerServiceDeps struct {
	Customers repositories.CustomerRepository
}

type customerService struct {
	customers repositories.CustomerRepository
}

// NewCustomerService wires a CustomerService backed by the provided repositories.
func NewCustomerService(deps CustomerServiceDeps) (CustomerService, error) {
	if deps.Customers == nil {
		return nil, ErrRepositoryMissing
	}
	return &customerService{customers: deps.Customers}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error) {
	if s == nil || s.customers == nil {
		return nil, ErrRepositoryMissing
	}
	if filter.Skip < 0 || filter.Limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must be >= 0", ErrInvalidInput)
	}
	limit := filter.Limit
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	customers, err := s.customers.List(ctx, repositories.CustomerListQuery{
		Skip:  filter.Skip,
		Limit: limit,
	})
	if err != nil {
		return nil, s.mapCustomerError(err)
	}
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, idOrEmail string) (domain.Customer, error) {
	if s == nil || s.customers == nil {
		return domain.Customer{}, ErrRepositoryMissing
	}
	if strings.TrimSpace(idOrEmail) == "" {
		return domain.Customer{}, fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	customer, err := s.customers.Find(ctx, idOrEmail)
	if err != nil {
		return domain.Customer{}, s.mapCustomerError(err)
	}
	return customer, nil
}

func (s *customerService) mapCustomerError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrCustomerNotFound
		case repoErr.IsUnavailable():
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
