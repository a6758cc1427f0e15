package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/payments"
	"github.com/bouwshop/api/internal/repositories"
)

// orderNumberAttempts bounds regeneration when a generated order number
// collides with an existing one.
const orderNumberAttempts = 5

const defaultCountry = "Belgium"

// OrderServiceDeps bundles dependencies required to construct an OrderService implementation.
type OrderServiceDeps struct {
	Orders  repositories.OrderRepository
	Gateway payments.Gateway
	Clock   func() time.Time
	IDGen   func() string
	// SuffixGen produces the random order-number suffix.
	SuffixGen func() string
}

type orderService struct {
	orders    repositories.OrderRepository
	gateway   payments.Gateway
	clock     func() time.Time
	idGen     func() string
	suffixGen func() string
}

// NewOrderService wires an OrderService backed by the provided repositories.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, ErrRepositoryMissing
	}
	if deps.Gateway == nil {
		return nil, errors.New("order service: payment gateway is not configured")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	suffixGen := deps.SuffixGen
	if suffixGen == nil {
		suffixGen = func() string {
			return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		}
	}
	return &orderService{
		orders:    deps.Orders,
		gateway:   deps.Gateway,
		clock:     func() time.Time { return clock().UTC() },
		idGen:     idGen,
		suffixGen: suffixGen,
	}, nil
}

// CreateOrder places an order. Validation, price snapshots, stock decrements
// and the customer ledger upsert happen atomically in the repository; a
// colliding order number is regenerated and the creation retried.
func (s *orderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (domain.Order, error) {
	if s == nil || s.orders == nil {
		return domain.Order{}, ErrRepositoryMissing
	}
	if len(cmd.Lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order requires at least one item", ErrInvalidInput)
	}
	for _, line := range cmd.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return domain.Order{}, fmt.Errorf("%w: item product id is required", ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: item quantity must be > 0", ErrInvalidInput)
		}
	}
	customer := cmd.Customer
	customer.Name = strings.TrimSpace(customer.Name)
	customer.Email = strings.TrimSpace(customer.Email)
	if customer.Name == "" {
		return domain.Order{}, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if customer.Email == "" || !strings.Contains(customer.Email, "@") {
		return domain.Order{}, fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}
	if customer.Country == "" {
		customer.Country = defaultCountry
	}
	method := strings.TrimSpace(cmd.PaymentMethod)
	if method == "" {
		method = "mock"
	}

	lines := make([]repositories.CartLine, 0, len(cmd.Lines))
	for _, line := range cmd.Lines {
		lines = append(lines, repositories.CartLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	now := s.clock()
	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err := s.orders.Create(ctx, repositories.CreateOrderRequest{
			OrderID:       s.idGen(),
			OrderNumber:   domain.FormatOrderNumber(now, s.suffixGen()),
			Lines:         lines,
			Customer:      customer,
			PaymentMethod: method,
			Notes:         cmd.Notes,
			CustomerID:    s.idGen(),
			Now:           now,
		})
		if err == nil {
			return order, nil
		}
		var orderErr *repositories.OrderError
		if errors.As(err, &orderErr) && orderErr.Code == repositories.OrderErrorDuplicateNumber {
			lastErr = err
			continue
		}
		if mapped := s.mapOrderError(err); mapped != err {
			return domain.Order{}, mapped
		}
		return domain.Order{}, fmt.Errorf("%w: %v", ErrOrderCreationFailed, err)
	}
	return domain.Order{}, fmt.Errorf("%w: %v", ErrOrderCreationFailed, lastErr)
}

func (s *orderService) GetOrder(ctx context.Context, idOrNumber string) (domain.Order, error) {
	if s == nil || s.orders == nil {
		return domain.Order{}, ErrRepositoryMissing
	}
	if strings.TrimSpace(idOrNumber) == "" {
		return domain.Order{}, fmt.Errorf("%w: order id is required", ErrInvalidInput)
	}
	order, err := s.orders.Find(ctx, idOrNumber)
	if err != nil {
		return domain.Order{}, s.mapOrderError(err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error) {
	if s == nil || s.orders == nil {
		return nil, ErrRepositoryMissing
	}
	if filter.Skip < 0 || filter.Limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must be >= 0", ErrInvalidInput)
	}
	var status domain.OrderStatus
	if strings.TrimSpace(filter.Status) != "" {
		parsed, err := domain.ParseOrderStatus(filter.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
		}
		status = parsed
	}
	limit := filter.Limit
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	orders, err := s.orders.List(ctx, repositories.OrderListQuery{
		Status: status,
		Skip:   filter.Skip,
		Limit:  limit,
	})
	if err != nil {
		return nil, s.mapOrderError(err)
	}
	return orders, nil
}

// UpdateOrderStatus transitions the fulfilment status. Cancellation restores
// item stock atomically inside the repository; re-cancelling is a no-op for
// stock.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (domain.Order, error) {
	if s == nil || s.orders == nil {
		return domain.Order{}, ErrRepositoryMissing
	}
	parsed, err := domain.ParseOrderStatus(status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return domain.Order{}, s.mapOrderError(err)
	}
	updated, err := s.orders.UpdateStatus(ctx, repositories.OrderStatusUpdate{
		OrderID: order.ID,
		Status:  parsed,
		Now:     s.clock(),
	})
	if err != nil {
		return domain.Order{}, s.mapOrderError(err)
	}
	return updated, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) (domain.Order, error) {
	if s == nil || s.orders == nil {
		return domain.Order{}, ErrRepositoryMissing
	}
	parsed, err := domain.ParsePaymentStatus(paymentStatus)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrInvalidPaymentStatus, err)
	}

	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return domain.Order{}, s.mapOrderError(err)
	}
	updated, err := s.orders.UpdatePayment(ctx, repositories.OrderPaymentUpdate{
		OrderID:       order.ID,
		PaymentStatus: parsed,
		Now:           s.clock(),
	})
	if err != nil {
		return domain.Order{}, s.mapOrderError(err)
	}
	return updated, nil
}

// ProcessMockPayment charges the order through the gateway. A successful
// charge marks the order paid and confirmed in one write; a declined charge
// marks the payment failed and leaves the fulfilment status untouched.
func (s *orderService) ProcessMockPayment(ctx context.Context, orderID string, success bool) (PaymentResult, error) {
	if s == nil || s.orders == nil {
		return PaymentResult{}, ErrRepositoryMissing
	}
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return PaymentResult{}, s.mapOrderError(err)
	}

	charge, err := s.gateway.Charge(ctx, payments.ChargeRequest{
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Amount:          order.Total,
		Method:          order.PaymentMethod,
		SimulateFailure: !success,
	})
	if err != nil {
		return PaymentResult{}, fmt.Errorf("order service: charge failed: %w", err)
	}

	update := repositories.OrderPaymentUpdate{
		OrderID: order.ID,
		Now:     s.clock(),
	}
	if charge.Success {
		update.PaymentStatus = domain.PaymentStatusPaid
		update.Confirm = true
	} else {
		update.PaymentStatus = domain.PaymentStatusFailed
	}
	updated, err := s.orders.UpdatePayment(ctx, update)
	if err != nil {
		return PaymentResult{}, s.mapOrderError(err)
	}
	return PaymentResult{
		Success:       charge.Success,
		Message:       charge.Message,
		TransactionID: charge.TransactionID,
		Order:         updated,
	}, nil
}

func (s *orderService) mapOrderError(err error) error {
	if err == nil {
		return nil
	}
	var orderErr *repositories.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case repositories.OrderErrorNotFound:
			return ErrOrderNotFound
		case repositories.OrderErrorProductNotFound:
			return ErrProductNotFound
		case repositories.OrderErrorInsufficientStock:
			return ErrInsufficientStock
		}
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return ErrOrderNotFound
		case repoErr.IsUnavailable():
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
