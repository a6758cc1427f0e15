package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/payments"
	"github.com/bouwshop/api/internal/repositories"
)

type stubOrderRepository struct {
	orders         map[string]domain.Order
	createRequests []repositories.CreateOrderRequest
	statusUpdates  []repositories.OrderStatusUpdate
	paymentUpdates []repositories.OrderPaymentUpdate
	// duplicateAttempts makes Create fail with a duplicate-number error
	// that many times before succeeding.
	duplicateAttempts int
	createErr         error
}

func (s *stubOrderRepository) Create(_ context.Context, req repositories.CreateOrderRequest) (domain.Order, error) {
	s.createRequests = append(s.createRequests, req)
	if s.createErr != nil {
		return domain.Order{}, s.createErr
	}
	if s.duplicateAttempts > 0 {
		s.duplicateAttempts--
		return domain.Order{}, repositories.NewOrderError(repositories.OrderErrorDuplicateNumber, "", nil)
	}
	order := domain.Order{
		ID:            req.OrderID,
		OrderNumber:   req.OrderNumber,
		Customer:      req.Customer,
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CreatedAt:     req.Now,
		UpdatedAt:     req.Now,
	}
	if s.orders == nil {
		s.orders = make(map[string]domain.Order)
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderRepository) Find(_ context.Context, idOrNumber string) (domain.Order, error) {
	if order, ok := s.orders[idOrNumber]; ok {
		return order, nil
	}
	for _, order := range s.orders {
		if order.OrderNumber == idOrNumber {
			return order, nil
		}
	}
	return domain.Order{}, repositories.NewOrderError(repositories.OrderErrorNotFound, "", nil)
}

func (s *stubOrderRepository) List(_ context.Context, query repositories.OrderListQuery) ([]domain.Order, error) {
	var out []domain.Order
	for _, order := range s.orders {
		if query.Status != "" && order.Status != query.Status {
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

func (s *stubOrderRepository) UpdateStatus(_ context.Context, update repositories.OrderStatusUpdate) (domain.Order, error) {
	order, ok := s.orders[update.OrderID]
	if !ok {
		return domain.Order{}, repositories.NewOrderError(repositories.OrderErrorNotFound, "", nil)
	}
	s.statusUpdates = append(s.statusUpdates, update)
	order.Status = update.Status
	order.UpdatedAt = update.Now
	s.orders[update.OrderID] = order
	return order, nil
}

func (s *stubOrderRepository) UpdatePayment(_ context.Context, update repositories.OrderPaymentUpdate) (domain.Order, error) {
	order, ok := s.orders[update.OrderID]
	if !ok {
		return domain.Order{}, repositories.NewOrderError(repositories.OrderErrorNotFound, "", nil)
	}
	s.paymentUpdates = append(s.paymentUpdates, update)
	order.PaymentStatus = update.PaymentStatus
	if update.Confirm {
		order.Status = domain.OrderStatusConfirmed
	}
	order.UpdatedAt = update.Now
	s.orders[update.OrderID] = order
	return order, nil
}

func newTestOrderService(t *testing.T, repo *stubOrderRepository) OrderService {
	t.Helper()
	ids := 0
	suffixes := 0
	svc, err := NewOrderService(OrderServiceDeps{
		Orders:  repo,
		Gateway: payments.NewMockGateway(),
		Clock: func() time.Time {
			return time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)
		},
		IDGen: func() string {
			ids++
			return fmt.Sprintf("order-%d", ids)
		},
		SuffixGen: func() string {
			suffixes++
			return fmt.Sprintf("AB12CD%02d", suffixes)
		},
	})
	if err != nil {
		t.Fatalf("NewOrderService: %v", err)
	}
	return svc
}

func validOrderCommand() CreateOrderCommand {
	return CreateOrderCommand{
		Lines: []OrderLine{{ProductID: "p1", Quantity: 2}},
		Customer: domain.CustomerInfo{
			Name:       "Jan Peeters",
			Email:      "jan@example.be",
			Phone:      "+32 470 00 00 00",
			Address:    "Kerkstraat 1",
			City:       "Antwerpen",
			PostalCode: "2000",
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	repo := &stubOrderRepository{}
	svc := newTestOrderService(t, repo)

	order, err := svc.CreateOrder(context.Background(), validOrderCommand())
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.Status != domain.OrderStatusPending || order.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("expected pending statuses got %s/%s", order.Status, order.PaymentStatus)
	}
	if order.PaymentMethod != "mock" {
		t.Fatalf("expected default payment method mock got %q", order.PaymentMethod)
	}
	if order.Customer.Country != "Belgium" {
		t.Fatalf("expected default country Belgium got %q", order.Customer.Country)
	}

	pattern := regexp.MustCompile(`^ORD-20260314-[A-Z0-9]{8}$`)
	if !pattern.MatchString(order.OrderNumber) {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if len(repo.createRequests) != 1 {
		t.Fatalf("expected one create request got %d", len(repo.createRequests))
	}
	if repo.createRequests[0].Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", repo.createRequests[0].Lines)
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	svc := newTestOrderService(t, &stubOrderRepository{})

	cases := []struct {
		name   string
		mutate func(*CreateOrderCommand)
	}{
		{name: "no lines", mutate: func(cmd *CreateOrderCommand) { cmd.Lines = nil }},
		{name: "zero quantity", mutate: func(cmd *CreateOrderCommand) { cmd.Lines[0].Quantity = 0 }},
		{name: "blank product", mutate: func(cmd *CreateOrderCommand) { cmd.Lines[0].ProductID = " " }},
		{name: "no name", mutate: func(cmd *CreateOrderCommand) { cmd.Customer.Name = "" }},
		{name: "bad email", mutate: func(cmd *CreateOrderCommand) { cmd.Customer.Email = "not-an-email" }},
	}
	for _, tc := range cases {
		cmd := validOrderCommand()
		tc.mutate(&cmd)
		if _, err := svc.CreateOrder(context.Background(), cmd); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput got %v", tc.name, err)
		}
	}
}

func TestOrderService_CreateOrder_RegeneratesNumberOnCollision(t *testing.T) {
	repo := &stubOrderRepository{duplicateAttempts: 2}
	svc := newTestOrderService(t, repo)

	order, err := svc.CreateOrder(context.Background(), validOrderCommand())
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if len(repo.createRequests) != 3 {
		t.Fatalf("expected 3 attempts got %d", len(repo.createRequests))
	}
	first := repo.createRequests[0].OrderNumber
	last := repo.createRequests[2].OrderNumber
	if first == last {
		t.Fatalf("expected regenerated order number, both were %q", first)
	}
	if order.OrderNumber != last {
		t.Fatalf("expected final number %q got %q", last, order.OrderNumber)
	}
}

func TestOrderService_CreateOrder_BusinessErrors(t *testing.T) {
	cases := []struct {
		name string
		code repositories.OrderErrorCode
		want error
	}{
		{name: "missing product", code: repositories.OrderErrorProductNotFound, want: ErrProductNotFound},
		{name: "insufficient stock", code: repositories.OrderErrorInsufficientStock, want: ErrInsufficientStock},
	}
	for _, tc := range cases {
		repo := &stubOrderRepository{
			createErr: repositories.NewOrderError(tc.code, "", nil),
		}
		svc := newTestOrderService(t, repo)
		if _, err := svc.CreateOrder(context.Background(), validOrderCommand()); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, err)
		}
	}
}

func TestOrderService_CreateOrder_WrapsInfrastructureFailure(t *testing.T) {
	repo := &stubOrderRepository{createErr: errors.New("deadline exceeded")}
	svc := newTestOrderService(t, repo)

	_, err := svc.CreateOrder(context.Background(), validOrderCommand())
	if !errors.Is(err, ErrOrderCreationFailed) {
		t.Fatalf("expected ErrOrderCreationFailed got %v", err)
	}
	if !strings.Contains(err.Error(), "deadline exceeded") {
		t.Fatalf("expected cause in message got %q", err.Error())
	}
}

func TestOrderService_GetOrder_ByNumber(t *testing.T) {
	repo := &stubOrderRepository{
		orders: map[string]domain.Order{
			"o1": {ID: "o1", OrderNumber: "ORD-20260314-AAAA1111"},
		},
	}
	svc := newTestOrderService(t, repo)

	order, err := svc.GetOrder(context.Background(), "ORD-20260314-AAAA1111")
	if err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("expected order o1 got %s", order.ID)
	}

	if _, err := svc.GetOrder(context.Background(), "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound got %v", err)
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	repo := &stubOrderRepository{
		orders: map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.OrderStatusPending},
		},
	}
	svc := newTestOrderService(t, repo)

	order, err := svc.UpdateOrderStatus(context.Background(), "o1", "shipped")
	if err != nil {
		t.Fatalf("UpdateOrderStatus returned error: %v", err)
	}
	if order.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped got %s", order.Status)
	}

	if _, err := svc.UpdateOrderStatus(context.Background(), "o1", "teleported"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus got %v", err)
	}
}

func TestOrderService_UpdatePaymentStatus_Invalid(t *testing.T) {
	repo := &stubOrderRepository{
		orders: map[string]domain.Order{"o1": {ID: "o1"}},
	}
	svc := newTestOrderService(t, repo)

	if _, err := svc.UpdatePaymentStatus(context.Background(), "o1", "maybe"); !errors.Is(err, ErrInvalidPaymentStatus) {
		t.Fatalf("expected ErrInvalidPaymentStatus got %v", err)
	}

	order, err := svc.UpdatePaymentStatus(context.Background(), "o1", "refunded")
	if err != nil {
		t.Fatalf("UpdatePaymentStatus returned error: %v", err)
	}
	if order.PaymentStatus != domain.PaymentStatusRefunded {
		t.Fatalf("expected refunded got %s", order.PaymentStatus)
	}
}

func TestOrderService_ProcessMockPayment_Success(t *testing.T) {
	repo := &stubOrderRepository{
		orders: map[string]domain.Order{
			"o1": {ID: "o1", Total: 60.49, Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
		},
	}
	svc := newTestOrderService(t, repo)

	result, err := svc.ProcessMockPayment(context.Background(), "o1", true)
	if err != nil {
		t.Fatalf("ProcessMockPayment returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if !strings.HasPrefix(result.TransactionID, "MOCK-") {
		t.Fatalf("expected MOCK- transaction id got %q", result.TransactionID)
	}
	if result.Order.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected paid got %s", result.Order.PaymentStatus)
	}
	if result.Order.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed got %s", result.Order.Status)
	}
}

func TestOrderService_ProcessMockPayment_Failure(t *testing.T) {
	repo := &stubOrderRepository{
		orders: map[string]domain.Order{
			"o1": {ID: "o1", Status: domain.OrderStatusPending, PaymentStatus: domain.PaymentStatusPending},
		},
	}
	svc := newTestOrderService(t, repo)

	result, err := svc.ProcessMockPayment(context.Background(), "o1", false)
	if err != nil {
		t.Fatalf("ProcessMockPayment returned error: %v", err)
	}
	if result.Success {
		t.Fatalf("expected declined charge")
	}
	if result.TransactionID != "" {
		t.Fatalf("expected no transaction id got %q", result.TransactionID)
	}
	if result.Order.PaymentStatus != domain.PaymentStatusFailed {
		t.Fatalf("expected failed got %s", result.Order.PaymentStatus)
	}
	if result.Order.Status != domain.OrderStatusPending {
		t.Fatalf("declined charge must not confirm the order, got %s", result.Order.Status)
	}
}
