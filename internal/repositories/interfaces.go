package repositories

import (
	"context"
	"time"

	domain "github.com/bouwshop/api/internal/domain"
)

// RepositoryError lets services classify persistence failures without
// depending on the backing store.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CategoryListQuery filters category listings.
type CategoryListQuery struct {
	ActiveOnly bool
	Limit      int
}

// CategoryRepository persists catalog categories.
type CategoryRepository interface {
	List(ctx context.Context, query CategoryListQuery) ([]domain.Category, error)
	FindByID(ctx context.Context, categoryID string) (domain.Category, error)
	Insert(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, categoryID string) error
}

// ProductListQuery filters and paginates product listings.
type ProductListQuery struct {
	CategoryID string
	Search     string
	ActiveOnly bool
	Skip       int
	Limit      int
}

// StockAdjustment applies a signed delta to a product's stock.
type StockAdjustment struct {
	ProductID string
	Delta     int
	Now       time.Time
}

// ProductRepository persists catalog products, including the conditional
// stock adjustment primitive the order workflow builds on.
type ProductRepository interface {
	List(ctx context.Context, query ProductListQuery) ([]domain.Product, error)
	FindByID(ctx context.Context, productID string) (domain.Product, error)
	Insert(ctx context.Context, product domain.Product) error
	Update(ctx context.Context, product domain.Product) error
	// AdjustStock applies the delta transactionally and returns the new
	// stock level; the resulting stock is never allowed below zero.
	AdjustStock(ctx context.Context, adjustment StockAdjustment) (int, error)
	Delete(ctx context.Context, productID string) error
}

// CartLine is an unpriced (product, quantity) pair submitted at order time.
type CartLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderRequest carries everything the repository needs to run the
// all-or-nothing order creation unit: product validation, price snapshots,
// stock decrements and the customer ledger upsert happen in one transaction.
type CreateOrderRequest struct {
	OrderID       string
	OrderNumber   string
	Lines         []CartLine
	Customer      domain.CustomerInfo
	PaymentMethod string
	Notes         string
	// CustomerID is used only when no ledger entry exists for the email yet.
	CustomerID string
	Now        time.Time
}

// OrderStatusUpdate transitions an order's fulfilment status.
type OrderStatusUpdate struct {
	OrderID string
	Status  domain.OrderStatus
	Now     time.Time
}

// OrderPaymentUpdate transitions an order's payment status. When Confirm is
// set the fulfilment status moves to confirmed in the same write.
type OrderPaymentUpdate struct {
	OrderID       string
	PaymentStatus domain.PaymentStatus
	Confirm       bool
	Now           time.Time
}

// OrderListQuery filters and paginates order listings, newest first.
type OrderListQuery struct {
	Status domain.OrderStatus
	Skip   int
	Limit  int
}

// OrderRepository persists orders and owns every stock-touching transition.
type OrderRepository interface {
	Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error)
	// Find resolves by document id first, then by order number.
	Find(ctx context.Context, idOrNumber string) (domain.Order, error)
	List(ctx context.Context, query OrderListQuery) ([]domain.Order, error)
	// UpdateStatus restores item stock when transitioning into cancelled
	// from a non-cancelled status, in the same transaction.
	UpdateStatus(ctx context.Context, update OrderStatusUpdate) (domain.Order, error)
	UpdatePayment(ctx context.Context, update OrderPaymentUpdate) (domain.Order, error)
}

// CustomerListQuery paginates ledger listings, newest first.
type CustomerListQuery struct {
	Skip  int
	Limit int
}

// CustomerRepository reads the per-email order history ledger. Writes happen
// exclusively through the order creation transaction.
type CustomerRepository interface {
	List(ctx context.Context, query CustomerListQuery) ([]domain.Customer, error)
	// Find resolves by document id first, then by email.
	Find(ctx context.Context, idOrEmail string) (domain.Customer, error)
}

// DiscountListQuery filters discount listings.
type DiscountListQuery struct {
	ActiveOnly bool
	Limit      int
}

// DiscountRepository persists discount codes and their usage counters.
type DiscountRepository interface {
	List(ctx context.Context, query DiscountListQuery) ([]domain.Discount, error)
	// FindByCode looks up an active discount by its canonical uppercase code.
	FindByCode(ctx context.Context, code string) (domain.Discount, error)
	// Insert enforces case-insensitive code uniqueness transactionally.
	Insert(ctx context.Context, discount domain.Discount) error
	Delete(ctx context.Context, discountID string) error
	// IncrementUsage bumps the usage counter, honouring the usage cap.
	IncrementUsage(ctx context.Context, code string) (domain.Discount, error)
}

// ReportCounts is the set of collection tallies shown on the dashboard.
type ReportCounts struct {
	Products         int
	Orders           int
	Customers        int
	PendingOrders    int
	LowStockProducts int
}

// SalesWindow bounds a sales report; nil bounds are open-ended.
type SalesWindow struct {
	From *time.Time
	To   *time.Time
}

// ReportingRepository serves the read-only aggregation queries. Nothing is
// materialised; every call derives from the live collections.
type ReportingRepository interface {
	Counts(ctx context.Context, lowStockThreshold int) (ReportCounts, error)
	PaidRevenue(ctx context.Context) (float64, error)
	RecentOrders(ctx context.Context, limit int) ([]domain.Order, error)
	OrdersIn(ctx context.Context, window SalesWindow) ([]domain.Order, error)
}
