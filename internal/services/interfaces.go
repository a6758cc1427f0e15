package services

import (
	"context"
	"time"

	domain "github.com/bouwshop/api/internal/domain"
)

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	ActiveOnly bool
}

// UpsertCategoryCommand carries the mutable category fields. Updates are a
// full replace of these fields.
type UpsertCategoryCommand struct {
	Name        domain.LocalizedText
	Description domain.LocalizedText
	ParentID    string
	IsActive    bool
	SortOrder   int
}

// ProductFilter narrows and paginates product listings.
type ProductFilter struct {
	CategoryID string
	Search     string
	ActiveOnly bool
	Skip       int
	Limit      int
}

// CreateProductCommand carries a new product's fields.
type CreateProductCommand struct {
	Name           domain.LocalizedText
	Description    domain.LocalizedText
	Price          float64
	Stock          int
	SKU            string
	CategoryID     string
	IsActive       bool
	Unit           string
	Brand          string
	Specifications map[string]string
}

// UpdateProductCommand carries a partial product update; nil fields are
// left untouched.
type UpdateProductCommand struct {
	Name           *domain.LocalizedText
	Description    *domain.LocalizedText
	Price          *float64
	Stock          *int
	SKU            *string
	CategoryID     *string
	IsActive       *bool
	Unit           *string
	Brand          *string
	Specifications map[string]string
}

// CatalogService manages categories, products and manual stock adjustments.
type CatalogService interface {
	ListCategories(ctx context.Context, filter CategoryFilter) ([]domain.Category, error)
	GetCategory(ctx context.Context, categoryID string) (domain.Category, error)
	CreateCategory(ctx context.Context, cmd UpsertCategoryCommand) (domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, cmd UpsertCategoryCommand) (domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, cmd UpdateProductCommand) (domain.Product, error)
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
	DeleteProduct(ctx context.Context, productID string) error
}

// OrderLine is an unpriced cart entry submitted at order time.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// CreateOrderCommand carries everything needed to place an order.
type CreateOrderCommand struct {
	Lines         []OrderLine
	Customer      domain.CustomerInfo
	PaymentMethod string
	Notes         string
}

// OrderFilter narrows and paginates order listings, newest first.
type OrderFilter struct {
	Status string
	Skip   int
	Limit  int
}

// PaymentResult is the outcome of a mock gateway charge.
type PaymentResult struct {
	Success       bool
	Message       string
	TransactionID string
	Order         domain.Order
}

// OrderService owns the order lifecycle: placement, lookups and the
// status / payment state machine including cancellation restock.
type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (domain.Order, error)
	GetOrder(ctx context.Context, idOrNumber string) (domain.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID, paymentStatus string) (domain.Order, error)
	ProcessMockPayment(ctx context.Context, orderID string, success bool) (PaymentResult, error)
}

// CreateDiscountCommand carries a new discount's fields.
type CreateDiscountCommand struct {
	Code           string
	Name           domain.LocalizedText
	Description    domain.LocalizedText
	DiscountType   string
	DiscountValue  float64
	MinOrderAmount float64
	MaxUses        int
	IsActive       bool
	ValidFrom      *time.Time
	ValidUntil     *time.Time
}

// DiscountFilter narrows discount listings.
type DiscountFilter struct {
	ActiveOnly bool
}

// DiscountService manages promotional codes: CRUD, validation against an
// order amount, and explicit redemption.
type DiscountService interface {
	ListDiscounts(ctx context.Context, filter DiscountFilter) ([]domain.Discount, error)
	CreateDiscount(ctx context.Context, cmd CreateDiscountCommand) (domain.Discount, error)
	DeleteDiscount(ctx context.Context, discountID string) error
	// ValidateDiscount checks the full eligibility chain without touching
	// the usage counter.
	ValidateDiscount(ctx context.Context, code string, orderAmount float64) (domain.Discount, error)
	// RedeemDiscount increments the usage counter atomically.
	RedeemDiscount(ctx context.Context, code string) (domain.Discount, error)
}

// CustomerFilter paginates ledger listings, newest first.
type CustomerFilter struct {
	Skip  int
	Limit int
}

// CustomerService reads the customer order-history ledger.
type CustomerService interface {
	ListCustomers(ctx context.Context, filter CustomerFilter) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, idOrEmail string) (domain.Customer, error)
}

// OrderSummary is the condensed order shape shown on the dashboard.
type OrderSummary struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// TopProduct ranks a product by cumulative ordered quantity.
type TopProduct struct {
	ID   string               `json:"id"`
	Name domain.LocalizedText `json:"name"`
	Sold int                  `json:"sold"`
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	TotalProducts    int            `json:"total_products"`
	TotalOrders      int            `json:"total_orders"`
	TotalRevenue     float64        `json:"total_revenue"`
	TotalCustomers   int            `json:"total_customers"`
	PendingOrders    int            `json:"pending_orders"`
	LowStockProducts int            `json:"low_stock_products"`
	RecentOrders     []OrderSummary `json:"recent_orders"`
	TopProducts      []TopProduct   `json:"top_products"`
}

// DailySales is one calendar-day bucket of the sales report.
type DailySales struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ProductSales is one per-product line of the sales report.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// SalesReport bundles the date-ranged sales aggregations.
type SalesReport struct {
	DailySales   []DailySales   `json:"daily_sales"`
	ProductSales []ProductSales `json:"product_sales"`
}

// SalesReportFilter bounds the report window; nil bounds are open-ended.
type SalesReportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// ReportingService serves the admin dashboard and sales reports.
type ReportingService interface {
	Dashboard(ctx context.Context) (DashboardStats, error)
	SalesReport(ctx context.Context, filter SalesReportFilter) (SalesReport, error)
}

// SeedResult reports what a seed run inserted.
type SeedResult struct {
	Seeded     bool
	Categories int
	Products   int
	Discounts  int
}

// SeedService loads the sample catalog into an empty store.
type SeedService interface {
	Seed(ctx context.Context) (SeedResult, error)
}
