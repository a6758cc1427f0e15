package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"

	domain "github.com/bouwshop/api/internal/domain"
	pfirestore "github.com/bouwshop/api/internal/platform/firestore"
	"github.com/bouwshop/api/internal/repositories"
)

// ReportingRepository serves the dashboard and sales aggregations. Every
// call derives from the live collections; nothing is materialised.
type ReportingRepository struct {
	provider  *pfirestore.Provider
	orders    *pfirestore.Collection[orderDocument]
	products  *pfirestore.Collection[productDocument]
	customers *pfirestore.Collection[customerDocument]
}

// NewReportingRepository constructs a ReportingRepository bound to the provider.
func NewReportingRepository(provider *pfirestore.Provider) (*ReportingRepository, error) {
	if provider == nil {
		return nil, errors.New("reporting repository requires firestore provider")
	}
	return &ReportingRepository{
		provider:  provider,
		orders:    pfirestore.NewCollection[orderDocument](provider, ordersCollection),
		products:  pfirestore.NewCollection[productDocument](provider, productsCollection),
		customers: pfirestore.NewCollection[customerDocument](provider, customersCollection),
	}, nil
}

func (r *ReportingRepository) Counts(ctx context.Context, lowStockThreshold int) (repositories.ReportCounts, error) {
	if r == nil || r.provider == nil {
		return repositories.ReportCounts{}, errors.New("reporting repository not initialised")
	}

	var counts repositories.ReportCounts

	products, err := r.products.Query(ctx, nil)
	if err != nil {
		return repositories.ReportCounts{}, fmt.Errorf("reporting.counts: %w", err)
	}
	counts.Products = len(products)
	for _, doc := range products {
		if doc.Data.Stock < lowStockThreshold {
			counts.LowStockProducts++
		}
	}

	orders, err := r.orders.Query(ctx, nil)
	if err != nil {
		return repositories.ReportCounts{}, fmt.Errorf("reporting.counts: %w", err)
	}
	counts.Orders = len(orders)
	for _, doc := range orders {
		if doc.Data.Status == string(domain.OrderStatusPending) {
			counts.PendingOrders++
		}
	}

	customers, err := r.customers.Query(ctx, nil)
	if err != nil {
		return repositories.ReportCounts{}, fmt.Errorf("reporting.counts: %w", err)
	}
	counts.Customers = len(customers)

	return counts, nil
}

// PaidRevenue sums the total of every order whose payment status is paid.
func (r *ReportingRepository) PaidRevenue(ctx context.Context) (float64, error) {
	if r == nil || r.provider == nil {
		return 0, errors.New("reporting repository not initialised")
	}

	docs, err := r.orders.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("paymentStatus", "==", string(domain.PaymentStatusPaid))
	})
	if err != nil {
		return 0, fmt.Errorf("reporting.paid_revenue: %w", err)
	}

	var revenue float64
	for _, doc := range docs {
		revenue += doc.Data.Total
	}
	return domain.Round2(revenue), nil
}

func (r *ReportingRepository) RecentOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("reporting repository not initialised")
	}
	if limit <= 0 {
		limit = 5
	}

	docs, err := r.orders.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("createdAt", firestore.Desc).Limit(limit)
	})
	if err != nil {
		return nil, fmt.Errorf("reporting.recent_orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.Data.toDomain(doc.ID))
	}
	return orders, nil
}

// OrdersIn returns orders created inside the window, oldest first. Nil
// bounds leave that side open.
func (r *ReportingRepository) OrdersIn(ctx context.Context, window repositories.SalesWindow) ([]domain.Order, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("reporting repository not initialised")
	}

	docs, err := r.orders.Query(ctx, func(q firestore.Query) firestore.Query {
		if window.From != nil {
			q = q.Where("createdAt", ">=", window.From.UTC())
		}
		if window.To != nil {
			q = q.Where("createdAt", "<=", window.To.UTC())
		}
		return q.OrderBy("createdAt", firestore.Asc)
	})
	if err != nil {
		return nil, fmt.Errorf("reporting.orders_in: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.Data.toDomain(doc.ID))
	}
	return orders, nil
}
