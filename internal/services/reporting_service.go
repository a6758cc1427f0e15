package services

import (
	"context"
	"fmt"
	"sort"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

const (
	lowStockThreshold  = 10
	recentOrdersLimit  = 5
	topProductsLimit   = 5
	salesReportDateFmt = "2006-01-02"
)

// ReportingServiceDeps bundles dependencies required to construct a ReportingService implementation.
type ReportingServiceDeps struct {
	Reports  repositories.ReportingRepository
	Products repositories.ProductRepository
}

type reportingService struct {
	reports  repositories.ReportingRepository
	products repositories.ProductRepository
}

// NewReportingService wires a ReportingService backed by the provided repositories.
func NewReportingService(deps ReportingServiceDeps) (ReportingService, error) {
	if deps.Reports == nil || deps.Products == nil {
		return nil, ErrRepositoryMissing
	}
	return &reportingService{reports: deps.Reports, products: deps.Products}, nil
}

// Dashboard assembles the admin dashboard: collection tallies, paid revenue,
// the five most recent orders and the five best-selling products by
// cumulative ordered quantity.
func (s *reportingService) Dashboard(ctx context.Context) (DashboardStats, error) {
	if s == nil || s.reports == nil {
		return DashboardStats{}, ErrRepositoryMissing
	}

	counts, err := s.reports.Counts(ctx, lowStockThreshold)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("reporting service: counts: %w", err)
	}
	revenue, err := s.reports.PaidRevenue(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("reporting service: revenue: %w", err)
	}
	recent, err := s.reports.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("reporting service: recent orders: %w", err)
	}
	allOrders, err := s.reports.OrdersIn(ctx, repositories.SalesWindow{})
	if err != nil {
		return DashboardStats{}, fmt.Errorf("reporting service: orders: %w", err)
	}

	stats := DashboardStats{
		TotalProducts:    counts.Products,
		TotalOrders:      counts.Orders,
		TotalRevenue:     revenue,
		TotalCustomers:   counts.Customers,
		PendingOrders:    counts.PendingOrders,
		LowStockProducts: counts.LowStockProducts,
		RecentOrders:     make([]OrderSummary, 0, len(recent)),
		TopProducts:      []TopProduct{},
	}
	for _, order := range recent {
		stats.RecentOrders = append(stats.RecentOrders, OrderSummary{
			ID:          order.ID,
			OrderNumber: order.OrderNumber,
			Total:       order.Total,
			Status:      string(order.Status),
			CreatedAt:   order.CreatedAt,
		})
	}

	sold := make(map[string]int)
	for _, order := range allOrders {
		for _, item := range order.Items {
			sold[item.ProductID] += item.Quantity
		}
	}
	type rankedProduct struct {
		id   string
		sold int
	}
	ranked := make([]rankedProduct, 0, len(sold))
	for id, quantity := range sold {
		ranked = append(ranked, rankedProduct{id: id, sold: quantity})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].sold != ranked[j].sold {
			return ranked[i].sold > ranked[j].sold
		}
		return ranked[i].id < ranked[j].id
	})
	for _, entry := range ranked {
		if len(stats.TopProducts) >= topProductsLimit {
			break
		}
		product, err := s.products.FindByID(ctx, entry.id)
		if err != nil {
			// Deleted products simply drop out of the ranking.
			continue
		}
		stats.TopProducts = append(stats.TopProducts, TopProduct{
			ID:   entry.id,
			Name: product.Name,
			Sold: entry.sold,
		})
	}
	return stats, nil
}

// SalesReport buckets orders in the window by calendar day and by product.
func (s *reportingService) SalesReport(ctx context.Context, filter SalesReportFilter) (SalesReport, error) {
	if s == nil || s.reports == nil {
		return SalesReport{}, ErrRepositoryMissing
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return SalesReport{}, fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}

	orders, err := s.reports.OrdersIn(ctx, repositories.SalesWindow{
		From: filter.StartDate,
		To:   filter.EndDate,
	})
	if err != nil {
		return SalesReport{}, fmt.Errorf("reporting service: sales report: %w", err)
	}

	daily := make(map[string]*DailySales)
	perProduct := make(map[string]*ProductSales)
	for _, order := range orders {
		day := order.CreatedAt.UTC().Format(salesReportDateFmt)
		bucket, ok := daily[day]
		if !ok {
			bucket = &DailySales{Date: day}
			daily[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue = domain.Round2(bucket.Revenue + order.Total)

		for _, item := range order.Items {
			line, ok := perProduct[item.ProductID]
			if !ok {
				line = &ProductSales{ProductID: item.ProductID}
				perProduct[item.ProductID] = line
			}
			line.Quantity += item.Quantity
			line.Revenue = domain.Round2(line.Revenue + item.Total)
		}
	}

	report := SalesReport{
		DailySales:   make([]DailySales, 0, len(daily)),
		ProductSales: make([]ProductSales, 0, len(perProduct)),
	}
	for _, bucket := range daily {
		report.DailySales = append(report.DailySales, *bucket)
	}
	sort.Slice(report.DailySales, func(i, j int) bool {
		return report.DailySales[i].Date < report.DailySales[j].Date
	})
	for _, line := range perProduct {
		report.ProductSales = append(report.ProductSales, *line)
	}
	sort.Slice(report.ProductSales, func(i, j int) bool {
		if report.ProductSales[i].Quantity != report.ProductSales[j].Quantity {
			return report.ProductSales[i].Quantity > report.ProductSales[j].Quantity
		}
		return report.ProductSales[i].ProductID < report.ProductSales[j].ProductID
	})
	return report, nil
}
