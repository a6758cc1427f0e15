package services

import (
	"context"
	"testing"
	"time"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/repositories"
)

type stubReportingRepository struct {
	counts  repositories.ReportCounts
	revenue float64
	recent  []domain.Order
	orders  []domain.Order
	window  repositories.SalesWindow
}

func (s *stubReportingRepository) Counts(_ context.Context, _ int) (repositories.ReportCounts, error) {
	return s.counts, nil
}

func (s *stubReportingRepository) PaidRevenue(_ context.Context) (float64, error) {
	return s.revenue, nil
}

func (s *stubReportingRepository) RecentOrders(_ context.Context, limit int) ([]domain.Order, error) {
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func (s *stubReportingRepository) OrdersIn(_ context.Context, window repositories.SalesWindow) ([]domain.Order, error) {
	s.window = window
	return s.orders, nil
}

func reportOrder(id string, created time.Time, total float64, items ...domain.OrderItem) domain.Order {
	return domain.Order{
		ID:          id,
		OrderNumber: "ORD-20260314-" + id,
		Items:       items,
		Total:       total,
		Status:      domain.OrderStatusConfirmed,
		CreatedAt:   created,
	}
}

func TestReportingService_Dashboard(t *testing.T) {
	day := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	reports := &stubReportingRepository{
		counts: repositories.ReportCounts{
			Products:         12,
			Orders:           4,
			Customers:        3,
			PendingOrders:    1,
			LowStockProducts: 2,
		},
		revenue: 199.99,
		recent: []domain.Order{
			reportOrder("o1", day, 60.49),
		},
		orders: []domain.Order{
			reportOrder("o1", day, 60.49,
				domain.OrderItem{ProductID: "p1", Quantity: 2, Total: 49.98},
			),
			reportOrder("o2", day.Add(time.Hour), 139.50,
				domain.OrderItem{ProductID: "p2", Quantity: 5, Total: 99.95},
				domain.OrderItem{ProductID: "p1", Quantity: 1, Total: 24.99},
			),
		},
	}
	products := &stubProductRepository{
		products: []domain.Product{
			{ID: "p1", Name: domain.LocalizedText{EN: "Hammer"}},
			{ID: "p2", Name: domain.LocalizedText{EN: "Drill"}},
		},
	}
	svc, err := NewReportingService(ReportingServiceDeps{Reports: reports, Products: products})
	if err != nil {
		t.Fatalf("NewReportingService: %v", err)
	}

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if stats.TotalProducts != 12 || stats.TotalOrders != 4 || stats.TotalCustomers != 3 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.TotalRevenue != 199.99 {
		t.Fatalf("unexpected revenue %v", stats.TotalRevenue)
	}
	if len(stats.RecentOrders) != 1 || stats.RecentOrders[0].OrderNumber != "ORD-20260314-o1" {
		t.Fatalf("unexpected recent orders %+v", stats.RecentOrders)
	}
	if len(stats.TopProducts) != 2 {
		t.Fatalf("expected two top products got %+v", stats.TopProducts)
	}
	// p2 sold 5, p1 sold 3.
	if stats.TopProducts[0].ID != "p2" || stats.TopProducts[0].Sold != 5 {
		t.Fatalf("unexpected top product %+v", stats.TopProducts[0])
	}
	if stats.TopProducts[1].ID != "p1" || stats.TopProducts[1].Sold != 3 {
		t.Fatalf("unexpected second product %+v", stats.TopProducts[1])
	}
}

func TestReportingService_Dashboard_SkipsDeletedProducts(t *testing.T) {
	day := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	reports := &stubReportingRepository{
		orders: []domain.Order{
			reportOrder("o1", day, 10,
				domain.OrderItem{ProductID: "ghost", Quantity: 9, Total: 10},
			),
		},
	}
	svc, err := NewReportingService(ReportingServiceDeps{Reports: reports, Products: &stubProductRepository{}})
	if err != nil {
		t.Fatalf("NewReportingService: %v", err)
	}

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(stats.TopProducts) != 0 {
		t.Fatalf("deleted product must not be ranked, got %+v", stats.TopProducts)
	}
}

func TestReportingService_SalesReport(t *testing.T) {
	day1 := time.Date(2026, time.March, 13, 22, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)
	reports := &stubReportingRepository{
		orders: []domain.Order{
			reportOrder("o1", day1, 60.49,
				domain.OrderItem{ProductID: "p1", Quantity: 2, Total: 49.98},
			),
			reportOrder("o2", day2, 30.24,
				domain.OrderItem{ProductID: "p1", Quantity: 1, Total: 24.99},
			),
			reportOrder("o3", day2, 121.00,
				domain.OrderItem{ProductID: "p2", Quantity: 4, Total: 100.00},
			),
		},
	}
	svc, err := NewReportingService(ReportingServiceDeps{Reports: reports, Products: &stubProductRepository{}})
	if err != nil {
		t.Fatalf("NewReportingService: %v", err)
	}

	report, err := svc.SalesReport(context.Background(), SalesReportFilter{})
	if err != nil {
		t.Fatalf("SalesReport returned error: %v", err)
	}
	if len(report.DailySales) != 2 {
		t.Fatalf("expected two daily buckets got %+v", report.DailySales)
	}
	if report.DailySales[0].Date != "2026-03-13" || report.DailySales[0].Orders != 1 || report.DailySales[0].Revenue != 60.49 {
		t.Fatalf("unexpected first bucket %+v", report.DailySales[0])
	}
	if report.DailySales[1].Date != "2026-03-14" || report.DailySales[1].Orders != 2 || report.DailySales[1].Revenue != 151.24 {
		t.Fatalf("unexpected second bucket %+v", report.DailySales[1])
	}
	if len(report.ProductSales) != 2 {
		t.Fatalf("expected two product lines got %+v", report.ProductSales)
	}
	if report.ProductSales[0].ProductID != "p2" || report.ProductSales[0].Quantity != 4 {
		t.Fatalf("unexpected product line %+v", report.ProductSales[0])
	}
	if report.ProductSales[1].ProductID != "p1" || report.ProductSales[1].Quantity != 3 || report.ProductSales[1].Revenue != 74.97 {
		t.Fatalf("unexpected product line %+v", report.ProductSales[1])
	}
}

func TestReportingService_SalesReport_WindowPassthrough(t *testing.T) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	reports := &stubReportingRepository{}
	svc, err := NewReportingService(ReportingServiceDeps{Reports: reports, Products: &stubProductRepository{}})
	if err != nil {
		t.Fatalf("NewReportingService: %v", err)
	}

	if _, err := svc.SalesReport(context.Background(), SalesReportFilter{StartDate: &from, EndDate: &to}); err != nil {
		t.Fatalf("SalesReport returned error: %v", err)
	}
	if reports.window.From == nil || !reports.window.From.Equal(from) {
		t.Fatalf("window from not forwarded: %+v", reports.window)
	}
	if reports.window.To == nil || !reports.window.To.Equal(to) {
		t.Fatalf("window to not forwarded: %+v", reports.window)
	}

	if _, err := svc.SalesReport(context.Background(), SalesReportFilter{StartDate: &to, EndDate: &from}); err == nil {
		t.Fatalf("expected error for inverted window")
	}
}
