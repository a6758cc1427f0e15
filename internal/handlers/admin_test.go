package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bouwshop/api/internal/services"
)

type stubReportingService struct {
	dashboardFn func(context.Context) (services.DashboardStats, error)
	reportFn    func(context.Context, services.SalesReportFilter) (services.SalesReport, error)
}

func (s *stubReportingService) Dashboard(ctx context.Context) (services.DashboardStats, error) {
	if s.dashboardFn != nil {
		return s.dashboardFn(ctx)
	}
	return services.DashboardStats{}, errors.New("not implemented")
}

func (s *stubReportingService) SalesReport(ctx context.Context, filter services.SalesReportFilter) (services.SalesReport, error) {
	if s.reportFn != nil {
		return s.reportFn(ctx, filter)
	}
	return services.SalesReport{}, errors.New("not implemented")
}

func newAdminRouter(service services.ReportingService) chi.Router {
	router := chi.NewRouter()
	NewAdminHandlers(service).Routes(router)
	return router
}

func TestAdminHandlersDashboard(t *testing.T) {
	service := &stubReportingService{
		dashboardFn: func(ctx context.Context) (services.DashboardStats, error) {
			return services.DashboardStats{
				TotalProducts:  6,
				TotalOrders:    12,
				TotalRevenue:   845.31,
				TotalCustomers: 4,
				PendingOrders:  3,
				RecentOrders: []services.OrderSummary{
					{ID: "ord-1", OrderNumber: "ORD-20260314-AB12CD34", Total: 60.49, Status: "pending"},
				},
				TopProducts: []services.TopProduct{{ID: "p1", Sold: 9}},
			}, nil
		},
	}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var stats services.DashboardStats
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if stats.TotalRevenue != 845.31 || stats.PendingOrders != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if len(stats.RecentOrders) != 1 || stats.RecentOrders[0].OrderNumber != "ORD-20260314-AB12CD34" {
		t.Fatalf("unexpected recent orders %+v", stats.RecentOrders)
	}
	if len(stats.TopProducts) != 1 || stats.TopProducts[0].Sold != 9 {
		t.Fatalf("unexpected top products %+v", stats.TopProducts)
	}
}

func TestAdminHandlersSalesReportWindow(t *testing.T) {
	startExpected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	endLowerBound := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	var captured services.SalesReportFilter
	service := &stubReportingService{
		reportFn: func(ctx context.Context, filter services.SalesReportFilter) (services.SalesReport, error) {
			captured = filter
			return services.SalesReport{
				DailySales: []services.DailySales{{Date: "2026-03-14", Orders: 2, Revenue: 151.24}},
			}, nil
		},
	}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/admin/reports/sales?start_date=2026-03-01&end_date=2026-03-31", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured.StartDate == nil || !captured.StartDate.Equal(startExpected) {
		t.Fatalf("unexpected start bound %#v", captured.StartDate)
	}
	if captured.EndDate == nil || captured.EndDate.Before(endLowerBound) {
		t.Fatalf("expected end bound to cover the whole day, got %#v", captured.EndDate)
	}

	var report services.SalesReport
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(report.DailySales) != 1 || report.DailySales[0].Revenue != 151.24 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestAdminHandlersSalesReportOpenWindow(t *testing.T) {
	var captured services.SalesReportFilter
	service := &stubReportingService{
		reportFn: func(ctx context.Context, filter services.SalesReportFilter) (services.SalesReport, error) {
			captured = filter
			return services.SalesReport{}, nil
		},
	}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/admin/reports/sales", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured.StartDate != nil || captured.EndDate != nil {
		t.Fatalf("expected open-ended window, got %+v", captured)
	}
}

func TestAdminHandlersSalesReportInvalidDate(t *testing.T) {
	router := newAdminRouter(&stubReportingService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/reports/sales?start_date=14-03-2026", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestAdminHandlersDashboardUnavailable(t *testing.T) {
	service := &stubReportingService{
		dashboardFn: func(ctx context.Context) (services.DashboardStats, error) {
			return services.DashboardStats{}, services.ErrUnavailable
		},
	}
	router := newAdminRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}
