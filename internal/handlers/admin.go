package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bouwshop/api/internal/platform/httpx"
	"github.com/bouwshop/api/internal/services"
)

const reportDateFormat = "2006-01-02"

// AdminHandlers exposes the dashboard and sales report endpoints.
type AdminHandlers struct {
	reporting services.ReportingService
}

// NewAdminHandlers constructs admin handlers.
func NewAdminHandlers(reporting services.ReportingService) *AdminHandlers {
	return &AdminHandlers{reporting: reporting}
}

// Routes registers admin endpoints under the provided router.
func (h *AdminHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/admin/dashboard", h.dashboard)
	r.Get("/admin/reports/sales", h.salesReport)
}

func (h *AdminHandlers) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reporting == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "reporting service unavailable", http.StatusServiceUnavailable))
		return
	}
	stats, err := h.reporting.Dashboard(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(reportDateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (h *AdminHandlers) salesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.reporting == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "reporting service unavailable", http.StatusServiceUnavailable))
		return
	}

	start, err := queryDate(r, "start_date")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "start_date must be formatted YYYY-MM-DD", http.StatusBadRequest))
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "end_date must be formatted YYYY-MM-DD", http.StatusBadRequest))
		return
	}
	// An end date bounds the whole day, not its first instant.
	if end != nil {
		bounded := end.Add(24*time.Hour - time.Nanosecond)
		end = &bounded
	}

	report, err := h.reporting.SalesReport(ctx, services.SalesReportFilter{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, report)
}
