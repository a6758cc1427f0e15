package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/platform/httpx"
	"github.com/bouwshop/api/internal/platform/pagination"
	"github.com/bouwshop/api/internal/services"
)

// OrderHandlers exposes order placement and lifecycle endpoints.
type OrderHandlers struct {
	orders services.OrderService
}

// NewOrderHandlers constructs order handlers.
func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Routes registers order endpoints under the provided router.
func (h *OrderHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{orderID}", h.getOrder)
	r.Patch("/orders/{orderID}/status", h.updateStatus)
	r.Patch("/orders/{orderID}/payment", h.updatePayment)
}

type createOrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	Items         []createOrderLineRequest `json:"items"`
	Customer      domain.CustomerInfo      `json:"customer"`
	PaymentMethod string                   `json:"payment_method"`
	Notes         string                   `json:"notes"`
}

func (h *OrderHandlers) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}
	body, err := readLimitedBody(r, maxRequestBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req createOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	lines := make([]services.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, services.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.orders.CreateOrder(ctx, services.CreateOrderCommand{
		Lines:         lines,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, order)
}

func (h *OrderHandlers) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}
	params, err := pagination.FromRequest(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	orders, err := h.orders.ListOrders(ctx, services.OrderFilter{
		Status: r.URL.Query().Get("status"),
		Skip:   params.Skip,
		Limit:  params.Limit,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

// getOrder resolves either a document id or an order number.
func (h *OrderHandlers) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}
	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

// statusValue pulls a transition value from the query string, falling back
// to a JSON body {"<field>": "..."} when the parameter is absent.
func statusValue(r *http.Request, field string) (string, error) {
	if raw := strings.TrimSpace(r.URL.Query().Get(field)); raw != "" {
		return raw, nil
	}
	body, err := readLimitedBody(r, maxRequestBodySize)
	if err != nil {
		return "", err
	}
	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errEmptyBody
	}
	return strings.TrimSpace(payload[field]), nil
}

func (h *OrderHandlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}
	status, err := statusValue(r, "status")
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	order, err := h.orders.UpdateOrderStatus(ctx, chi.URLParam(r, "orderID"), status)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}

func (h *OrderHandlers) updatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}
	paymentStatus, err := statusValue(r, "payment_status")
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	order, err := h.orders.UpdatePaymentStatus(ctx, chi.URLParam(r, "orderID"), paymentStatus)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, order)
}
