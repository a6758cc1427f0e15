package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/platform/httpx"
	"github.com/bouwshop/api/internal/services"
)

// PaymentHandlers exposes the mock payment endpoint.
type PaymentHandlers struct {
	orders services.OrderService
}

// NewPaymentHandlers constructs payment handlers.
func NewPaymentHandlers(orders services.OrderService) *PaymentHandlers {
	return &PaymentHandlers{orders: orders}
}

// Routes registers payment endpoints under the provided router.
func (h *PaymentHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/payment/mock", h.mockPayment)
}

type mockPaymentRequest struct {
	OrderID string `json:"order_id"`
	Success *bool  `json:"success"`
}

type mockPaymentResponse struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Order         domain.Order `json:"order"`
}

// mockPayment settles an order through the simulated gateway. Parameters
// come from the query string or a JSON body; success defaults to true.
func (h *PaymentHandlers) mockPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.orders == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "order service unavailable", http.StatusServiceUnavailable))
		return
	}

	orderID := strings.TrimSpace(r.URL.Query().Get("order_id"))
	success := true
	if raw := strings.TrimSpace(r.URL.Query().Get("success")); raw != "" {
		success = queryBool(r, "success")
	}

	if orderID == "" {
		body, err := readLimitedBody(r, maxRequestBodySize)
		if err != nil {
			writeBodyError(ctx, w, err)
			return
		}
		var req mockPaymentRequest
		if err := json.Unmarshal(body, &req); err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
			return
		}
		orderID = strings.TrimSpace(req.OrderID)
		if req.Success != nil {
			success = *req.Success
		}
	}
	if orderID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order_id is required", http.StatusBadRequest))
		return
	}

	result, err := h.orders.ProcessMockPayment(ctx, orderID, success)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, mockPaymentResponse{
		Success:       result.Success,
		Message:       result.Message,
		TransactionID: result.TransactionID,
		Order:         result.Order,
	})
}
