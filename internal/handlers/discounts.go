package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/bouwshop/api/internal/domain"
	"github.com/bouwshop/api/internal/platform/httpx"
	"github.com/bouwshop/api/internal/services"
)

// DiscountHandlers exposes discount management and validation endpoints.
type DiscountHandlers struct {
	discounts services.DiscountService
}

// NewDiscountHandlers constructs discount handlers.
func NewDiscountHandlers(discounts services.DiscountService) *DiscountHandlers {
	return &DiscountHandlers{discounts: discounts}
}

// Routes registers discount endpoints under the provided router.
func (h *DiscountHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/discounts", h.listDiscounts)
	r.Post("/discounts", h.createDiscount)
	r.Get("/discounts/validate/{code}", h.validateDiscount)
	r.Delete("/discounts/{discountID}", h.deleteDiscount)
}

type createDiscountRequest struct {
	Code           string               `json:"code"`
	Name           domain.LocalizedText `json:"name"`
	Description    domain.LocalizedText `json:"description"`
	DiscountType   string               `json:"discount_type"`
	DiscountValue  float64              `json:"discount_value"`
	MinOrderAmount float64              `json:"min_order_amount"`
	MaxUses        int                  `json:"max_uses"`
	IsActive       *bool                `json:"is_active"`
	ValidFrom      *time.Time           `json:"valid_from"`
	ValidUntil     *time.Time           `json:"valid_until"`
}

func (h *DiscountHandlers) listDiscounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.discounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "discount service unavailable", http.StatusServiceUnavailable))
		return
	}
	discounts, err := h.discounts.ListDiscounts(ctx, services.DiscountFilter{
		ActiveOnly: queryBool(r, "active_only"),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, discounts)
}

func (h *DiscountHandlers) createDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.discounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "discount service unavailable", http.StatusServiceUnavailable))
		return
	}
	body, err := readLimitedBody(r, maxRequestBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req createDiscountRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	discount, err := h.discounts.CreateDiscount(ctx, services.CreateDiscountCommand{
		Code:           req.Code,
		Name:           req.Name,
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		IsActive:       active,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, discount)
}

type validateDiscountResponse struct {
	Valid          bool            `json:"valid"`
	Code           string          `json:"code"`
	DiscountAmount float64         `json:"discount_amount"`
	FinalAmount    float64         `json:"final_amount"`
	Discount       domain.Discount `json:"discount"`
}

// validateDiscount checks eligibility against an order amount without
// consuming a use.
func (h *DiscountHandlers) validateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.discounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "discount service unavailable", http.StatusServiceUnavailable))
		return
	}
	orderAmount, err := queryFloat(r, "order_amount")
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "order_amount must be a number", http.StatusBadRequest))
		return
	}

	discount, err := h.discounts.ValidateDiscount(ctx, chi.URLParam(r, "code"), orderAmount)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	amount := discountAmount(discount, orderAmount)
	httpx.WriteJSON(w, http.StatusOK, validateDiscountResponse{
		Valid:          true,
		Code:           discount.Code,
		DiscountAmount: amount,
		FinalAmount:    domain.Round2(orderAmount - amount),
		Discount:       discount,
	})
}

// discountAmount converts a discount into a concrete deduction, never
// exceeding the order amount.
func discountAmount(d domain.Discount, orderAmount float64) float64 {
	var amount float64
	switch d.DiscountType {
	case domain.DiscountTypePercentage:
		amount = orderAmount * d.DiscountValue / 100
	case domain.DiscountTypeFixed:
		amount = d.DiscountValue
	}
	if amount > orderAmount {
		amount = orderAmount
	}
	return domain.Round2(amount)
}

func (h *DiscountHandlers) deleteDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.discounts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "discount service unavailable", http.StatusServiceUnavailable))
		return
	}
	if err := h.discounts.DeleteDiscount(ctx, chi.URLParam(r, "discountID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "discount deleted"})
}
