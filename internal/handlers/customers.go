package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bouwshop/api/internal/platform/httpx"
	"github.com/bouwshop/api/internal/platform/pagination"
	"github.com/bouwshop/api/internal/services"
)

// CustomerHandlers exposes read-only customer ledger endpoints.
type CustomerHandlers struct {
	customers services.CustomerService
}

// NewCustomerHandlers constructs customer handlers.
func NewCustomerHandlers(customers services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customers: customers}
}

// Routes registers customer endpoints under the provided router.
func (h *CustomerHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/customers", h.listCustomers)
	r.Get("/customers/{customerID}", h.getCustomer)
}

func (h *CustomerHandlers) listCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.customers == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "customer service unavailable", http.StatusServiceUnavailable))
		return
	}
	params, err := pagination.FromRequest(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	customers, err := h.customers.ListCustomers(ctx, services.CustomerFilter{
		Skip:  params.Skip,
		Limit: params.Limit,
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customers)
}

// getCustomer resolves either a document id or an email address.
func (h *CustomerHandlers) getCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.customers == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "customer service unavailable", http.StatusServiceUnavailable))
		return
	}
	customer, err := h.customers.GetCustomer(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customer)
}
