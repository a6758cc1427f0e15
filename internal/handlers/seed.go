package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bouwshop/api/internal/platform/httpx"
	"github.com/bouwshop/api/internal/services"
)

// SeedHandlers exposes the sample data bootstrap endpoint.
type SeedHandlers struct {
	seed services.SeedService
}

// NewSeedHandlers constructs seed handlers.
func NewSeedHandlers(seed services.SeedService) *SeedHandlers {
	return &SeedHandlers{seed: seed}
}

// Routes registers the seed endpoint under the provided router.
func (h *SeedHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/seed", h.runSeed)
}

type seedResponse struct {
	Message    string `json:"message"`
	Categories int    `json:"categories,omitempty"`
	Products   int    `json:"products,omitempty"`
	Discounts  int    `json:"discounts,omitempty"`
}

func (h *SeedHandlers) runSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.seed == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "seed service unavailable", http.StatusServiceUnavailable))
		return
	}
	result, err := h.seed.Seed(ctx)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if !result.Seeded {
		httpx.WriteJSON(w, http.StatusOK, seedResponse{Message: "database already seeded"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, seedResponse{
		Message:    "sample data loaded",
		Categories: result.Categories,
		Products:   result.Products,
		Discounts:  result.Discounts,
	})
}
