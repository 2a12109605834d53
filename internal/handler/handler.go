// Package handler exposes the cart, checkout, and admin services over HTTP.
// It owns request decoding, input-shape validation, error-to-status mapping,
// and response shaping; all business rules live in the domain services.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/your-org/discount-cart/internal/domain/admin"
	"github.com/your-org/discount-cart/internal/domain/cart"
	"github.com/your-org/discount-cart/internal/domain/order"
)

// Handler holds the domain services behind the HTTP API.
type Handler struct {
	carts    *cart.Service
	checkout *order.Service
	admin    *admin.Service
	version  string
}

// NewHandler constructs a Handler with the required domain services.
func NewHandler(carts *cart.Service, checkout *order.Service, adm *admin.Service, version string) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkout,
		admin:    adm,
		version:  version,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Post("/cart", h.handleAddToCart)
		r.Get("/cart/{userID}", h.handleViewCart)
		r.Post("/checkout", h.handleCheckout)
		r.Route("/admin", func(r chi.Router) {
			r.Post("/generate-discount", h.handleGenerateDiscount)
			r.Get("/stats", h.handleStats)
		})
	})

	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str("Discount Cart API is running")
		e.FieldStart("version")
		e.Str(h.version)
		e.ObjEnd()
	})
}
