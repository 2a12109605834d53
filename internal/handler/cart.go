package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/your-org/discount-cart/internal/domain/cart"
)

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddToCart(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.carts.AddItem(r.Context(), req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		var infErr *cart.ItemNotFoundError
		var iqErr *cart.InvalidQuantityError
		switch {
		case errors.As(err, &infErr):
			writeError(w, http.StatusNotFound, infErr.Error())
		case errors.As(err, &iqErr):
			writeError(w, http.StatusBadRequest, iqErr.Error())
		default:
			zctx.From(r.Context()).Error("add to cart", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("message")
		e.Str("Item added to cart successfully")
		e.FieldStart("cart")
		encodeCartView(e, view)
		e.ObjEnd()
	})
}

func (h *Handler) handleViewCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	view, err := h.carts.View(r.Context(), userID)
	if err != nil {
		zctx.From(r.Context()).Error("view cart", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("cart")
		encodeCartView(e, view)
		e.ObjEnd()
	})
}
