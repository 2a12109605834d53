package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/your-org/discount-cart/internal/domain/order"
)

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckout(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.checkout.Checkout(r.Context(), req.UserID, req.DiscountCode)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, order.ErrNoValidItems):
			writeError(w, http.StatusBadRequest, "Cart contains no valid items")
		default:
			zctx.From(r.Context()).Error("checkout", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	message := "Order placed successfully"
	if result.NewCode != "" {
		message += fmt.Sprintf(". New discount code '%s' generated!", result.NewCode)
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("message")
		e.Str(message)
		e.FieldStart("order")
		encodeOrder(e, result.Order)
		e.FieldStart("newDiscountCode")
		encodeOptStr(e, result.NewCode)
		e.ObjEnd()
	})
}
