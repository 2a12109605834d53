package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

func (h *Handler) handleGenerateDiscount(w http.ResponseWriter, r *http.Request) {
	result, err := h.admin.GenerateDiscount(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("generate discount", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(result.Generated)
		e.FieldStart("message")
		e.Str(result.Message)
		e.FieldStart("code")
		encodeOptStr(e, result.Code)
		e.FieldStart("currentOrderCount")
		e.Int(result.CurrentOrderCount)
		e.FieldStart("nextDiscountAt")
		e.Int(result.NextDiscountAt)
		e.FieldStart("ordersRemaining")
		if result.OrdersRemaining > 0 {
			e.Int(result.OrdersRemaining)
		} else {
			e.Null()
		}
		e.ObjEnd()
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Statistics(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("statistics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(true)
		e.FieldStart("statistics")
		encodeStatistics(e, stats)
		e.ObjEnd()
	})
}
