package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/your-org/discount-cart/internal/domain/admin"
	"github.com/your-org/discount-cart/internal/domain/cart"
	"github.com/your-org/discount-cart/internal/domain/discount"
	"github.com/your-org/discount-cart/internal/domain/order"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("success")
		e.Bool(false)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// Money is rendered as a plain JSON number with two decimal places.
func encodeMoney(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.StringFixed(2)))
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339Nano))
}

func encodeOptStr(e *jx.Encoder, s string) {
	if s == "" {
		e.Null()
		return
	}
	e.Str(s)
}

func encodeCartView(e *jx.Encoder, v *cart.View) {
	e.ObjStart()
	e.FieldStart("userId")
	e.Str(v.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, line := range v.Lines {
		e.ObjStart()
		e.FieldStart("itemId")
		e.Str(line.ItemID)
		e.FieldStart("name")
		e.Str(line.Name)
		e.FieldStart("price")
		encodeMoney(e, line.Price)
		e.FieldStart("quantity")
		e.Int(line.Quantity)
		e.FieldStart("subtotal")
		encodeMoney(e, line.Subtotal)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	encodeMoney(e, v.Subtotal)
	// An open cart never carries a discount; codes apply at checkout only.
	e.FieldStart("discountCode")
	e.Null()
	e.FieldStart("discountAmount")
	encodeMoney(e, decimal.Zero)
	e.FieldStart("total")
	encodeMoney(e, v.Total)
	e.ObjEnd()
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.ObjStart()
	e.FieldStart("orderId")
	e.Str(o.ID)
	e.FieldStart("userId")
	e.Str(o.UserID)
	e.FieldStart("items")
	e.ArrStart()
	for _, line := range o.Lines {
		e.ObjStart()
		e.FieldStart("itemId")
		e.Str(line.ItemID)
		e.FieldStart("name")
		e.Str(line.Name)
		e.FieldStart("price")
		encodeMoney(e, line.Price)
		e.FieldStart("quantity")
		e.Int(line.Quantity)
		e.FieldStart("subtotal")
		encodeMoney(e, line.Subtotal)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("subtotal")
	encodeMoney(e, o.Subtotal)
	e.FieldStart("discountCode")
	encodeOptStr(e, o.DiscountCode)
	e.FieldStart("discountAmount")
	encodeMoney(e, o.DiscountAmount)
	e.FieldStart("total")
	encodeMoney(e, o.Total)
	e.FieldStart("createdAt")
	encodeTime(e, o.CreatedAt)
	e.ObjEnd()
}

func encodeDiscountCode(e *jx.Encoder, c discount.Code) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(c.Code)
	e.FieldStart("isUsed")
	e.Bool(c.Used)
	e.FieldStart("usedByOrder")
	encodeOptStr(e, c.UsedByOrder)
	e.FieldStart("createdAt")
	encodeTime(e, c.CreatedAt)
	e.FieldStart("usedAt")
	if c.UsedAt == nil {
		e.Null()
	} else {
		encodeTime(e, *c.UsedAt)
	}
	e.ObjEnd()
}

func encodeStatistics(e *jx.Encoder, st *admin.Statistics) {
	e.ObjStart()
	e.FieldStart("totalItemsPurchased")
	e.Int(st.TotalItemsPurchased)
	e.FieldStart("totalPurchaseAmount")
	encodeMoney(e, st.TotalPurchaseAmount)
	e.FieldStart("totalDiscountAmount")
	encodeMoney(e, st.TotalDiscountAmount)
	e.FieldStart("discountCodes")
	e.ArrStart()
	for _, c := range st.Codes {
		encodeDiscountCode(e, c)
	}
	e.ArrEnd()
	e.ObjEnd()
}
