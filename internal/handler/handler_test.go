package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/discount-cart/internal/domain/admin"
	"github.com/your-org/discount-cart/internal/domain/cart"
	"github.com/your-org/discount-cart/internal/domain/discount"
	"github.com/your-org/discount-cart/internal/domain/order"
	"github.com/your-org/discount-cart/internal/handler"
	"github.com/your-org/discount-cart/internal/seed"
	"github.com/your-org/discount-cart/internal/storage/memory"
)

// newServer wires the full API over fresh in-memory stores seeded with the
// built-in catalog.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalogStore := memory.NewCatalogStore()
	require.NoError(t, catalogStore.Reseed(context.Background(), seed.Items()))

	carts := memory.NewCartStore()
	ledger := memory.NewDiscountLedger()
	orders := memory.NewOrderLog()
	issuer := discount.NewIssuer(ledger, "DISCOUNT")

	cartSvc := cart.NewService(catalogStore, carts)
	checkoutSvc := order.NewService(catalogStore, carts, ledger, issuer, orders, order.Config{
		NthOrder:        5,
		DiscountPercent: 10,
	})
	adminSvc := admin.NewService(orders, ledger, issuer, 5)

	srv := httptest.NewServer(handler.NewHandler(cartSvc, checkoutSvc, adminSvc, "test").Routes())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (int, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func addToCart(t *testing.T, srv *httptest.Server, userID, itemID string, quantity int) map[string]any {
	t.Helper()

	body := fmt.Sprintf(`{"userId": %q, "itemId": %q, "quantity": %d}`, userID, itemID, quantity)
	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/cart", body)
	require.Equal(t, http.StatusOK, status, "add to cart: %v", payload)
	return payload
}

func checkout(t *testing.T, srv *httptest.Server, userID, code string) (int, map[string]any) {
	t.Helper()

	body := fmt.Sprintf(`{"userId": %q}`, userID)
	if code != "" {
		body = fmt.Sprintf(`{"userId": %q, "discountCode": %q}`, userID, code)
	}
	return doJSON(t, http.MethodPost, srv.URL+"/api/checkout", body)
}

func TestRoot(t *testing.T) {
	srv := newServer(t)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Discount Cart API is running", payload["message"])
	assert.Equal(t, "test", payload["version"])
}

func TestAddToCart(t *testing.T) {
	srv := newServer(t)

	payload := addToCart(t, srv, "user1", "item001", 2)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Item added to cart successfully", payload["message"])

	c := payload["cart"].(map[string]any)
	assert.Equal(t, "user1", c["userId"])
	items := c["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "item001", line["itemId"])
	assert.Equal(t, "Laptop", line["name"])
	assert.Equal(t, 2.0, line["quantity"])
	assert.Equal(t, 1999.98, line["subtotal"])
	assert.Equal(t, 1999.98, c["total"])
	assert.Nil(t, c["discountCode"])
}

func TestAddToCart_UnknownItem(t *testing.T) {
	srv := newServer(t)

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/cart",
		`{"userId": "user1", "itemId": "item999", "quantity": 1}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, payload["success"])
}

func TestAddToCart_Validation(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing userId", `{"itemId": "item001", "quantity": 1}`},
		{"missing itemId", `{"userId": "user1", "quantity": 1}`},
		{"zero quantity", `{"userId": "user1", "itemId": "item001", "quantity": 0}`},
		{"negative quantity", `{"userId": "user1", "itemId": "item001", "quantity": -5}`},
		{"quantity too large", `{"userId": "user1", "itemId": "item001", "quantity": 1001}`},
		{"userId too long", fmt.Sprintf(`{"userId": %q, "itemId": "item001", "quantity": 1}`, strings.Repeat("u", 101))},
		{"malformed JSON", `{"userId": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/cart", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, false, payload["success"])
			assert.NotEmpty(t, payload["message"])
		})
	}
}

func TestViewCart_Empty(t *testing.T) {
	srv := newServer(t)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/cart/ghost", "")
	assert.Equal(t, http.StatusOK, status)

	c := payload["cart"].(map[string]any)
	assert.Equal(t, "ghost", c["userId"])
	assert.Empty(t, c["items"])
	assert.Equal(t, 0.0, c["total"])
}

func TestViewCart_AccumulatesLines(t *testing.T) {
	srv := newServer(t)

	addToCart(t, srv, "user1", "item001", 1)
	addToCart(t, srv, "user1", "item001", 1)
	addToCart(t, srv, "user1", "item002", 3)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/cart/user1", "")
	require.Equal(t, http.StatusOK, status)

	c := payload["cart"].(map[string]any)
	items := c["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, 2.0, first["quantity"])
	// 999.99*2 + 29.99*3
	assert.Equal(t, 2089.95, c["subtotal"])
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv := newServer(t)

	status, payload := checkout(t, srv, "user1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cart is empty", payload["message"])
}

func TestCheckout_Flow(t *testing.T) {
	srv := newServer(t)

	addToCart(t, srv, "user1", "item001", 2)
	status, payload := checkout(t, srv, "user1", "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, true, payload["success"])
	assert.Nil(t, payload["newDiscountCode"])

	o := payload["order"].(map[string]any)
	assert.Equal(t, "order001", o["orderId"])
	assert.Equal(t, 1999.98, o["total"])
	assert.Nil(t, o["discountCode"])
	assert.Equal(t, 0.0, o["discountAmount"])
	assert.NotEmpty(t, o["createdAt"])

	// Checkout drained the cart.
	status, payload = doJSON(t, http.MethodGet, srv.URL+"/api/cart/user1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, payload["cart"].(map[string]any)["items"])
}

func TestCheckout_MilestoneAndRedemption(t *testing.T) {
	srv := newServer(t)

	// Orders 1-4 mint nothing.
	for i := 1; i <= 4; i++ {
		addToCart(t, srv, "user1", "item002", 1)
		status, payload := checkout(t, srv, "user1", "")
		require.Equal(t, http.StatusOK, status)
		assert.Nil(t, payload["newDiscountCode"], "order %d", i)
	}

	// The 5th mints DISCOUNT1 and says so.
	addToCart(t, srv, "user1", "item002", 1)
	status, payload := checkout(t, srv, "user1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "DISCOUNT1", payload["newDiscountCode"])
	assert.Contains(t, payload["message"], "DISCOUNT1")

	// Redeem it on the next order.
	addToCart(t, srv, "user2", "item001", 2)
	status, payload = checkout(t, srv, "user2", "DISCOUNT1")
	require.Equal(t, http.StatusOK, status)

	o := payload["order"].(map[string]any)
	assert.Equal(t, "order006", o["orderId"])
	assert.Equal(t, "DISCOUNT1", o["discountCode"])
	assert.Equal(t, 200.0, o["discountAmount"])
	assert.Equal(t, 1799.98, o["total"])

	// A second redemption silently gets no discount.
	addToCart(t, srv, "user3", "item002", 1)
	status, payload = checkout(t, srv, "user3", "DISCOUNT1")
	require.Equal(t, http.StatusOK, status)
	o = payload["order"].(map[string]any)
	assert.Nil(t, o["discountCode"])
	assert.Equal(t, 29.99, o["total"])
}

func TestCheckout_UnknownCodeIgnored(t *testing.T) {
	srv := newServer(t)

	addToCart(t, srv, "user1", "item002", 1)
	status, payload := checkout(t, srv, "user1", "NOPE")
	require.Equal(t, http.StatusOK, status)

	o := payload["order"].(map[string]any)
	assert.Nil(t, o["discountCode"])
	assert.Equal(t, 29.99, o["total"])
}

func TestGenerateDiscount_BeforeMilestone(t *testing.T) {
	srv := newServer(t)

	addToCart(t, srv, "user1", "item002", 1)
	status, _ := checkout(t, srv, "user1", "")
	require.Equal(t, http.StatusOK, status)

	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/admin/generate-discount", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, payload["success"])
	assert.Nil(t, payload["code"])
	assert.Equal(t, 1.0, payload["currentOrderCount"])
	assert.Equal(t, 5.0, payload["nextDiscountAt"])
	assert.Equal(t, 4.0, payload["ordersRemaining"])
}

func TestGenerateDiscount_AtMilestone(t *testing.T) {
	srv := newServer(t)

	for i := 0; i < 5; i++ {
		addToCart(t, srv, "user1", "item002", 1)
		status, _ := checkout(t, srv, "user1", "")
		require.Equal(t, http.StatusOK, status)
	}

	// The 5th checkout already minted DISCOUNT1, so the manual path refuses.
	status, payload := doJSON(t, http.MethodPost, srv.URL+"/api/admin/generate-discount", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "DISCOUNT1", payload["code"])
	assert.Nil(t, payload["ordersRemaining"])
}

func TestStats(t *testing.T) {
	srv := newServer(t)

	addToCart(t, srv, "user1", "item001", 2)
	addToCart(t, srv, "user1", "item002", 1)
	status, _ := checkout(t, srv, "user1", "")
	require.Equal(t, http.StatusOK, status)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/admin/stats", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, payload["success"])

	stats := payload["statistics"].(map[string]any)
	assert.Equal(t, 3.0, stats["totalItemsPurchased"])
	assert.Equal(t, 2029.97, stats["totalPurchaseAmount"])
	assert.Equal(t, 0.0, stats["totalDiscountAmount"])
	assert.Empty(t, stats["discountCodes"])
}

func TestStats_IncludesCodes(t *testing.T) {
	srv := newServer(t)

	for i := 0; i < 5; i++ {
		addToCart(t, srv, "user1", "item002", 1)
		status, _ := checkout(t, srv, "user1", "")
		require.Equal(t, http.StatusOK, status)
	}
	addToCart(t, srv, "user2", "item002", 1)
	status, _ := checkout(t, srv, "user2", "DISCOUNT1")
	require.Equal(t, http.StatusOK, status)

	status, payload := doJSON(t, http.MethodGet, srv.URL+"/api/admin/stats", "")
	require.Equal(t, http.StatusOK, status)

	stats := payload["statistics"].(map[string]any)
	codes := stats["discountCodes"].([]any)
	require.Len(t, codes, 1)
	code := codes[0].(map[string]any)
	assert.Equal(t, "DISCOUNT1", code["code"])
	assert.Equal(t, true, code["isUsed"])
	assert.Equal(t, "order006", code["usedByOrder"])
	assert.NotEmpty(t, code["usedAt"])
}
