//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestOrderCreate_AmountDiscount(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Amount", uniqueEmail("order-amount"))

	resp := doPost(t, "/api/orders", map[string]any{
		"customer_id": customerID,
		"items": []orderItemPayload{
			{ProductName: "Widget", UnitPrice: 10, Quantity: 3},
		},
		"discount_type":  "amount",
		"discount_value": 5,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if got.ID == "" {
		t.Error("expected non-empty id")
	}
	if got.CustomerID != customerID {
		t.Errorf("customer_id: got %q, want %q", got.CustomerID, customerID)
	}
	if got.Status != "draft" {
		t.Errorf("status: got %q, want draft", got.Status)
	}
	if got.Subtotal != 30 {
		t.Errorf("subtotal: got %v, want 30", got.Subtotal)
	}
	if got.Total != 25 {
		t.Errorf("total: got %v, want 25", got.Total)
	}
	if len(got.Items) != 1 || got.Items[0].LineTotal != 30 {
		t.Errorf("items: got %+v", got.Items)
	}
}

func TestOrderCreate_PercentDiscount(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Percent", uniqueEmail("order-percent"))

	resp := doPost(t, "/api/orders", map[string]any{
		"customer_id": customerID,
		"items": []orderItemPayload{
			{ProductName: "Gizmo", UnitPrice: 19.99, Quantity: 2},
		},
		"discount_type":  "percent",
		"discount_value": 10,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if got.Subtotal != 39.98 {
		t.Errorf("subtotal: got %v, want 39.98", got.Subtotal)
	}
	if got.Total != 35.98 {
		t.Errorf("total: got %v, want 35.98", got.Total)
	}
}

func TestOrderCreate_DiscountClamped(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Clamp", uniqueEmail("order-clamp"))

	resp := doPost(t, "/api/orders", map[string]any{
		"customer_id": customerID,
		"items": []orderItemPayload{
			{ProductName: "Trinket", UnitPrice: 4, Quantity: 1},
		},
		"discount_type":  "amount",
		"discount_value": 100,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if got.Subtotal != 4 {
		t.Errorf("subtotal: got %v, want 4", got.Subtotal)
	}
	if got.Total != 0 {
		t.Errorf("total: got %v, want 0", got.Total)
	}
}

func TestOrderCreate_InvalidCustomer(t *testing.T) {
	resp := doPost(t, "/api/orders", map[string]any{
		"customer_id": "no-such-customer",
		"items": []orderItemPayload{
			{ProductName: "Widget", UnitPrice: 1, Quantity: 1},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if got := decodeJSON[errorResponse](t, resp); got.Message != "Invalid customer_id" {
		t.Errorf("message: got %q", got.Message)
	}
}

func TestOrderCreate_Validation(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Validation", uniqueEmail("order-validation"))

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{
			name:    "missing customer_id",
			body:    map[string]any{"items": []orderItemPayload{{ProductName: "W", UnitPrice: 1, Quantity: 1}}},
			message: "customer_id is required",
		},
		{
			name: "zero quantity",
			body: map[string]any{
				"customer_id": customerID,
				"items":       []orderItemPayload{{ProductName: "W", UnitPrice: 1, Quantity: 0}},
			},
			message: "quantity must be at least 1",
		},
		{
			name: "negative unit price",
			body: map[string]any{
				"customer_id": customerID,
				"items":       []orderItemPayload{{ProductName: "W", UnitPrice: -1, Quantity: 1}},
			},
			message: "unit_price must be non-negative",
		},
		{
			name: "bad discount type",
			body: map[string]any{
				"customer_id":   customerID,
				"items":         []orderItemPayload{{ProductName: "W", UnitPrice: 1, Quantity: 1}},
				"discount_type": "coupon",
			},
			message: "invalid discount_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doPost(t, "/api/orders", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if got := decodeJSON[errorResponse](t, resp); got.Message != tt.message {
				t.Errorf("message: got %q, want %q", got.Message, tt.message)
			}
		})
	}
}

func TestOrderList_Filters(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Filters", uniqueEmail("order-filters"))

	for _, status := range []string{"draft", "paid"} {
		resp := doPost(t, "/api/orders", map[string]any{
			"customer_id": customerID,
			"status":      status,
			"items": []orderItemPayload{
				{ProductName: "Widget", UnitPrice: 2, Quantity: 1},
			},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("create order: expected 200, got %d", resp.StatusCode)
		}
	}

	resp := doGet(t, "/api/orders?customer_id="+customerID+"&status=paid")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[[]orderResponse](t, resp)
	if len(got) != 1 {
		t.Fatalf("expected 1 order, got %d", len(got))
	}
	if got[0].Status != "paid" {
		t.Errorf("status: got %q, want paid", got[0].Status)
	}
	if got[0].CustomerID != customerID {
		t.Errorf("customer_id: got %q, want %q", got[0].CustomerID, customerID)
	}
}

func TestOrderUpdate_Recomputes(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Update", uniqueEmail("order-update"))

	createResp := doPost(t, "/api/orders", map[string]any{
		"customer_id": customerID,
		"items": []orderItemPayload{
			{ProductName: "Widget", UnitPrice: 10, Quantity: 3},
		},
		"discount_type":  "amount",
		"discount_value": 5,
	})
	created := decodeJSON[orderResponse](t, createResp)
	createResp.Body.Close()

	resp := doPut(t, "/api/orders/"+created.ID, map[string]any{
		"discount_value": 10,
		"status":         "paid",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if got.Total != 20 {
		t.Errorf("total: got %v, want 20", got.Total)
	}
	if got.Status != "paid" {
		t.Errorf("status: got %q, want paid", got.Status)
	}
	// Untouched fields survive.
	if got.Subtotal != 30 {
		t.Errorf("subtotal: got %v, want 30", got.Subtotal)
	}
}

func TestOrderUpdate_ReplacesItems(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Items", uniqueEmail("order-items"))

	createResp := doPost(t, "/api/orders", map[string]any{
		"customer_id": customerID,
		"items": []orderItemPayload{
			{ProductName: "Widget", UnitPrice: 10, Quantity: 1},
		},
	})
	created := decodeJSON[orderResponse](t, createResp)
	createResp.Body.Close()

	resp := doPut(t, "/api/orders/"+created.ID, map[string]any{
		"items": []orderItemPayload{
			{ProductName: "Gadget", UnitPrice: 20, Quantity: 2},
		},
	})
	defer resp.Body.Close()

	got := decodeJSON[orderResponse](t, resp)
	if len(got.Items) != 1 || got.Items[0].ProductName != "Gadget" {
		t.Fatalf("items: got %+v", got.Items)
	}
	if got.Subtotal != 40 || got.Total != 40 {
		t.Errorf("totals: got subtotal %v total %v, want 40/40", got.Subtotal, got.Total)
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	resp := doGet(t, "/api/orders/does-not-exist")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if got := decodeJSON[errorResponse](t, resp); got.Message != "Order not found" {
		t.Errorf("message: got %q", got.Message)
	}
}

func TestOrderDelete(t *testing.T) {
	customerID := mustCreateCustomer(t, "Order Delete", uniqueEmail("order-delete"))

	createResp := doPost(t, "/api/orders", map[string]any{
		"customer_id": customerID,
		"items": []orderItemPayload{
			{ProductName: "Widget", UnitPrice: 1, Quantity: 1},
		},
	})
	created := decodeJSON[orderResponse](t, createResp)
	createResp.Body.Close()

	resp := doDelete(t, "/api/orders/"+created.ID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	gone := doGet(t, "/api/orders/"+created.ID)
	defer gone.Body.Close()
	if gone.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", gone.StatusCode)
	}
}
