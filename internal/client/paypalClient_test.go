package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-api/internal/config"
)

func newPaypalTestServer(t *testing.T) (*httptest.Server, *map[string]interface{}) {
	t.Helper()

	var lastOrderPayload map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastOrderPayload))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAY-REF-42",
			"status": "CREATED",
			"links": []map[string]string{
				{"rel": "self", "href": "https://paypal.test/self"},
				{"rel": "approve", "href": "https://paypal.test/approve/PAY-REF-42"},
			},
		})
	})
	mux.HandleFunc("/v2/checkout/orders/PAY-REF-42/capture", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "PAY-REF-42",
			"status": "COMPLETED",
			"payer":  map[string]string{"payer_id": "PAYER-7", "email_address": "buyer@example.com"},
			"purchase_units": []map[string]interface{}{
				{
					"payments": map[string]interface{}{
						"captures": []map[string]string{
							{"id": "CAP-9", "status": "COMPLETED"},
						},
					},
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &lastOrderPayload
}

func TestPaypalCreateOrder(t *testing.T) {
	srv, lastPayload := newPaypalTestServer(t)

	c := NewPaypalClient(&config.Paypal{
		BaseApiURL:   srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	resp, err := c.CreateOrder(context.Background(), &GatewayOrderRequest{
		Items: []GatewayItem{
			{SKU: "p1", Name: "Widget", UnitValue: "1.21", Quantity: 2},
		},
		Total:     "2.42",
		ItemTotal: "2.42",
		Currency:  "USD",
		ReturnURL: "http://api.test/api/paypal/return",
		CancelURL: "http://shop.test/shop/paypal-cancel",
	})
	require.NoError(t, err)

	assert.Equal(t, "PAY-REF-42", resp.GatewayRef)
	assert.Equal(t, "https://paypal.test/approve/PAY-REF-42", resp.ApproveURL)

	payload := *lastPayload
	assert.Equal(t, "CAPTURE", payload["intent"])

	units := payload["purchase_units"].([]interface{})
	require.Len(t, units, 1)
	unit := units[0].(map[string]interface{})

	amount := unit["amount"].(map[string]interface{})
	assert.Equal(t, "2.42", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])
	breakdown := amount["breakdown"].(map[string]interface{})
	itemTotal := breakdown["item_total"].(map[string]interface{})
	assert.Equal(t, "2.42", itemTotal["value"])

	items := unit["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Widget", item["name"])
	// quantities go over the wire as strings
	assert.Equal(t, "2", item["quantity"])
}

func TestPaypalCaptureOrder(t *testing.T) {
	srv, _ := newPaypalTestServer(t)

	c := NewPaypalClient(&config.Paypal{
		BaseApiURL:   srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})

	result, err := c.CaptureOrder(context.Background(), "PAY-REF-42")
	require.NoError(t, err)

	assert.Equal(t, "CAP-9", result.CaptureID)
	assert.Equal(t, "PAYER-7", result.PayerID)
	assert.Equal(t, "COMPLETED", result.Status)
}

func TestPaypalCreateOrderRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token"})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewPaypalClient(&config.Paypal{BaseApiURL: srv.URL})

	_, err := c.CreateOrder(context.Background(), &GatewayOrderRequest{
		Total: "1.00", ItemTotal: "1.00", Currency: "USD",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
