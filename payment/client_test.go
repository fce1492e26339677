package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCard = json.RawMessage(`{"name":"John Doe","number":"4242 4242 4242 4242","expiration_year":2029,"cvv":"123","expiration_month":9}`)

func TestChargeSuccess(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"credit_card": {
				"name": "John Doe",
				"first_digits": "4242",
				"last_digits": "4242",
				"expiration_year": 2029,
				"expiration_month": 9
			},
			"transaction": {
				"id": "wgEQ4zAm3XzpSZPx",
				"success": true,
				"amount_charged": 38.065
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	result, err := client.Charge(context.Background(), testCard, 38.065)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", result.CreditCard.Name)
	assert.Equal(t, "4242", result.CreditCard.FirstDigits)
	assert.Equal(t, 2029, result.CreditCard.ExpirationYear)
	assert.Equal(t, "wgEQ4zAm3XzpSZPx", result.Transaction.ID)
	assert.True(t, result.Transaction.Success)
	assert.InDelta(t, 38.065, result.Transaction.AmountCharged, 1e-9)

	// The request forwards the card untouched and carries the amount.
	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.JSONEq(t, string(testCard), string(sent["credit_card"]))
	assert.Equal(t, "38.065", string(sent["amount_charged"]))
}

func TestChargeDeclinedKeepsBody(t *testing.T) {
	declineBody := `{"errors":{"credit_card":{"code":"card-declined","name":"La carte de crédit a été déclinée"}}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(declineBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.Charge(context.Background(), testCard, 10)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusUnprocessableEntity, gwErr.StatusCode)
	assert.JSONEq(t, declineBody, string(gwErr.Body))
}

func TestChargeUnreachableIsNotGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, time.Second)
	_, err := client.Charge(context.Background(), testCard, 10)

	require.Error(t, err)
	var gwErr *GatewayError
	assert.False(t, errors.As(err, &gwErr))
}
