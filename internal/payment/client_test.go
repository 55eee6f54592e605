package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCheckoutSession_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var p SessionParams
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "jpy", p.Currency)
		assert.Len(t, p.LineItems, 1)

		json.NewEncoder(w).Encode(Session{ID: "cs_1", URL: "https://pay.example.com/cs_1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	s, err := c.CreateCheckoutSession(context.Background(), SessionParams{
		Currency:  "jpy",
		LineItems: []LineItem{{Name: "湯呑", UnitAmount: 150000, Quantity: 1}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "cs_1", s.ID)
	assert.Equal(t, "https://pay.example.com/cs_1", s.URL)
}

func TestCreateCheckoutSession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"invalid_currency","message":"currency not supported"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	_, err := c.CreateCheckoutSession(context.Background(), SessionParams{Currency: "xxx"})

	var pe *ProviderError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "invalid_currency", pe.Code)
	assert.Equal(t, "currency not supported", pe.Message)
}

func TestCreateCheckoutSession_UnexpectedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("gateway timeout"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test")
	_, err := c.CreateCheckoutSession(context.Background(), SessionParams{})

	var pe *ProviderError
	assert.ErrorAs(t, err, &pe)
	assert.Equal(t, "api_error", pe.Code)
}
