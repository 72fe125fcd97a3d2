package gateway

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanserve/utils"
)

func testClient(baseURL string) *Client {
	return &Client{
		KeyID:      "rzp_test_key",
		KeySecret:  "shhh_secret",
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestVerifySignature(t *testing.T) {
	c := testClient("")

	sig := SignPayload(c.KeySecret, "order_abc", "pay_xyz")
	assert.True(t, c.VerifySignature("order_abc", "pay_xyz", sig))

	// any single-character mutation must fail verification
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", string(mutated)))

	// wrong payload fails too
	assert.False(t, c.VerifySignature("order_abc", "pay_other", sig))
	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", ""))
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_abc","amount":50000,"currency":"INR","receipt":"receipt_booking_7","status":"created"}`))
	}))
	defer server.Close()

	order, err := testClient(server.URL).CreateOrder(500, 7)
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "receipt_booking_7", order.Receipt)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).CreateOrder(500, 7)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.KindExternal, appErr.Kind)
}

func TestCreateOrderGatewayUnreachable(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").CreateOrder(500, 7)
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.KindExternal, appErr.Kind)
}
