package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blended-settlement/config"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponResolver_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/coupons/SUMMER10", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ref":"SUMMER10","value_minor":1000,"currency":"EUR","redeemed":false}`))
	}))
	defer srv.Close()

	client := NewClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "sk_test", Timeout: time.Second}, zerolog.Nop())
	resolver := NewCouponResolver(client)

	value, err := resolver.Resolve(context.Background(), "SUMMER10")
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("10")))
}

func TestCouponResolver_AlreadyRedeemed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ref":"USED","value_minor":500,"currency":"EUR","redeemed":true}`))
	}))
	defer srv.Close()

	client := NewClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "sk_test", Timeout: time.Second}, zerolog.Nop())
	resolver := NewCouponResolver(client)

	_, err := resolver.Resolve(context.Background(), "USED")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already redeemed")
}

func TestCouponResolver_Unknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"coupon_not_found","message":"No such coupon."}}`))
	}))
	defer srv.Close()

	client := NewClient(config.ProviderConfig{BaseURL: srv.URL, APIKey: "sk_test", Timeout: time.Second}, zerolog.Nop())
	resolver := NewCouponResolver(client)

	_, err := resolver.Resolve(context.Background(), "NOPE")
	require.Error(t, err)
}
