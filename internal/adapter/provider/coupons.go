package provider

import (
	"context"
	"net/http"

	"blended-settlement/pkg/money"

	"github.com/shopspring/decimal"
)

// CouponResolver resolves coupon references through the provider's coupon
// endpoint. It implements ports.CouponResolver.
type CouponResolver struct {
	client *Client
}

// NewCouponResolver creates a resolver backed by the provider client.
func NewCouponResolver(client *Client) *CouponResolver {
	return &CouponResolver{client: client}
}

type couponBody struct {
	Ref        string `json:"ref"`
	ValueMinor int64  `json:"value_minor"`
	Currency   string `json:"currency"`
	Redeemed   bool   `json:"redeemed"`
}

// Resolve returns the coupon's value in major units. Already redeemed coupons
// resolve to an error so the ledger is never credited twice.
func (r *CouponResolver) Resolve(ctx context.Context, couponRef string) (decimal.Decimal, error) {
	var out couponBody
	if err := r.client.do(ctx, http.MethodGet, "/v1/coupons/"+couponRef, nil, &out); err != nil {
		return decimal.Zero, err
	}
	if out.Redeemed {
		return decimal.Zero, &couponRedeemedError{ref: couponRef}
	}
	return money.FromMinorUnits(out.ValueMinor), nil
}

type couponRedeemedError struct {
	ref string
}

func (e *couponRedeemedError) Error() string {
	return "coupon " + e.ref + " already redeemed"
}
