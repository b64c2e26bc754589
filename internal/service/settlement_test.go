package service

import (
	"testing"

	"blended-settlement/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPlanSettlement(t *testing.T) {
	card := domain.PaymentMethod{Kind: domain.PaymentMethodCard, ProviderRef: "pm_123"}
	invoice := domain.PaymentMethod{Kind: domain.PaymentMethodInvoice}

	tests := []struct {
		name         string
		balance      string
		method       domain.PaymentMethod
		amount       string
		wantCredit   string
		wantProvider string
		wantPure     bool
	}{
		{
			name:    "no credit goes fully to provider",
			balance: "0", method: card, amount: "100",
			wantCredit: "0", wantProvider: "100",
		},
		{
			name:    "partial credit splits",
			balance: "30", method: card, amount: "100",
			wantCredit: "30", wantProvider: "70",
		},
		{
			name:    "credit covers everything",
			balance: "150", method: card, amount: "100",
			wantCredit: "100", wantProvider: "0", wantPure: true,
		},
		{
			name:    "credit exactly equals amount",
			balance: "100", method: card, amount: "100",
			wantCredit: "100", wantProvider: "0", wantPure: true,
		},
		{
			name:    "negative balance contributes nothing",
			balance: "-20", method: card, amount: "100",
			wantCredit: "0", wantProvider: "100",
		},
		{
			name:    "invoice is always pure ledger",
			balance: "10", method: invoice, amount: "100",
			wantCredit: "100", wantProvider: "0", wantPure: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			customer := &domain.Customer{Balance: dec(tc.balance)}
			plan := planSettlement(customer, tc.method, dec(tc.amount))

			assert.True(t, plan.CreditPortion.Equal(dec(tc.wantCredit)),
				"credit portion: got %s want %s", plan.CreditPortion, tc.wantCredit)
			assert.True(t, plan.CreditPortion.Add(plan.ProviderPortion).Equal(dec(tc.amount)),
				"split must conserve the requested amount")
			assert.Equal(t, tc.wantPure, plan.PureLedger)
			if tc.wantProvider != "0" {
				assert.True(t, plan.ProviderPortion.Equal(dec(tc.wantProvider)))
			}
		})
	}
}

func TestRefundSplit(t *testing.T) {
	tests := []struct {
		name             string
		amount           string
		providerCaptured string
		providerRefunded string
		wantProvider     string
		wantCredit       string
	}{
		{
			name:   "provider covers whole refund",
			amount: "50", providerCaptured: "70", providerRefunded: "0",
			wantProvider: "50", wantCredit: "0",
		},
		{
			name:   "refund exceeds provider share",
			amount: "90", providerCaptured: "70", providerRefunded: "0",
			wantProvider: "70", wantCredit: "20",
		},
		{
			name:   "prior provider refunds reduce its remaining share",
			amount: "50", providerCaptured: "70", providerRefunded: "40",
			wantProvider: "30", wantCredit: "20",
		},
		{
			name:   "provider fully refunded already",
			amount: "30", providerCaptured: "70", providerRefunded: "70",
			wantProvider: "0", wantCredit: "30",
		},
		{
			name:   "no provider capture at all",
			amount: "30", providerCaptured: "0", providerRefunded: "0",
			wantProvider: "0", wantCredit: "30",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			providerShare, creditShare := refundSplit(
				dec(tc.amount), dec(tc.providerCaptured), dec(tc.providerRefunded))

			assert.True(t, providerShare.Equal(dec(tc.wantProvider)),
				"provider share: got %s want %s", providerShare, tc.wantProvider)
			assert.True(t, creditShare.Equal(dec(tc.wantCredit)),
				"credit share: got %s want %s", creditShare, tc.wantCredit)
			assert.True(t, providerShare.Add(creditShare).Equal(dec(tc.amount)),
				"split must conserve the refund amount")
		})
	}
}
