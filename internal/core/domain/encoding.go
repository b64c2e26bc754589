package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"blended-settlement/pkg/money"
)

// Pure-ledger transactions have no provider record to re-fetch, so they are
// reconstructable from a compact delimited string persisted on the order:
//
//	orderID|amountMinor|refundedMinor|customerID
//
// The string is obfuscated before leaving the service.

const ledgerRefSeparator = "|"

// EncodeLedgerRef serializes the reconstructable fields of a pure-ledger
// transaction.
func EncodeLedgerRef(t *Transaction) string {
	return strings.Join([]string{
		t.OrderID,
		strconv.FormatInt(money.ToMinorUnits(t.Amount), 10),
		strconv.FormatInt(money.ToMinorUnits(t.RefundedAmount), 10),
		t.CustomerID.String(),
	}, ledgerRefSeparator)
}

// DecodeLedgerRef parses a compact ledger reference back into its fields.
func DecodeLedgerRef(ref string) (orderID string, amount, refunded decimal.Decimal, customerID uuid.UUID, err error) {
	parts := strings.Split(ref, ledgerRefSeparator)
	if len(parts) != 4 {
		err = fmt.Errorf("ledger ref: expected 4 fields, got %d", len(parts))
		return
	}
	amountMinor, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		err = fmt.Errorf("ledger ref amount: %w", err)
		return
	}
	refundedMinor, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		err = fmt.Errorf("ledger ref refunded amount: %w", err)
		return
	}
	customerID, err = uuid.Parse(parts[3])
	if err != nil {
		err = fmt.Errorf("ledger ref customer id: %w", err)
		return
	}
	return parts[0], money.FromMinorUnits(amountMinor), money.FromMinorUnits(refundedMinor), customerID, nil
}

// IsLedgerRef reports whether ref looks like a compact ledger reference
// rather than a provider-side id.
func IsLedgerRef(ref string) bool {
	return strings.Count(ref, ledgerRefSeparator) == 3
}
