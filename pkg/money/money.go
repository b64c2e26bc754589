package money

import (
	"github.com/shopspring/decimal"
)

// Amounts inside the service are decimal major currency units (e.g. 12.34 EUR).
// Everything crossing the provider boundary is integer minor units (1234 cents).

// RoundCents rounds d to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ToMinorUnits converts a major-unit amount to integer minor units,
// rounding half away from zero to the cent first.
func ToMinorUnits(d decimal.Decimal) int64 {
	return RoundCents(d).Mul(decimal.NewFromInt(100)).IntPart()
}

// FromMinorUnits converts integer minor units to a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Zero is the zero amount.
var Zero = decimal.Zero
