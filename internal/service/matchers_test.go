package service

import (
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

// decEq matches a decimal.Decimal argument by numeric value rather than
// internal representation (gomock.Eq uses reflect.DeepEqual, which treats
// 100 and 100.00 as different because their exponents differ).
func decEq(want decimal.Decimal) gomock.Matcher {
	return decimalMatcher{want: want}
}

type decimalMatcher struct {
	want decimal.Decimal
}

func (m decimalMatcher) Matches(x any) bool {
	got, ok := x.(decimal.Decimal)
	return ok && got.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return "is decimal equal to " + m.want.String()
}
