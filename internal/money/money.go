// Package money wraps the fixed-point decimal arithmetic used for all
// monetary amounts. Columns are stored as decimal with 2 fractional digits;
// floats never touch a price.
package money

import "github.com/shopspring/decimal"

// FromMajor builds an amount from a major-unit string such as "1000.00".
// Invalid input yields zero and false.
func FromMajor(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// Sum adds any number of amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ClampNonNegative floors an amount at zero.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ToMinorUnits converts a major-unit amount to integer minor units
// (e.g. 970.50 -> 97050) for gateway APIs that bill in paise/cents.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
