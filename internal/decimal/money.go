package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// FormatTotal renders a summed total for display. Fractional totals print
// with their fraction trimmed of trailing zeros ("400.25", "400.5"). An
// integral total prints as "400", except when any summand carried a float
// form: then it prints with one decimal place ("400.0"), matching how the
// source column would display.
func FormatTotal(d decimal.Decimal, float bool) string {
	if d.IsInteger() {
		if float {
			return d.StringFixed(1)
		}
		return d.String()
	}
	return d.String()
}
