package pos

import "math"

// VATRate is the standard UAE VAT rate. All stored prices are
// VAT-inclusive, so subtotal and VAT are derived by division, never by
// adding tax on top.
const VATRate = 0.05

// VATBreakdown splits a VAT-inclusive total into taxable subtotal and
// VAT amount, both rounded to currency precision.
func VATBreakdown(total float64) (subtotal, vat float64) {
	subtotal = Round2(total / (1 + VATRate))
	vat = Round2(total - subtotal)
	return subtotal, vat
}

// Round2 rounds to two decimal places (fils precision).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
