package extract

import "math"

// DiscountPercent computes the discount as a rounded percentage. This is the
// single source of truth for discounts; upstream-reported discount numbers
// are never taken verbatim.
func DiscountPercent(price, oldPrice float64) int {
	if oldPrice <= price || price <= 0 {
		return 0
	}

	pct := int(math.Round((oldPrice - price) / oldPrice * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
