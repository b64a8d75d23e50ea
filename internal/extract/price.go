package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// priceToken matches a currency-marked numeric token: a symbol or
// abbreviation followed by digit groups with optional thousands separators.
var priceToken = regexp.MustCompile(`(?:₹|Rs\.?|\$|£|€|USD|INR)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// Amount parses a numeric string like "1,299.00" into a float. Malformed or
// negative values fall back to 0 rather than propagating an error.
func Amount(s string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Price extracts a current and old price from free text. The first
// currency-marked token is the current price. The second distinct token
// becomes the old price only when it is strictly greater than the current
// price; otherwise the old price equals the current price, which yields a
// zero discount downstream.
func Price(text string) (price, oldPrice float64, ok bool) {
	matches := priceToken.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}

	price = Amount(matches[0][1])
	if price == 0 {
		return 0, 0, false
	}

	oldPrice = price
	for _, m := range matches[1:] {
		v := Amount(m[1])
		if v == price {
			continue
		}
		if v > price {
			oldPrice = v
		}
		break
	}

	return price, oldPrice, true
}
