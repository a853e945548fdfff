package upload

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyPrefix = regexp.MustCompile(`(?i)Rp\.?\s*`)
	maxAmount      = decimal.NewFromInt(math.MaxInt64)
	minAmount      = decimal.NewFromInt(math.MinInt64)
)

// ParseAmount converts user-entered Rupiah text such as "Rp 1.125.000" into
// an integer amount. Both '.' and ',' are treated as grouping separators and
// removed, so decimal fractions are lost. Unparseable input yields 0.
func ParseAmount(text string) int64 {
	amount, _ := parseAmountText(text)
	return amount
}

// parseAmountText is ParseAmount that also reports whether the cleaned text
// was numeric at all. Amounts outside the int64 range are not numeric.
func parseAmountText(text string) (int64, bool) {
	cleaned := currencyPrefix.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	if value.GreaterThan(maxAmount) || value.LessThan(minAmount) {
		return 0, false
	}
	return value.IntPart(), true
}
