package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal reads user input such as "3,500,000" or " 12.5 ".
// Empty input yields nil.
func ParseDecimal(value string) (*decimal.Decimal, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
