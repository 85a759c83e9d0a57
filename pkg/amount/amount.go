// Package amount provides decimal helpers for statement monetary values.
// Bank statements carry thousands-separated New Taiwan Dollar figures; all
// arithmetic and persistence use shopspring/decimal for exactness.
package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a statement numeral such as "12,345" or "1,234.50" into a
// decimal. Currency symbols, thousands separators and surrounding space are
// stripped. A leading minus or accounting parentheses mark the value negative.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	} else if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}

	for _, sym := range []string{"NT$", "$", "元"} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// Inflow returns the absolute value of d.
func Inflow(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}

// Outflow returns the negated absolute value of d.
func Outflow(d decimal.Decimal) decimal.Decimal {
	return d.Abs().Neg()
}
