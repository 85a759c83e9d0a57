package parser

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/shopspring/decimal"

	"github.com/kytseng/bankbook/pkg/amount"
)

// SignPolicy decides inflow versus outflow from the vocabulary of a summary.
// A parser carries either an income-keyword policy (match means inflow,
// default outflow) or an expense-keyword policy (match means outflow, default
// inflow) — never both. The keyword set is scanned in a single pass with an
// Aho-Corasick matcher.
type SignPolicy struct {
	matcher     *ahocorasick.Matcher
	matchInflow bool
}

// IncomeKeywords builds a policy where a matching summary is an inflow and
// everything else an outflow.
func IncomeKeywords(words ...string) *SignPolicy {
	return &SignPolicy{
		matcher:     ahocorasick.NewStringMatcher(words),
		matchInflow: true,
	}
}

// ExpenseKeywords builds a policy where a matching summary is an outflow and
// everything else an inflow.
func ExpenseKeywords(words ...string) *SignPolicy {
	return &SignPolicy{
		matcher:     ahocorasick.NewStringMatcher(words),
		matchInflow: false,
	}
}

// Apply fixes the sign of amt according to the policy. The sign is decided
// exactly once here; no later stage re-negates it. A nil policy keeps the
// amount as parsed.
func (p *SignPolicy) Apply(summary string, amt decimal.Decimal) decimal.Decimal {
	if p == nil {
		return amt
	}
	matched := len(p.matcher.Match([]byte(summary))) > 0
	if matched == p.matchInflow {
		return amount.Inflow(amt)
	}
	return amount.Outflow(amt)
}
