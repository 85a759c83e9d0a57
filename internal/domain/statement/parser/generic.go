package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kytseng/bankbook/internal/domain/statement/document"
	"github.com/kytseng/bankbook/internal/domain/statement/ocr"
	"github.com/kytseng/bankbook/pkg/amount"
)

// BankConfig is the declarative description of a bank layout, consumed by the
// generic parser. It lets a new bank onboard without code: one document-wide
// regex with group indices mapped to semantic fields, an account anchor, and
// one keyword list fixing the sign policy.
type BankConfig struct {
	RegexPattern    string         `json:"regex_pattern"`
	Groups          map[string]int `json:"groups"`
	AccountPattern  string         `json:"account_pattern,omitempty"`
	AccountGroup    int            `json:"account_group,omitempty"`
	IncomeKeywords  []string       `json:"income_keywords,omitempty"`
	ExpenseKeywords []string       `json:"expense_keywords,omitempty"`
}

// Group keys understood in BankConfig.Groups.
const (
	GroupDate    = "date"
	GroupTime    = "time"
	GroupSummary = "summary"
	GroupRef     = "ref"
	GroupAmount  = "amount"
)

// Generic is the configuration-driven fallback variant. It implements the
// identical contract as the coded parsers with the same sign-policy
// semantics; its screenshot operation is deterministic and never invokes
// recognition.
type Generic struct {
	docs           document.Extractor
	pattern        *regexp.Regexp
	accountPattern *regexp.Regexp
	accountGroup   int
	groups         map[string]int
	policy         *SignPolicy
}

// NewGeneric compiles a generic parser from configuration. Configs carrying
// both income and expense keyword lists are rejected: the two policies are
// mutually exclusive.
func NewGeneric(cfg BankConfig, docs document.Extractor) (*Generic, error) {
	if cfg.RegexPattern == "" {
		return nil, fmt.Errorf("bank config is missing regex_pattern")
	}
	if len(cfg.IncomeKeywords) > 0 && len(cfg.ExpenseKeywords) > 0 {
		return nil, fmt.Errorf("bank config carries both income and expense keywords")
	}

	pattern, err := regexp.Compile(cfg.RegexPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex_pattern: %w", err)
	}

	g := &Generic{
		docs:         docs,
		pattern:      pattern,
		groups:       cfg.Groups,
		accountGroup: cfg.AccountGroup,
	}
	if cfg.AccountPattern != "" {
		g.accountPattern, err = regexp.Compile(cfg.AccountPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid account_pattern: %w", err)
		}
		if g.accountGroup == 0 {
			g.accountGroup = 1
		}
	}
	switch {
	case len(cfg.IncomeKeywords) > 0:
		g.policy = IncomeKeywords(cfg.IncomeKeywords...)
	case len(cfg.ExpenseKeywords) > 0:
		g.policy = ExpenseKeywords(cfg.ExpenseKeywords...)
	}
	return g, nil
}

// ParseDocument applies the configured document-wide regex and emits one
// draft per match carrying a date and an amount.
func (g *Generic) ParseDocument(ctx context.Context, data []byte, opts ParseOptions) (*StatementResult, error) {
	text, err := g.docs.Extract(data, opts.Password)
	if err != nil {
		return nil, err
	}

	fragment := UnknownAccount
	if g.accountPattern != nil {
		if m := g.accountPattern.FindStringSubmatch(text); m != nil && g.accountGroup < len(m) {
			fragment = NormalizeFragment(m[g.accountGroup])
		}
	}

	result := &StatementResult{AccountFragment: fragment, Drafts: []Draft{}}
	for _, m := range g.pattern.FindAllStringSubmatch(text, -1) {
		date := g.group(m, GroupDate)
		amountStr := g.group(m, GroupAmount)
		if date == "" || amountStr == "" {
			continue
		}
		amt, err := amount.Parse(amountStr)
		if err != nil {
			continue
		}

		clock := g.group(m, GroupTime)
		if clock == "" {
			clock = DefaultTime
		}
		summary := strings.TrimSpace(g.group(m, GroupSummary))
		if summary == "" {
			summary = "Generic Import"
		}
		refNo := strings.TrimSpace(g.group(m, GroupRef))
		if refNo == "" {
			refNo = RefNoPDFImport
		}

		result.Drafts = append(result.Drafts, Draft{
			Date:    NormalizeDate(date),
			Time:    clock,
			Summary: summary,
			RefNo:   refNo,
			Amount:  g.policy.Apply(summary, amt),
		})
	}
	return result, nil
}

// ParseScreenshot is unconfigured for generic banks: it returns ErrNoContent
// without attempting recognition.
func (g *Generic) ParseScreenshot(ctx context.Context, image []byte) (*Draft, error) {
	return nil, ocr.ErrNoContent
}

// group extracts a configured capture group from a regex match, "" when the
// field is unmapped or out of range.
func (g *Generic) group(match []string, key string) string {
	idx, ok := g.groups[key]
	if !ok || idx < 1 || idx >= len(match) {
		return ""
	}
	return match[idx]
}
