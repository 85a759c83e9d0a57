// Package parser extracts structured transactions from bank statement
// documents and account screenshots. Each supported bank is a self-contained
// variant behind the same two-operation contract; banks without a coded
// variant are served by the configuration-driven generic parser.
package parser

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel values used when a source carries no usable field.
const (
	RefNoPDFImport = "PDF_IMPORT"
	RefNoImgImport = "IMG_IMPORT"
	UnknownAccount = "Unknown"
	DefaultTime    = "00:00:00"
)

// Draft is a parsed-but-not-yet-persisted transaction. Dates are normalized
// Gregorian YYYY/MM/DD before a draft leaves a parser.
type Draft struct {
	Date    string          `json:"date"`
	Time    string          `json:"time"`
	Summary string          `json:"summary"`
	RefNo   string          `json:"ref_no"`
	Amount  decimal.Decimal `json:"amount"`

	// AccountNumber is only recovered on the screenshot path, where the
	// image itself names the account.
	AccountNumber string `json:"account_number,omitempty"`
}

// StatementResult is the output of parsing one statement document.
type StatementResult struct {
	AccountFragment string  `json:"account_number"`
	Drafts          []Draft `json:"transactions"`
}

// ParseOptions carries per-call parsing inputs.
type ParseOptions struct {
	// Password unlocks an encrypted statement document.
	Password string
	// TargetAccount, when set, restricts multi-account statement dumps to
	// blocks whose outgoing account shares its last two digits.
	TargetAccount string
}

// Parser is the capability set every bank variant implements.
type Parser interface {
	// ParseDocument extracts the account fragment and the ordered drafts
	// from a statement document. A corrupt document or wrong password
	// fails as a single *document.OpenError; malformed blocks inside an
	// otherwise good document are silently skipped.
	ParseDocument(ctx context.Context, data []byte, opts ParseOptions) (*StatementResult, error)

	// ParseScreenshot recovers a single draft from an account screenshot.
	// Fields that cannot be located come back empty rather than failing;
	// an image with no transaction-like content at all returns
	// ocr.ErrNoContent.
	ParseScreenshot(ctx context.Context, image []byte) (*Draft, error)
}

// UnknownBankError reports a bank code that no registry stage could resolve.
type UnknownBankError struct {
	BankCode string
}

func (e *UnknownBankError) Error() string {
	return fmt.Sprintf("no parser found for bank code %q", e.BankCode)
}
