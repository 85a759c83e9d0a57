package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kytseng/bankbook/internal/domain/statement/document"
	"github.com/kytseng/bankbook/internal/domain/statement/ocr"
)

// BankCodeEnterpriseBank is the clearing code of Taiwan Business Bank.
const BankCodeEnterpriseBank = "050"

const tbbBlockAnchor = "轉出帳號"

var (
	tbbAccountPattern = regexp.MustCompile(`(?:帳號|050)[:\-\s]*\d+(\d{5})`)

	tbbBlockAccount = regexp.MustCompile(`\A[:：\s]*([\d*\-]+)`)
	tbbDatePattern  = regexp.MustCompile(`\d{3,4}[/\-]\d{2}[/\-]\d{2}`)
	tbbTimePattern  = regexp.MustCompile(`\d{2}:\d{2}(?::\d{2})?`)
	tbbRefPattern   = regexp.MustCompile(`[A-Z]+\d{6,}`)
)

// EnterpriseBank parses Taiwan Business Bank statements. One transaction
// spans several lines, so the text is segmented into blocks on the outgoing
// account anchor and fields are recovered per block. Statement dumps can mix
// several accounts; a target-account option filters blocks by suffix.
type EnterpriseBank struct {
	docs   document.Extractor
	reader ocr.Recognizer
	policy *SignPolicy
}

// NewEnterpriseBank creates the Taiwan Business Bank parser.
func NewEnterpriseBank(docs document.Extractor, reader ocr.Recognizer) *EnterpriseBank {
	return &EnterpriseBank{
		docs:   docs,
		reader: reader,
		policy: ExpenseKeywords("支出", "提款", "扣款", "轉出", "手續費"),
	}
}

// ParseDocument splits the statement on the outgoing-account anchor and
// recovers one draft per block. Blocks missing a date or amount are skipped.
func (b *EnterpriseBank) ParseDocument(ctx context.Context, data []byte, opts ParseOptions) (*StatementResult, error) {
	text, err := b.docs.Extract(data, opts.Password)
	if err != nil {
		return nil, err
	}

	fragment := UnknownAccount
	if m := tbbAccountPattern.FindStringSubmatch(text); m != nil {
		fragment = NormalizeFragment(m[1])
	}

	targetSuffix := ""
	if opts.TargetAccount != "" {
		targetSuffix = lastDigits(opts.TargetAccount, 2)
	}

	result := &StatementResult{AccountFragment: fragment, Drafts: []Draft{}}
	blocks := strings.Split(text, tbbBlockAnchor)
	for _, block := range blocks[1:] {
		draft, blockAccount, ok := b.parseBlock(block)
		if !ok {
			continue
		}
		if targetSuffix != "" && lastDigits(blockAccount, 2) != targetSuffix {
			continue
		}
		result.Drafts = append(result.Drafts, draft)
	}
	return result, nil
}

// parseBlock recovers the fields of one anchored block. The block opens with
// the outgoing account number; date, time, summary, reference, and amount sit
// on the following lines in bank-dependent order.
func (b *EnterpriseBank) parseBlock(block string) (Draft, string, bool) {
	blockAccount := ""
	if m := tbbBlockAccount.FindStringSubmatch(block); m != nil {
		blockAccount = m[1]
	}

	date := tbbDatePattern.FindString(block)
	if date == "" {
		return Draft{}, "", false
	}
	amt, ok := recoverAmount(block)
	if !ok {
		return Draft{}, "", false
	}

	clock := DefaultTime
	if m := tbbTimePattern.FindString(block); m != "" {
		clock = NormalizeTime(m)
	}

	summary := "台企銀交易"
	if runs := cjkRun.FindAllString(block, -1); len(runs) > 0 {
		summary = runs[0]
	}

	refNo := RefNoPDFImport
	if m := tbbRefPattern.FindString(block); m != "" {
		refNo = m
	}

	return Draft{
		Date:    NormalizeDate(date),
		Time:    clock,
		Summary: summary,
		RefNo:   refNo,
		Amount:  b.policy.Apply(summary, amt),
	}, blockAccount, true
}

// ParseScreenshot recovers one draft from the bank app's transaction detail
// view. The detail section begins after the 交易明細內容 heading; the
// reference number follows the 收付行 label.
func (b *EnterpriseBank) ParseScreenshot(ctx context.Context, image []byte) (*Draft, error) {
	lines, err := b.reader.ReadText(ctx, image, ocr.ReadOptions{
		Paragraph: false,
		Enhance:   true,
	})
	if err != nil {
		return nil, err
	}

	fullText := strings.Join(lines, " ")
	if idx := strings.LastIndex(fullText, "交易明細內容"); idx >= 0 {
		fullText = fullText[idx+len("交易明細內容"):]
	}
	if strings.TrimSpace(fullText) == "" {
		return nil, ocr.ErrNoContent
	}

	draft := &Draft{Summary: "台企銀轉帳", RefNo: RefNoImgImport, Amount: decimal.Zero}

	head := fullText
	if idx := strings.Index(fullText, "摘要"); idx >= 0 {
		head = fullText[:idx]
	}
	if amt, ok := recoverAmount(head); ok {
		draft.Amount = amt
	}
	if m := tbbDatePattern.FindString(head); m != "" {
		draft.Date = NormalizeDate(m)
	}
	if m := tbbTimePattern.FindString(head); m != "" {
		draft.Time = NormalizeTime(m)
	}
	if draft.Time == "" {
		draft.Time = DefaultTime
	}

	// Summary is the first token after the 摘要 label; anchor lookup is
	// fuzzy because the label itself may be misrecognized.
	segments := strings.Fields(fullText)
	if idx := ocr.FindAnchor(segments, "摘要"); idx >= 0 && idx+1 < len(segments) {
		draft.Summary = segments[idx+1]
	}
	if idx := ocr.FindAnchor(segments, "收付行"); idx >= 0 && idx+1 < len(segments) {
		draft.RefNo = segments[idx+1]
	}

	if draft.Date == "" && draft.Amount.IsZero() {
		return nil, ocr.ErrNoContent
	}

	draft.Amount = b.policy.Apply(fullText, draft.Amount)
	return draft, nil
}
