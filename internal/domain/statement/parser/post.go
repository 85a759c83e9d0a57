package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kytseng/bankbook/internal/domain/statement/document"
	"github.com/kytseng/bankbook/internal/domain/statement/ocr"
	"github.com/kytseng/bankbook/pkg/amount"
)

// BankCodePostOffice is the clearing code of Chunghwa Post.
const BankCodePostOffice = "700"

var (
	// One transaction per line: date, time, summary, reference, amount.
	postLinePattern = regexp.MustCompile(`(?m)(\d{3}/\d{2}/\d{2})\s+(\d{2}:\d{2}:\d{2})\s+(\S+)\s+(.*?)\s+([\d,]+)$`)

	postAccountPattern = regexp.MustCompile(`帳\s*號[:：\s]*([\d*\-]+)`)

	// Screenshot anchors.
	postScreenshotAccount = regexp.MustCompile(`帳\s*號\s*[*\d\-]*?(\d{5})`)
	postScreenshotDate    = regexp.MustCompile(`\d{3}/\d{2}/\d{2}`)
	postScreenshotTime    = regexp.MustCompile(`\d{2}:\d{2}:\d{2}`)
	cjkRun                = regexp.MustCompile(`\p{Han}+`)
	thousandsNumeral      = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?`)
	bareNumeral           = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// PostOffice parses Chunghwa Post passbook statements. The document layout is
// one transaction per line; screenshots are the mobile app's transaction
// detail view, segmented on the 交易 label.
type PostOffice struct {
	docs   document.Extractor
	reader ocr.Recognizer
	policy *SignPolicy
}

// NewPostOffice creates the post office parser.
func NewPostOffice(docs document.Extractor, reader ocr.Recognizer) *PostOffice {
	return &PostOffice{
		docs:   docs,
		reader: reader,
		policy: IncomeKeywords("薪資", "利息", "轉入", "存入", "退款"),
	}
}

// ParseDocument extracts the account fragment and every per-line transaction.
func (p *PostOffice) ParseDocument(ctx context.Context, data []byte, opts ParseOptions) (*StatementResult, error) {
	text, err := p.docs.Extract(data, opts.Password)
	if err != nil {
		return nil, err
	}

	fragment := UnknownAccount
	if m := postAccountPattern.FindStringSubmatch(text); m != nil {
		fragment = NormalizeFragment(m[1])
	}

	result := &StatementResult{AccountFragment: fragment, Drafts: []Draft{}}
	for _, m := range postLinePattern.FindAllStringSubmatch(text, -1) {
		date, clock, summary, refNo := m[1], m[2], m[3], strings.TrimSpace(m[4])

		amt, err := amount.Parse(m[5])
		if err != nil {
			continue
		}
		if refNo == "" {
			refNo = RefNoPDFImport
		}

		result.Drafts = append(result.Drafts, Draft{
			Date:    NormalizeDate(date),
			Time:    clock,
			Summary: summary,
			RefNo:   refNo,
			Amount:  p.policy.Apply(summary, amt),
		})
	}
	return result, nil
}

// ParseScreenshot recovers one draft from a transaction-detail screenshot.
// Recognition runs in paragraph mode with a widened beam; fields that cannot
// be located stay empty. 交易 is the layout's recurring section label, so the
// recognized text is segmented on it before anchor lookup.
func (p *PostOffice) ParseScreenshot(ctx context.Context, image []byte) (*Draft, error) {
	lines, err := p.reader.ReadText(ctx, image, ocr.ReadOptions{
		Paragraph: true,
		Enhance:   true,
	})
	if err != nil {
		return nil, err
	}

	fullText := strings.Join(lines, " ")
	sections := strings.Split(fullText, "交易")
	if len(sections) == 0 || strings.TrimSpace(fullText) == "" {
		return nil, ocr.ErrNoContent
	}

	draft := &Draft{RefNo: RefNoImgImport, Amount: decimal.Zero}
	head := sections[0]

	if m := postScreenshotAccount.FindStringSubmatch(head); m != nil {
		draft.AccountNumber = m[1]
	}

	// Amount: prefer the longest thousands-separated numeral, fall back to
	// the trailing bare number of the head section.
	if amt, ok := recoverAmount(head); ok {
		draft.Amount = amt
	}

	summary := cjkRun.FindAllString(strings.ReplaceAll(head, "帳號", ""), -1)
	draft.Summary = strings.Join(summary, "")

	if len(sections) > 1 {
		if m := postScreenshotDate.FindString(sections[1]); m != "" {
			draft.Date = NormalizeDate(m)
		}
		if m := postScreenshotTime.FindString(sections[1]); m != "" {
			draft.Time = m
		}
	}
	if draft.Time == "" {
		draft.Time = DefaultTime
	}

	if len(sections) > 2 {
		if fields := strings.Fields(sections[2]); len(fields) > 1 {
			draft.RefNo = fields[1]
		}
	}

	if draft.Date == "" && draft.Amount.IsZero() && draft.AccountNumber == "" {
		return nil, ocr.ErrNoContent
	}

	draft.Amount = p.policy.Apply(fullText, draft.Amount)
	return draft, nil
}

// recoverAmount finds the most plausible monetary figure in a text span:
// the longest thousands-separated numeral, else the last bare number.
func recoverAmount(s string) (decimal.Decimal, bool) {
	best := ""
	for _, m := range thousandsNumeral.FindAllString(s, -1) {
		if len(m) > len(best) {
			best = m
		}
	}
	if best == "" {
		fields := strings.Fields(s)
		for i := len(fields) - 1; i >= 0; i-- {
			if m := bareNumeral.FindString(fields[i]); m != "" && m == fields[i] {
				best = m
				break
			}
		}
	}
	if best == "" {
		return decimal.Zero, false
	}
	amt, err := amount.Parse(best)
	if err != nil {
		return decimal.Zero, false
	}
	return amt, true
}
