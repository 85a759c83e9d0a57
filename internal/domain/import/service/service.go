// Package service orchestrates statement imports: parse, fingerprint,
// duplicate-check, persist. Every import walks the same state machine,
// DRAFT -> CHECKED -> INSERTED or REJECTED_DUPLICATE.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/kytseng/bankbook/internal/domain/account"
	"github.com/kytseng/bankbook/internal/domain/import/fingerprint"
	"github.com/kytseng/bankbook/internal/domain/statement/parser"
	"github.com/kytseng/bankbook/internal/domain/transaction"
	"github.com/kytseng/bankbook/pkg/metrics"
)

// ErrDuplicate reports a draft whose identity fields match an existing row.
// It is an expected outcome, surfaced as a structured result by handlers.
var ErrDuplicate = errors.New("transaction already exists")

// ErrNotFound reports an update against a missing transaction.
var ErrNotFound = errors.New("transaction not found")

// NamedImage is one screenshot in an OCR batch.
type NamedImage struct {
	Name string
	Data []byte
}

// ItemError is a per-item failure inside a batch that kept going.
type ItemError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// UpdateFields carries the editable fields of a manual correction.
type UpdateFields struct {
	Date    string          `json:"date"`
	Time    string          `json:"time"`
	Summary string          `json:"summary"`
	RefNo   string          `json:"ref_no"`
	Amount  decimal.Decimal `json:"amount"`
}

// ImportService wires parsers, fingerprinting and storage together.
type ImportService struct {
	registry *parser.Registry
	accounts account.Repository
	txs      transaction.Repository
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewImportService creates a new import service
func NewImportService(registry *parser.Registry, accounts account.Repository, txs transaction.Repository, logger *slog.Logger) *ImportService {
	return &ImportService{
		registry: registry,
		accounts: accounts,
		txs:      txs,
		logger:   logger,
		tracer:   otel.Tracer("bankbook/import"),
	}
}

// PreviewDocument parses a statement document without persisting anything:
// the first half of the preview-then-commit flow.
func (s *ImportService) PreviewDocument(ctx context.Context, bankCode string, data []byte, opts parser.ParseOptions) (*parser.StatementResult, error) {
	ctx, span := s.tracer.Start(ctx, "import.PreviewDocument")
	defer span.End()

	p, err := s.registry.Resolve(bankCode)
	if err != nil {
		return nil, err
	}

	result, err := p.ParseDocument(ctx, data, opts)
	if err != nil {
		metrics.DocumentsParsed.WithLabelValues(bankCode, "error").Inc()
		return nil, err
	}
	metrics.DocumentsParsed.WithLabelValues(bankCode, "ok").Inc()

	s.logger.Info("parsed statement document",
		slog.String("bank_code", bankCode),
		slog.String("account_fragment", result.AccountFragment),
		slog.Int("drafts", len(result.Drafts)),
	)
	return result, nil
}

// RecognizeScreenshots runs OCR field recovery over a batch of images.
// Items fail independently; one unreadable image never aborts its siblings.
func (s *ImportService) RecognizeScreenshots(ctx context.Context, bankCode string, images []NamedImage) ([]parser.Draft, []ItemError) {
	ctx, span := s.tracer.Start(ctx, "import.RecognizeScreenshots")
	defer span.End()

	p, err := s.registry.Resolve(bankCode)
	if err != nil {
		return nil, []ItemError{{Message: err.Error()}}
	}

	drafts := make([]parser.Draft, 0, len(images))
	var itemErrors []ItemError
	for _, img := range images {
		draft, err := p.ParseScreenshot(ctx, img.Data)
		if err != nil {
			metrics.ScreenshotsRecognized.WithLabelValues(bankCode, "error").Inc()
			itemErrors = append(itemErrors, ItemError{Name: img.Name, Message: err.Error()})
			continue
		}
		metrics.ScreenshotsRecognized.WithLabelValues(bankCode, "ok").Inc()
		drafts = append(drafts, *draft)
	}
	return drafts, itemErrors
}

// CheckDuplicates reports, positionally for each draft, whether storage
// already holds a row with the same identity fields under either source tag.
// excludeID ignores one transaction, for re-checking an edited record
// against the rest of history.
func (s *ImportService) CheckDuplicates(ctx context.Context, accountID uuid.UUID, drafts []parser.Draft, excludeID *uuid.UUID) ([]bool, error) {
	ctx, span := s.tracer.Start(ctx, "import.CheckDuplicates")
	defer span.End()

	results := make([]bool, len(drafts))
	for i, d := range drafts {
		d = normalizeDraft(d)
		hashes := fingerprint.All(accountID, d.Date, d.Time, d.RefNo, d.Amount)
		exists, err := s.txs.ExistsByHash(ctx, hashes, excludeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check duplicates: %w", err)
		}
		results[i] = exists
	}
	return results, nil
}

// CommitBatch persists drafts under the batch source tag. Drafts colliding
// with the trace-hash constraint are skipped silently; the returned count
// against len(drafts) backs the caller's "N of M imported" report.
func (s *ImportService) CommitBatch(ctx context.Context, accountID uuid.UUID, drafts []parser.Draft) (int, error) {
	ctx, span := s.tracer.Start(ctx, "import.CommitBatch")
	defer span.End()

	inserted := 0
	for _, d := range drafts {
		d = normalizeDraft(d)
		tx := &transaction.Transaction{
			AccountID: accountID,
			Date:      d.Date,
			Time:      d.Time,
			Summary:   d.Summary,
			RefNo:     d.RefNo,
			Amount:    d.Amount,
			TraceHash: fingerprint.Fingerprint(fingerprint.SourceBatch, accountID, d.Date, d.Time, d.RefNo, d.Amount),
		}

		err := s.txs.Insert(ctx, tx)
		if errors.Is(err, transaction.ErrDuplicateHash) {
			metrics.DuplicatesSkipped.WithLabelValues("batch").Inc()
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to insert draft: %w", err)
		}
		inserted++
		metrics.TransactionsImported.WithLabelValues("batch").Inc()
	}

	s.logger.Info("committed batch",
		slog.String("account_id", accountID.String()),
		slog.Int("submitted", len(drafts)),
		slog.Int("inserted", inserted),
	)
	return inserted, nil
}

// CommitManual persists a single manually entered or OCR-recovered draft
// under the manual source tag. The owning account is resolved by fragment
// and provisioned when unseen. A trace-hash collision reports ErrDuplicate
// and leaves no partial state.
func (s *ImportService) CommitManual(ctx context.Context, fragment, bankCode string, draft parser.Draft) (*account.Account, error) {
	ctx, span := s.tracer.Start(ctx, "import.CommitManual")
	defer span.End()

	d := normalizeDraft(draft)
	if d.Date == "" {
		return nil, fmt.Errorf("draft is missing a date")
	}

	acc, err := s.accounts.CreateOrGetByFragment(ctx, parser.NormalizeFragment(fragment), bankCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	tx := &transaction.Transaction{
		AccountID: acc.ID,
		Date:      d.Date,
		Time:      d.Time,
		Summary:   d.Summary,
		RefNo:     d.RefNo,
		Amount:    d.Amount,
		TraceHash: fingerprint.Fingerprint(fingerprint.SourceManual, acc.ID, d.Date, d.Time, d.RefNo, d.Amount),
	}

	err = s.txs.Insert(ctx, tx)
	if errors.Is(err, transaction.ErrDuplicateHash) {
		metrics.DuplicatesSkipped.WithLabelValues("manual").Inc()
		return acc, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	metrics.TransactionsImported.WithLabelValues("manual").Inc()
	return acc, nil
}

// Update applies a manual correction. The edited fields are re-fingerprinted
// under the manual tag and probed under both tags against every other row
// first, so an edit can never silently merge two records' identities; the
// stored row is untouched on rejection.
func (s *ImportService) Update(ctx context.Context, txID uuid.UUID, fields UpdateFields) error {
	ctx, span := s.tracer.Start(ctx, "import.Update")
	defer span.End()

	existing, err := s.txs.GetByID(ctx, txID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load transaction: %w", err)
	}

	if fields.Date == "" {
		return fmt.Errorf("update is missing a date")
	}
	if fields.Time == "" {
		fields.Time = parser.DefaultTime
	}
	fields.Date = parser.NormalizeDate(fields.Date)

	hashes := fingerprint.All(existing.AccountID, fields.Date, fields.Time, fields.RefNo, fields.Amount)
	collides, err := s.txs.ExistsByHash(ctx, hashes, &txID)
	if err != nil {
		return fmt.Errorf("failed to check edit collision: %w", err)
	}
	if collides {
		return ErrDuplicate
	}

	existing.Date = fields.Date
	existing.Time = fields.Time
	existing.Summary = fields.Summary
	existing.RefNo = fields.RefNo
	existing.Amount = fields.Amount
	existing.TraceHash = fingerprint.Fingerprint(fingerprint.SourceManual, existing.AccountID, fields.Date, fields.Time, fields.RefNo, fields.Amount)

	err = s.txs.UpdateWithHash(ctx, existing)
	if errors.Is(err, transaction.ErrDuplicateHash) {
		// The constraint is the final arbiter: a racing insert can land
		// between the probe and the update.
		return ErrDuplicate
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// normalizeDraft applies the field defaults every pathway shares before
// fingerprinting.
func normalizeDraft(d parser.Draft) parser.Draft {
	if d.Time == "" {
		d.Time = parser.DefaultTime
	}
	d.Date = parser.NormalizeDate(d.Date)
	return d
}
