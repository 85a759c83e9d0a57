// Package export renders transaction history as downloadable CSV or Excel
// files for offline bookkeeping.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/kytseng/bankbook/internal/domain/transaction"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Transactions"

// row is the flat export shape; gocsv drives the CSV header from these tags.
type row struct {
	AccountName string `csv:"account_name"`
	Date        string `csv:"date"`
	Time        string `csv:"time"`
	Summary     string `csv:"summary"`
	RefNo       string `csv:"ref_no"`
	Amount      string `csv:"amount"`
}

// Service renders transaction listings into export files.
type Service struct {
	txs transaction.Repository
}

// NewService creates a new export service
func NewService(txs transaction.Repository) *Service {
	return &Service{txs: txs}
}

// ContentType returns the MIME type for a format, or "" when unsupported.
func ContentType(f Format) string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ""
}

// Write renders every stored transaction to w in the requested format.
func (s *Service) Write(ctx context.Context, w io.Writer, format Format) error {
	txs, err := s.txs.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	rows := make([]row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, row{
			AccountName: tx.AccountName,
			Date:        tx.Date,
			Time:        tx.Time,
			Summary:     tx.Summary,
			RefNo:       tx.RefNo,
			Amount:      tx.Amount.String(),
		})
	}

	switch format {
	case FormatCSV:
		return s.writeCSV(w, rows)
	case FormatXLSX:
		return s.writeXLSX(w, rows)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

func (s *Service) writeCSV(w io.Writer, rows []row) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func (s *Service) writeXLSX(w io.Writer, rows []row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []any{"account_name", "date", "time", "summary", "ref_no", "amount"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		values := []any{r.AccountName, r.Date, r.Time, r.Summary, r.RefNo, r.Amount}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
