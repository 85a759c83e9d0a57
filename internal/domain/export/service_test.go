package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kytseng/bankbook/internal/domain/transaction"
)

type stubTxRepo struct {
	rows []transaction.ListedTransaction
	err  error
}

func (s *stubTxRepo) Insert(context.Context, *transaction.Transaction) error { return nil }
func (s *stubTxRepo) ExistsByHash(context.Context, []string, *uuid.UUID) (bool, error) {
	return false, nil
}
func (s *stubTxRepo) UpdateWithHash(context.Context, *transaction.Transaction) error { return nil }
func (s *stubTxRepo) GetByID(context.Context, uuid.UUID) (*transaction.Transaction, error) {
	return nil, nil
}
func (s *stubTxRepo) Delete(context.Context, uuid.UUID) error { return nil }
func (s *stubTxRepo) List(context.Context) ([]transaction.ListedTransaction, error) {
	return s.rows, s.err
}

func sampleRows() []transaction.ListedTransaction {
	return []transaction.ListedTransaction{
		{
			Transaction: transaction.Transaction{
				Date:    "2024/05/20",
				Time:    "10:00:00",
				Summary: "薪資",
				RefNo:   "A1",
				Amount:  decimal.NewFromInt(50000),
			},
			AccountName: "郵局帳戶",
		},
		{
			Transaction: transaction.Transaction{
				Date:    "2024/05/21",
				Time:    "11:30:00",
				Summary: "提款",
				RefNo:   "A2",
				Amount:  decimal.NewFromInt(-1200),
			},
			AccountName: "郵局帳戶",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	svc := NewService(&stubTxRepo{rows: sampleRows()})

	var buf bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), &buf, FormatCSV))

	out := buf.String()
	assert.Contains(t, out, "account_name,date,time,summary,ref_no,amount")
	assert.Contains(t, out, "郵局帳戶,2024/05/20,10:00:00,薪資,A1,50000")
	assert.Contains(t, out, "-1200")
}

func TestWriteXLSX(t *testing.T) {
	svc := NewService(&stubTxRepo{rows: sampleRows()})

	var buf bytes.Buffer
	require.NoError(t, svc.Write(context.Background(), &buf, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"account_name", "date", "time", "summary", "ref_no", "amount"}, rows[0])
	assert.Equal(t, "薪資", rows[1][3])
	assert.Equal(t, "-1200", rows[2][5])
}

func TestWriteUnsupportedFormat(t *testing.T) {
	svc := NewService(&stubTxRepo{rows: sampleRows()})

	err := svc.Write(context.Background(), &bytes.Buffer{}, Format("pdf"))
	assert.Error(t, err)
}

func TestWriteRepositoryError(t *testing.T) {
	svc := NewService(&stubTxRepo{err: errors.New("connection lost")})

	err := svc.Write(context.Background(), &bytes.Buffer{}, FormatCSV)
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
	assert.NotEmpty(t, ContentType(FormatXLSX))
	assert.Empty(t, ContentType(Format("pdf")))
}
