package transaction

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func sampleTx() *Transaction {
	return &Transaction{
		AccountID: uuid.New(),
		Date:      "2024/05/20",
		Time:      "10:00:00",
		Summary:   "薪資",
		RefNo:     "A1",
		Amount:    decimal.NewFromInt(50000),
		TraceHash: "deadbeef",
	}
}

func TestInsert(t *testing.T) {
	t.Run("assigns id and scans created_at", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		tx := sampleTx()
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO transactions`).
			WithArgs(pgxmock.AnyArg(), tx.AccountID, tx.Date, tx.Time, tx.Summary, tx.RefNo, tx.Amount, tx.TraceHash).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

		require.NoError(t, repo.Insert(context.Background(), tx))
		assert.NotEqual(t, uuid.Nil, tx.ID)
		assert.Equal(t, now, tx.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateHash", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		tx := sampleTx()

		mock.ExpectQuery(`INSERT INTO transactions`).
			WithArgs(pgxmock.AnyArg(), tx.AccountID, tx.Date, tx.Time, tx.Summary, tx.RefNo, tx.Amount, tx.TraceHash).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Insert(context.Background(), tx)
		assert.ErrorIs(t, err, ErrDuplicateHash)
	})
}

func TestExistsByHash(t *testing.T) {
	t.Run("probes all digests", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		hashes := []string{"aa", "bb"}

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(hashes, (*uuid.UUID)(nil)).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.ExistsByHash(context.Background(), hashes, nil)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("passes exclusion id", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		excludeID := uuid.New()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs([]string{"aa"}, &excludeID).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		exists, err := repo.ExistsByHash(context.Background(), []string{"aa"}, &excludeID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("no digests short-circuits without a query", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)

		exists, err := repo.ExistsByHash(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateWithHash(t *testing.T) {
	t.Run("updates one row", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		tx := sampleTx()
		tx.ID = uuid.New()

		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tx.ID, tx.Date, tx.Time, tx.Summary, tx.RefNo, tx.Amount, tx.TraceHash).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateWithHash(context.Background(), tx))
	})

	t.Run("unique violation maps to ErrDuplicateHash", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		tx := sampleTx()
		tx.ID = uuid.New()

		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tx.ID, tx.Date, tx.Time, tx.Summary, tx.RefNo, tx.Amount, tx.TraceHash).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		assert.ErrorIs(t, repo.UpdateWithHash(context.Background(), tx), ErrDuplicateHash)
	})

	t.Run("missing row maps to sql.ErrNoRows", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		tx := sampleTx()
		tx.ID = uuid.New()

		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tx.ID, tx.Date, tx.Time, tx.Summary, tx.RefNo, tx.Amount, tx.TraceHash).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, repo.UpdateWithHash(context.Background(), tx), sql.ErrNoRows)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("missing row maps to sql.ErrNoRows", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		id := uuid.New()

		mock.ExpectQuery(`SELECT transaction_id`).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("scans a stored row", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		id := uuid.New()
		accountID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT transaction_id`).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{
				"transaction_id", "account_id", "trans_date", "trans_time",
				"summary", "ref_no", "amount", "trace_hash", "created_at",
			}).AddRow(id, accountID, "2024/05/20", "10:00:00", "薪資", "A1", decimal.NewFromInt(50000), "deadbeef", now))

		tx, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, tx.ID)
		assert.Equal(t, "薪資", tx.Summary)
		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(50000)))
	})
}

func TestDelete(t *testing.T) {
	t.Run("deletes one row", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		id := uuid.New()

		mock.ExpectExec(`DELETE FROM transactions`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("missing row maps to sql.ErrNoRows", func(t *testing.T) {
		mock := newMock(t)
		repo := NewPostgresRepository(mock)
		id := uuid.New()

		mock.ExpectExec(`DELETE FROM transactions`).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), sql.ErrNoRows)
	})
}

func TestList(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)
	id := uuid.New()
	accountID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT t.transaction_id`).
		WillReturnRows(pgxmock.NewRows([]string{
			"transaction_id", "account_id", "trans_date", "trans_time",
			"summary", "ref_no", "amount", "trace_hash", "created_at", "account_name",
		}).AddRow(id, accountID, "2024/05/20", "10:00:00", "薪資", "A1", decimal.NewFromInt(50000), "deadbeef", now, "郵局帳戶"))

	txs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "郵局帳戶", txs[0].AccountName)
}
