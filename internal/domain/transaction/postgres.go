package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository creates a new PostgreSQL transaction repository
func NewPostgresRepository(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert stores one transaction row
func (r *PostgresRepository) Insert(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, account_id, trans_date, trans_time, summary, ref_no, amount, trace_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		tx.ID,
		tx.AccountID,
		tx.Date,
		tx.Time,
		tx.Summary,
		tx.RefNo,
		tx.Amount,
		tx.TraceHash,
	).Scan(&tx.CreatedAt)

	if isUniqueViolation(err) {
		return ErrDuplicateHash
	}
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ExistsByHash reports whether any of the digests is already stored
func (r *PostgresRepository) ExistsByHash(ctx context.Context, hashes []string, excludeID *uuid.UUID) (bool, error) {
	if len(hashes) == 0 {
		return false, nil
	}

	query := `SELECT EXISTS (
		SELECT 1 FROM transactions
		WHERE trace_hash = ANY($1) AND ($2::uuid IS NULL OR transaction_id != $2)
	)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, hashes, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to probe trace hashes: %w", err)
	}
	return exists, nil
}

// UpdateWithHash applies edited fields and the recomputed trace hash
func (r *PostgresRepository) UpdateWithHash(ctx context.Context, tx *Transaction) error {
	query := `
		UPDATE transactions
		SET trans_date = $2, trans_time = $3, summary = $4, ref_no = $5, amount = $6, trace_hash = $7
		WHERE transaction_id = $1`

	tag, err := r.db.Exec(ctx, query,
		tx.ID,
		tx.Date,
		tx.Time,
		tx.Summary,
		tx.RefNo,
		tx.Amount,
		tx.TraceHash,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateHash
	}
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID fetches one transaction
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `
		SELECT transaction_id, account_id, trans_date, trans_time, summary, ref_no, amount, trace_hash, created_at
		FROM transactions
		WHERE transaction_id = $1`

	tx := &Transaction{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.AccountID,
		&tx.Date,
		&tx.Time,
		&tx.Summary,
		&tx.RefNo,
		&tx.Amount,
		&tx.TraceHash,
		&tx.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// Delete removes one transaction
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all transactions newest first with the owning account name
func (r *PostgresRepository) List(ctx context.Context) ([]ListedTransaction, error) {
	query := `
		SELECT t.transaction_id, t.account_id, t.trans_date, t.trans_time, t.summary, t.ref_no, t.amount, t.trace_hash, t.created_at,
		       a.account_name
		FROM transactions t
		JOIN accounts a ON t.account_id = a.account_id
		ORDER BY t.trans_date DESC, t.trans_time DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []ListedTransaction
	for rows.Next() {
		var tx ListedTransaction
		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.Date,
			&tx.Time,
			&tx.Summary,
			&tx.RefNo,
			&tx.Amount,
			&tx.TraceHash,
			&tx.CreatedAt,
			&tx.AccountName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
