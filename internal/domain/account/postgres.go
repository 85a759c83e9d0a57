package account

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

// querier is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	db querier
}

// NewPostgresRepository creates a new PostgreSQL account repository
func NewPostgresRepository(db querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account
func (r *PostgresRepository) Create(ctx context.Context, acc *Account) error {
	query := `
		INSERT INTO accounts (account_id, account_name, account_number, bank_code, initial_balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		acc.ID,
		acc.Name,
		acc.AccountNumber,
		acc.BankCode,
		acc.InitialBalance,
	).Scan(&acc.CreatedAt)

	if isUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// List returns all accounts with their computed balance
// (initial balance plus the sum of their transactions).
func (r *PostgresRepository) List(ctx context.Context) ([]AccountWithBalance, error) {
	query := `
		SELECT a.account_id, a.account_name, a.account_number, a.bank_code, a.initial_balance,
		       a.initial_balance + COALESCE(SUM(t.amount), 0) AS balance
		FROM accounts a
		LEFT JOIN transactions t ON a.account_id = t.account_id
		GROUP BY a.account_id
		ORDER BY a.account_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []AccountWithBalance
	for rows.Next() {
		var acc AccountWithBalance
		if err := rows.Scan(
			&acc.ID,
			&acc.Name,
			&acc.AccountNumber,
			&acc.BankCode,
			&acc.InitialBalance,
			&acc.Balance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// Update updates an account's display fields
func (r *PostgresRepository) Update(ctx context.Context, acc *Account) error {
	query := `
		UPDATE accounts
		SET account_name = $2, account_number = $3, bank_code = $4, initial_balance = $5
		WHERE account_id = $1`

	tag, err := r.db.Exec(ctx, query,
		acc.ID,
		acc.Name,
		acc.AccountNumber,
		acc.BankCode,
		acc.InitialBalance,
	)
	if isUniqueViolation(err) {
		return ErrNameTaken
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an account unless it still owns transactions
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	if count > 0 {
		return ErrHasTransactions
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByFragment finds an account by its normalized number fragment
func (r *PostgresRepository) GetByFragment(ctx context.Context, fragment string) (*Account, error) {
	query := `
		SELECT account_id, account_name, account_number, bank_code, initial_balance, created_at
		FROM accounts
		WHERE account_number = $1
		ORDER BY created_at
		LIMIT 1`

	acc := &Account{}
	err := r.db.QueryRow(ctx, query, fragment).Scan(
		&acc.ID,
		&acc.Name,
		&acc.AccountNumber,
		&acc.BankCode,
		&acc.InitialBalance,
		&acc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by fragment: %w", err)
	}
	return acc, nil
}

// CreateOrGetByFragment returns the account for a fragment, provisioning one
// when it does not exist. A concurrent import provisioning the same fragment
// trips the unique name constraint; the loser re-queries instead of failing.
func (r *PostgresRepository) CreateOrGetByFragment(ctx context.Context, fragment, bankCode string) (*Account, error) {
	acc, err := r.GetByFragment(ctx, fragment)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	acc = &Account{
		Name:          fmt.Sprintf("匯入帳戶-%s-%s", bankCode, fragment),
		AccountNumber: fragment,
		BankCode:      bankCode,
	}
	createErr := r.Create(ctx, acc)
	if createErr == nil {
		return acc, nil
	}
	if errors.Is(createErr, ErrNameTaken) {
		return r.GetByFragment(ctx, fragment)
	}
	return nil, createErr
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
