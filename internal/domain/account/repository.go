// Package account provides account persistence and lookup for imports.
package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNameTaken reports a display name that another account already uses.
var ErrNameTaken = errors.New("account name already exists")

// ErrHasTransactions guards deletion of accounts that still own history.
var ErrHasTransactions = errors.New("account still has transactions")

// Account is a bank account rows are imported into. AccountNumber is the
// normalized last-5-digit fragment, a secondary lookup key during
// auto-provisioning; only the display name is globally unique.
type Account struct {
	ID             uuid.UUID       `json:"account_id"`
	Name           string          `json:"account_name"`
	AccountNumber  string          `json:"account_number"`
	BankCode       string          `json:"bank_code"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	CreatedAt      time.Time       `json:"-"`
}

// AccountWithBalance adds the computed running balance for listings.
type AccountWithBalance struct {
	Account
	Balance decimal.Decimal `json:"balance"`
}

// Repository defines account persistence operations.
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	List(ctx context.Context) ([]AccountWithBalance, error)
	Update(ctx context.Context, acc *Account) error
	// Delete refuses to remove an account that still has transactions.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByFragment(ctx context.Context, fragment string) (*Account, error)
	// CreateOrGetByFragment provisions an account for an unseen fragment.
	// Two imports racing to provision the same fragment are resolved by
	// re-querying when the unique name constraint fires.
	CreateOrGetByFragment(ctx context.Context, fragment, bankCode string) (*Account, error)
}
