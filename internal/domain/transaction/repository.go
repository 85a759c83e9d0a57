// Package transaction provides persistence for imported transactions and the
// trace-hash uniqueness probes used by deduplication.
package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrDuplicateHash reports an insert or update that collides with the
// trace-hash unique constraint. It is an expected branch of the import state
// machine, not a system fault.
var ErrDuplicateHash = errors.New("trace hash already exists")

// Transaction is a persisted statement row. TraceHash is the deterministic
// digest of its identity fields; the storage constraint on it is the final
// arbiter of uniqueness.
type Transaction struct {
	ID        uuid.UUID       `json:"transaction_id"`
	AccountID uuid.UUID       `json:"account_id"`
	Date      string          `json:"trans_date"`
	Time      string          `json:"trans_time"`
	Summary   string          `json:"summary"`
	RefNo     string          `json:"ref_no"`
	Amount    decimal.Decimal `json:"amount"`
	TraceHash string          `json:"-"`
	CreatedAt time.Time       `json:"-"`
}

// ListedTransaction joins the owning account name for listings.
type ListedTransaction struct {
	Transaction
	AccountName string `json:"account_name"`
}

// Repository defines transaction persistence operations.
type Repository interface {
	// Insert stores one row, reporting ErrDuplicateHash when the trace
	// hash is already present.
	Insert(ctx context.Context, tx *Transaction) error
	// ExistsByHash reports whether any of the digests exist, optionally
	// ignoring one transaction id (used when re-checking an edited row).
	ExistsByHash(ctx context.Context, hashes []string, excludeID *uuid.UUID) (bool, error)
	// UpdateWithHash applies edited fields together with their recomputed
	// trace hash.
	UpdateWithHash(ctx context.Context, tx *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all transactions, newest first, with account names.
	List(ctx context.Context) ([]ListedTransaction, error)
}
