// Package fingerprint computes the canonical trace hash of a transaction's
// identity fields. Two transactions are the same if and only if their
// normalized (source, account, date, time, ref_no, amount) tuple matches, so
// the digest doubles as the storage uniqueness key.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source tags the import pathway a transaction arrived through. The tag is
// folded into the digest, and duplicate probes always check every tag, so a
// batch-imported row and a manual re-entry of the same transaction still
// collide.
type Source string

const (
	SourceBatch  Source = "BATCH"
	SourceManual Source = "MANUAL"
)

// Sources enumerates every tag for cross-pathway duplicate probes.
var Sources = []Source{SourceBatch, SourceManual}

const separator = "|"

var fieldEscaper = strings.NewReplacer(`\`, `\\`, separator, `\|`)

// Fingerprint returns the 64-character hex SHA-256 digest of the identity
// tuple. Fields are joined with a separator after escaping, so a ref_no that
// itself contains the separator cannot alias a shifted tuple. The amount
// hashes through its canonical decimal string; date and time are the already
// normalized display strings and are not re-parsed.
func Fingerprint(source Source, accountID uuid.UUID, date, timeOfDay, refNo string, amt decimal.Decimal) string {
	fields := []string{
		string(source),
		accountID.String(),
		date,
		timeOfDay,
		refNo,
		amt.String(),
	}
	for i, f := range fields {
		fields[i] = fieldEscaper.Replace(f)
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, separator)))
	return hex.EncodeToString(sum[:])
}

// All returns the digest of the tuple under every source tag, in the same
// order as Sources.
func All(accountID uuid.UUID, date, timeOfDay, refNo string, amt decimal.Decimal) []string {
	hashes := make([]string, 0, len(Sources))
	for _, s := range Sources {
		hashes = append(hashes, Fingerprint(s, accountID, date, timeOfDay, refNo, amt))
	}
	return hashes
}
