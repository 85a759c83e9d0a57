package fingerprint

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	accountID := uuid.New()
	amt := decimal.RequireFromString("1234.56")

	a := Fingerprint(SourceBatch, accountID, "2024/05/20", "08:30:15", "A123456", amt)
	b := Fingerprint(SourceBatch, accountID, "2024/05/20", "08:30:15", "A123456", amt)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprint_EveryFieldChangesDigest(t *testing.T) {
	accountID := uuid.New()
	amt := decimal.RequireFromString("500")
	base := Fingerprint(SourceBatch, accountID, "2024/05/20", "08:30:15", "R1", amt)

	variants := []string{
		Fingerprint(SourceManual, accountID, "2024/05/20", "08:30:15", "R1", amt),
		Fingerprint(SourceBatch, uuid.New(), "2024/05/20", "08:30:15", "R1", amt),
		Fingerprint(SourceBatch, accountID, "2024/05/21", "08:30:15", "R1", amt),
		Fingerprint(SourceBatch, accountID, "2024/05/20", "08:30:16", "R1", amt),
		Fingerprint(SourceBatch, accountID, "2024/05/20", "08:30:15", "R2", amt),
		Fingerprint(SourceBatch, accountID, "2024/05/20", "08:30:15", "R1", amt.Add(decimal.New(1, 0))),
	}

	seen := map[string]bool{base: true}
	for i, v := range variants {
		assert.False(t, seen[v], "variant %d collided", i)
		seen[v] = true
	}
}

func TestFingerprint_SeparatorInRefNoCannotAlias(t *testing.T) {
	accountID := uuid.New()
	amt := decimal.RequireFromString("100")

	// Without escaping, these two tuples join to the same raw string: the
	// separator inside ref_no shifts fields into each other. The digests
	// must still differ.
	a := Fingerprint(SourceBatch, accountID, "2024/05/20", "00:00:00", "R|100|0", amt)
	b := Fingerprint(SourceBatch, accountID, "2024/05/20", "00:00:00|R", "100|0", amt)
	assert.NotEqual(t, a, b)
}

func TestAll_CoversEverySource(t *testing.T) {
	accountID := uuid.New()
	refNo := gofakeit.LetterN(8)
	amt := decimal.NewFromInt(int64(gofakeit.Number(1, 100000)))

	hashes := All(accountID, "2024/01/01", "12:00:00", refNo, amt)
	require.Len(t, hashes, len(Sources))

	assert.Equal(t, Fingerprint(SourceBatch, accountID, "2024/01/01", "12:00:00", refNo, amt), hashes[0])
	assert.Equal(t, Fingerprint(SourceManual, accountID, "2024/01/01", "12:00:00", refNo, amt), hashes[1])
}
