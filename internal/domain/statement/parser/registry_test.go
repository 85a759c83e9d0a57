package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolutionOrder(t *testing.T) {
	docs := &fakeExtractor{}
	reader := &fakeRecognizer{}

	post := NewPostOffice(docs, reader)
	tbb := NewEnterpriseBank(docs, reader)

	reg := NewRegistry(BankCodePostOffice)
	reg.Register(BankCodePostOffice, post)
	reg.Register(BankCodeEnterpriseBank, tbb)

	t.Run("coded parser wins", func(t *testing.T) {
		p, err := reg.Resolve(BankCodeEnterpriseBank)
		require.NoError(t, err)
		assert.Same(t, tbb, p)
	})

	t.Run("unknown code falls back to default", func(t *testing.T) {
		p, err := reg.Resolve("999")
		require.NoError(t, err)
		assert.Same(t, post, p)
	})

	t.Run("no stage resolvable", func(t *testing.T) {
		empty := NewRegistry("700")
		_, err := empty.Resolve("999")
		require.Error(t, err)

		var unknownErr *UnknownBankError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "999", unknownErr.BankCode)
	})
}

func TestRegistry_ConfigEntryBeatsDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banks.json")
	cfg := `{
  "812": {
    "regex_pattern": "(?m)^(\\d{3}/\\d{2}/\\d{2})\\s+(\\S+)\\s+([\\d,]+)$",
    "groups": {"date": 1, "summary": 2, "amount": 3},
    "income_keywords": ["存入"]
  }
}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	docs := &fakeExtractor{}
	reg := NewRegistry(BankCodePostOffice)
	reg.Register(BankCodePostOffice, NewPostOffice(docs, &fakeRecognizer{}))
	require.NoError(t, reg.LoadConfigFile(path, docs))

	p, err := reg.Resolve("812")
	require.NoError(t, err)
	assert.IsType(t, &Generic{}, p)

	// A coded registration for the same code would still win.
	p, err = reg.Resolve(BankCodePostOffice)
	require.NoError(t, err)
	assert.IsType(t, &PostOffice{}, p)
}

func TestRegistry_LoadConfigFile_MissingFileIsFine(t *testing.T) {
	reg := NewRegistry("700")
	assert.NoError(t, reg.LoadConfigFile(filepath.Join(t.TempDir(), "absent.json"), &fakeExtractor{}))
}

func TestRegistry_LoadConfigFile_BadConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"812": {"regex_pattern": "(["}}`), 0o600))

	reg := NewRegistry("700")
	assert.Error(t, reg.LoadConfigFile(path, &fakeExtractor{}))
}
