package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kytseng/bankbook/internal/domain/statement/document"
)

// Registry resolves a bank code to a parser. Resolution order: an explicitly
// registered coded parser, then a declarative configuration entry wrapped in
// the generic parser, then the designated default coded parser. All
// registration happens during process initialization; the registry is
// immutable afterwards, so resolution needs no locking.
type Registry struct {
	coded       map[string]Parser
	configured  map[string]*Generic
	defaultCode string
}

// NewRegistry creates an empty registry with the given fallback bank code.
func NewRegistry(defaultCode string) *Registry {
	return &Registry{
		coded:       make(map[string]Parser),
		configured:  make(map[string]*Generic),
		defaultCode: defaultCode,
	}
}

// Register binds a coded parser to a bank code. Call once per variant during
// startup, before the registry is shared.
func (r *Registry) Register(code string, p Parser) {
	r.coded[code] = p
}

// LoadConfigFile reads the declarative bank configuration and wraps each
// entry in a generic parser. A missing file is not an error: it simply means
// no configured banks.
func (r *Registry) LoadConfigFile(path string, docs document.Extractor) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read bank config: %w", err)
	}

	var configs map[string]BankConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return fmt.Errorf("failed to parse bank config: %w", err)
	}

	for code, cfg := range configs {
		g, err := NewGeneric(cfg, docs)
		if err != nil {
			return fmt.Errorf("bank config %q: %w", code, err)
		}
		r.configured[code] = g
	}
	return nil
}

// Resolve returns the parser for a bank code, or *UnknownBankError when no
// stage of the resolution order matches.
func (r *Registry) Resolve(code string) (Parser, error) {
	if p, ok := r.coded[code]; ok {
		return p, nil
	}
	if g, ok := r.configured[code]; ok {
		return g, nil
	}
	if p, ok := r.coded[r.defaultCode]; ok {
		return p, nil
	}
	return nil, &UnknownBankError{BankCode: code}
}
