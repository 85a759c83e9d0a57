// Package document opens password-protectable statement documents and
// extracts their full text layout. Parsers depend only on the Extractor
// contract so tests can substitute canned text.
package document

import "fmt"

// Extractor turns raw statement bytes into the document's text layout.
type Extractor interface {
	// Extract returns the full text of the document, pages joined by
	// newlines. A corrupt stream or wrong password fails with *OpenError.
	Extract(data []byte, password string) (string, error)
}

// OpenError reports a document that could not be opened: invalid bytes,
// an unsupported encoding, or a wrong password. It is fatal to the single
// import that supplied the document.
type OpenError struct {
	Reason string
	Err    error
}

func (e *OpenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to open document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to open document: %s", e.Reason)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
