package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts text from machine-generated PDF statements,
// including password-encrypted ones.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract opens the PDF and concatenates the plain text of every page.
// The underlying reader panics on some malformed inputs, so opening is
// wrapped in a recover that converts the panic into an OpenError.
func (e *PDFExtractor) Extract(data []byte, password string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &OpenError{Reason: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	reader, err := e.open(data, password)
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not void the statement.
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}

func (e *PDFExtractor) open(data []byte, password string) (*pdf.Reader, error) {
	ra := bytes.NewReader(data)
	size := int64(len(data))

	if password == "" {
		reader, err := pdf.NewReader(ra, size)
		if err != nil {
			return nil, &OpenError{Reason: "invalid or encrypted document", Err: err}
		}
		return reader, nil
	}

	// The reader asks for passwords until an empty string is returned;
	// offer ours exactly once so a wrong password fails instead of looping.
	offered := false
	reader, err := pdf.NewReaderEncrypted(ra, size, func() string {
		if offered {
			return ""
		}
		offered = true
		return password
	})
	if err != nil {
		return nil, &OpenError{Reason: "invalid document or wrong password", Err: err}
	}
	return reader, nil
}
