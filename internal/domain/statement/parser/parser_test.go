package parser

import (
	"context"
	"errors"

	"github.com/kytseng/bankbook/internal/domain/statement/document"
	"github.com/kytseng/bankbook/internal/domain/statement/ocr"
)

// fakeExtractor serves canned statement text in place of the PDF library.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(data []byte, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeRecognizer serves canned recognized lines in place of the OCR sidecar.
type fakeRecognizer struct {
	lines    []string
	err      error
	lastOpts ocr.ReadOptions
}

func (f *fakeRecognizer) ReadText(ctx context.Context, image []byte, opts ocr.ReadOptions) ([]string, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.lines, nil
}

var errBadDocument = &document.OpenError{Reason: "invalid document or wrong password", Err: errors.New("bad password")}
