// ABOUTME: Document text extraction for the import pipeline
// ABOUTME: PDFs are capped at a page budget; oversized files fail with a descriptive error

package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxPages caps how large a document the import pipeline will read.
// Hallway bulletins fit in a handful of pages; a 200-page handbook is
// a mistake we want to report, not chew through.
const MaxPages = 30

// OversizedError reports a document over the page cap. Unlike the
// storage and cache layers, this error must reach the operator
// verbatim so they know to split the file.
type OversizedError struct {
	Pages int
}

func (e *OversizedError) Error() string {
	return fmt.Sprintf("document has %d pages, over the %d page limit; split it and import the parts", e.Pages, MaxPages)
}

// Text extracts plain text from the document at path. PDF and plain
// text files are supported.
func Text(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return pdfText(path)
	case ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported document type %q", filepath.Ext(path))
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	if pages := r.NumPage(); pages > MaxPages {
		return "", &OversizedError{Pages: pages}
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(data), nil
}
