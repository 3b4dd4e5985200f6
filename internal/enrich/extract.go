package enrich

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls plain text out of an uploaded document's bytes.
// Only PDFs are parsed; other accepted upload types (Word) have no extractor
// here, and the enrichment step skips them as a non-fatal condition.
func ExtractText(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if !strings.Contains(contentType, "pdf") {
		return "", fmt.Errorf("text extraction not supported for content type %q", contentType)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text")
	}
	return text, nil
}
