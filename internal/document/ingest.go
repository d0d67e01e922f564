package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat is returned when the uploaded file is neither
	// plain text nor PDF.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailure is returned when PDF conversion fails or yields
	// no usable text.
	ErrExtractionFailure = errors.New("text extraction failed")
)

// Document is the normalized text of one ingested upload. A new upload,
// paste, or simplification produces a new Document value; an existing one
// is never mutated.
type Document struct {
	RawText string
}

func (d Document) Empty() bool {
	return strings.TrimSpace(d.RawText) == ""
}

// markupControls matches the markup control characters left over from the
// PDF-to-markup conversion: heading markers, emphasis, code fences,
// block quotes and list bullets.
var markupControls = regexp.MustCompile("[#*_`>\\-]")

// Ingest normalizes an uploaded file into a Document. contentType may be a
// MIME type or a file extension. The caller's reader is not consumed beyond
// ReadAt calls and is never closed.
func Ingest(data io.ReaderAt, size int64, contentType string) (Document, error) {
	switch normalizeType(contentType) {
	case "pdf":
		return ingestPDF(data, size)
	case "txt":
		return ingestText(data, size)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, contentType)
	}
}

// SupportedTypes lists the upload formats Ingest accepts.
func SupportedTypes() []string {
	return []string{".txt", ".pdf"}
}

func normalizeType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case ".pdf", "pdf", "application/pdf":
		return "pdf"
	case ".txt", "txt", "text/plain":
		return "txt"
	default:
		// MIME types may carry parameters, e.g. "text/plain; charset=utf-8".
		base, _, _ := strings.Cut(contentType, ";")
		switch strings.ToLower(strings.TrimSpace(base)) {
		case "application/pdf":
			return "pdf"
		case "text/plain":
			return "txt"
		}
		return ""
	}
}

func ingestText(data io.ReaderAt, size int64) (Document, error) {
	buf := make([]byte, size)
	if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
		return Document{}, fmt.Errorf("read text file: %w", err)
	}
	return Document{RawText: string(bytes.TrimSpace(buf))}, nil
}

func ingestPDF(data io.ReaderAt, size int64) (Document, error) {
	markup, err := convertPDF(data, size)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrExtractionFailure, err)
	}

	text := strings.TrimSpace(markupControls.ReplaceAllString(markup, ""))
	if text == "" {
		return Document{}, fmt.Errorf("%w: document contains no text", ErrExtractionFailure)
	}
	return Document{RawText: text}, nil
}

// convertPDF extracts the PDF's content as lightweight markup text, page by
// page. Pages that fail to decode are skipped; a fully unreadable document
// is an error.
func convertPDF(data io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	numPages := reader.NumPage()

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return "", errors.New("no extractable pages")
	}
	return buf.String(), nil
}

// StripMarkup removes markup control characters from already-converted text.
// Exposed for ingesting pre-rendered markup directly.
func StripMarkup(markup string) string {
	return strings.TrimSpace(markupControls.ReplaceAllString(markup, ""))
}
