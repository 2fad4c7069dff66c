package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var (
	errNoText            = errors.New("no text content found in document")
	errUnsupportedFormat = errors.New("unsupported document format")
)

type DocumentParserService interface {
	ExtractText(ctx context.Context, filename, mimeType string, content []byte) (string, error)
}

type documentParserService struct {
	timeout time.Duration
	extract func(filename, mimeType string, content []byte) (string, error)
}

// NewDocumentParserService returns a parser that gives up on a single document after
// timeout. A zero timeout disables the limit.
func NewDocumentParserService(timeout time.Duration) DocumentParserService {
	return &documentParserService{timeout: timeout, extract: extractByFormat}
}

type parseResult struct {
	text string
	err  error
}

// ExtractText implements DocumentParserService.
func (p *documentParserService) ExtractText(ctx context.Context, filename, mimeType string, content []byte) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	done := make(chan parseResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- parseResult{err: fmt.Errorf("parser panic: %v", r)}
			}
		}()
		text, err := p.extract(filename, mimeType, content)
		done <- parseResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", &ExtractionError{Filename: filename, Cause: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			return "", &ExtractionError{Filename: filename, Cause: res.err}
		}
		if strings.TrimSpace(res.text) == "" {
			return "", &ExtractionError{Filename: filename, Cause: errNoText}
		}
		return res.text, nil
	}
}

func extractByFormat(filename, mimeType string, content []byte) (string, error) {
	switch DetectFormat(filename, mimeType) {
	case mimePDF:
		return extractPDFText(content)
	case mimeDOCX:
		return extractDocxText(content)
	case mimeText:
		return strings.ToValidUTF8(string(content), ""), nil
	default:
		return "", fmt.Errorf("%w: %s", errUnsupportedFormat, filename)
	}
}

// DetectFormat picks the document format from the declared MIME type, falling back to
// the file extension when the type is missing or generic.
func DetectFormat(filename, mimeType string) string {
	if mediaType, _, err := mime.ParseMediaType(mimeType); err == nil {
		switch mediaType {
		case mimePDF, mimeDOCX, mimeText:
			return mediaType
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return mimePDF
	case ".docx":
		return mimeDOCX
	case ".txt":
		return mimeText
	}
	return ""
}

func extractPDFText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// a broken page should not hide the rest of the document
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

func extractDocxText(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	xml := strings.ReplaceAll(doc.Editable().GetContent(), "</w:p>", "</w:p>\n")
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(xml))
	if err != nil {
		return "", fmt.Errorf("failed to read docx body: %w", err)
	}

	return CleanText(parsed.Text()), nil
}

// CleanText trims every line and drops empty ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
