package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		mimeType string
		want     string
	}{
		{"cv.pdf", "application/pdf", mimePDF},
		{"cv", "application/pdf", mimePDF},
		{"cv.PDF", "", mimePDF},
		{"cv.docx", "application/octet-stream", mimeDOCX},
		{"cv.bin", mimeDOCX, mimeDOCX},
		{"cv.txt", "text/plain; charset=utf-8", mimeText},
		{"notes.md", "", ""},
		{"photo.png", "image/png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.mimeType, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, tt.mimeType))
		})
	}
}

func TestDocumentParser_PlainText(t *testing.T) {
	parser := NewDocumentParserService(time.Second)

	text, err := parser.ExtractText(context.Background(), "cv.txt", "text/plain", []byte("Jane Doe\nGo developer"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDocumentParser_PDFPagesInOrder(t *testing.T) {
	parser := NewDocumentParserService(5 * time.Second)

	text, err := parser.ExtractText(context.Background(), "two_pages.pdf", "application/pdf", readTestdata(t, "two_pages.pdf"))
	require.NoError(t, err)

	first := strings.Index(text, "Jane Doe first page Go engineer")
	second := strings.Index(text, "Second page Kubernetes and SQL")
	require.NotEqual(t, -1, first, "page 1 text missing from %q", text)
	require.NotEqual(t, -1, second, "page 2 text missing from %q", text)
	assert.Less(t, first, second)
}

func TestDocumentParser_DOCXParagraphs(t *testing.T) {
	parser := NewDocumentParserService(5 * time.Second)

	text, err := parser.ExtractText(context.Background(), "resume.docx", "", readTestdata(t, "resume.docx"))
	require.NoError(t, err)

	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "Jane Doe", lines[0])
	assert.Contains(t, text, "jane@doe.dev Go, SQL")
	assert.Less(t, strings.Index(text, "Go, SQL"), strings.Index(text, "Platform engineer"))

	email, name := ExtractEntities(text)
	require.NotNil(t, email)
	require.NotNil(t, name)
	assert.Equal(t, "jane@doe.dev", *email)
	assert.Equal(t, "Jane Doe", *name)
}

func TestDocumentParser_Failures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		cause    error
	}{
		{name: "unsupported", filename: "photo.png", content: []byte{0x89, 'P', 'N', 'G'}, cause: errUnsupportedFormat},
		{name: "whitespace only", filename: "blank.txt", content: []byte(" \n\t "), cause: errNoText},
		{name: "invalid pdf", filename: "cv.pdf", content: []byte("definitely not a pdf")},
		{name: "invalid docx", filename: "cv.docx", content: []byte("not a zip archive")},
	}

	parser := NewDocumentParserService(time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ExtractText(context.Background(), tt.filename, "", tt.content)
			require.Error(t, err)

			var extractErr *ExtractionError
			require.True(t, errors.As(err, &extractErr))
			assert.Equal(t, tt.filename, extractErr.Filename)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestDocumentParser_Timeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	parser := &documentParserService{
		timeout: 20 * time.Millisecond,
		extract: func(string, string, []byte) (string, error) {
			<-release
			return "too late", nil
		},
	}

	_, err := parser.ExtractText(context.Background(), "slow.pdf", mimePDF, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDocumentParser_RecoversPanics(t *testing.T) {
	parser := &documentParserService{
		timeout: time.Second,
		extract: func(string, string, []byte) (string, error) {
			panic("malformed xref table")
		},
	}

	_, err := parser.ExtractText(context.Background(), "evil.pdf", mimePDF, nil)

	var extractErr *ExtractionError
	require.True(t, errors.As(err, &extractErr))
	assert.Contains(t, err.Error(), "malformed xref table")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a\nb c", CleanText("  a  \n\n   \n b c \n"))
	assert.Equal(t, "", CleanText(" \n "))
}
