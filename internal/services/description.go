package services

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	htmlTagPattern = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	// Generic type parameters such as List<String> must not count as markup, so only
	// real document elements mark a description as HTML.
	htmlElementPattern = regexp.MustCompile(
		`(?i)<(?:/?(?:html|body|p|div|br|li|ul|ol|span|strong|em|h[1-6]|table|tr|td|section|article)|!doctype)(?:\s[^>]*)?/?>`,
	)
)

// IsHTMLDescription reports whether description contains real HTML elements.
func IsHTMLDescription(description string) bool {
	return htmlElementPattern.MatchString(description)
}

// NormalizeDescription turns a pasted job posting into plain text. Markup copied from a
// job board is flattened; plain text is only trimmed.
func NormalizeDescription(description string) string {
	description = strings.TrimSpace(description)
	if !IsHTMLDescription(description) {
		return description
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return strings.TrimSpace(htmlTagPattern.ReplaceAllString(description, " "))
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("br, p, li, div, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return CleanText(doc.Text())
}
