package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const requirementSeparator = ", "

type requirement struct {
	term    string
	pattern *regexp.Regexp
}

// RequirementSet is the ordered list of terms taken from a requirement text. The
// patterns are compiled once and reused for every candidate.
type RequirementSet struct {
	requirements []requirement
}

// NewRequirementSet splits text on ", " and keeps the non-blank terms in order.
// Duplicates are kept.
func NewRequirementSet(text string) *RequirementSet {
	set := &RequirementSet{}
	for _, term := range strings.Split(text, requirementSeparator) {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		set.requirements = append(set.requirements, requirement{
			term:    term,
			pattern: termPattern(term),
		})
	}
	return set
}

// Terms returns the requirement terms in order.
func (s *RequirementSet) Terms() []string {
	terms := make([]string, len(s.requirements))
	for i, r := range s.requirements {
		terms[i] = r.term
	}
	return terms
}

func (s *RequirementSet) Len() int {
	return len(s.requirements)
}

// Missing returns the terms that do not occur in text, in requirement order.
func (s *RequirementSet) Missing(text string) []string {
	missing := []string{}
	for _, r := range s.requirements {
		if !r.pattern.MatchString(text) {
			missing = append(missing, r.term)
		}
	}
	return missing
}

// MissingSkills is a one-shot helper around RequirementSet.
func MissingSkills(requirementText, candidateText string) []string {
	return NewRequirementSet(requirementText).Missing(candidateText)
}

// termPattern matches term literally and case-insensitively. A word boundary is only
// required on an edge whose character is a word character, so "C++" still matches
// before a space while "ML" does not match inside "HTML".
func termPattern(term string) *regexp.Regexp {
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)

	var b strings.Builder
	b.WriteString("(?i)")
	if isWordRune(first) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if isWordRune(last) {
		b.WriteString(`\b`)
	}
	return regexp.MustCompile(b.String())
}

// isWordRune mirrors the ASCII \w class used by \b.
func isWordRune(r rune) bool {
	return r < unicode.MaxASCII && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
