package services

import (
	"regexp"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	// Only the very start of the text is considered; names further down, with middle
	// names or in other casings are not recognised.
	namePattern = regexp.MustCompile(`^([A-Z][a-z]+)\s+([A-Z][a-z]+)`)
)

// ExtractEntities returns the first email-looking token and a two-word capitalised name
// at the start of text. Either may be nil.
func ExtractEntities(text string) (email, name *string) {
	if match := emailPattern.FindString(text); match != "" {
		email = &match
	}

	if groups := namePattern.FindStringSubmatch(text); groups != nil {
		fullName := groups[1] + " " + groups[2]
		name = &fullName
	}

	return email, name
}
