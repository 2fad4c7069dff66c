package services

import (
	"errors"
	"fmt"
)

// ErrEmptyDescription means the description produced no terms, so every score is 0.
// It is a warning, not a failure.
var ErrEmptyDescription = errors.New("job description has no scorable terms")

// ExtractionError is returned when a document has no readable text.
type ExtractionError struct {
	Filename string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("could not extract text from %s: %v", e.Filename, e.Cause)
	}
	return fmt.Sprintf("could not extract text from %s", e.Filename)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// VectorizationError signals a broken invariant inside the vector space.
type VectorizationError struct {
	Message string
}

func (e *VectorizationError) Error() string {
	return fmt.Sprintf("vectorization error: %s", e.Message)
}
