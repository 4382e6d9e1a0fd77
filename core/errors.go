package core

import (
	"errors"
	"fmt"
)

// UpstreamError reports a failed round-trip to the upstream origin:
// network failure, non-2xx status, or an unreadable body.
type UpstreamError struct {
	URL    string
	Status int // zero when the request never completed
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ExtractionError reports a detail page that could not be parsed as markup
// at all. Individual missing fields are tolerated and never reach here.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("parsing detail page: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ErrNotFound is returned by the generic fetch path when no search result
// matches the requested identifier exactly.
var ErrNotFound = errors.New("card not found")
