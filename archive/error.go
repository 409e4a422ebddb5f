package archive

import "fmt"

// Error is a general error for archive operations.
type Error string

func (e Error) Error() string {
	return "archive: " + string(e)
}

// ReadError means a requested container or page does not exist
// locally. It is a page-level failure: one missing page must not be
// treated as a whole-chapter failure by callers.
type ReadError struct {
	Path string
	Page string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Page == "" {
		return fmt.Sprintf("archive read %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("archive read %s (page %s): %s", e.Path, e.Page, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
