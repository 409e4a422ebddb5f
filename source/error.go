package source

import "fmt"

// Error is a general error for source operations.
type Error string

func (e Error) Error() string {
	return "source: " + string(e)
}

// FetchError is a network/HTTP failure reaching an adapter's
// upstream: connection errors, timeouts and non-2xx statuses.
//
// Fetch failures are retried only on explicit user action,
// never automatically.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("source fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError means the adapter received a response but could not
// extract the expected structure out of it. It is a different error
// class than FetchError: it usually means the upstream changed its
// markup or API shape, not that the network is down.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("source parse %s: %s", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
