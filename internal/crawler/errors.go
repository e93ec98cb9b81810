package crawler

import "fmt"

// ErrorKind classifies crawl failures. Only PolitenessBlocked and
// Transport abort a URL's record content; the rest are recovered at the
// field level.
type ErrorKind string

// Error taxonomy values recorded in the output error column.
const (
	ErrPolitenessBlocked     ErrorKind = "politeness_blocked"
	ErrTransport             ErrorKind = "transport"
	ErrHTTPStatus            ErrorKind = "http_status"
	ErrParseFailure          ErrorKind = "parse_failure"
	ErrClassificationFailure ErrorKind = "classification_failure"
)

// CrawlError pairs an ErrorKind with a human-readable message. The
// message is recorded verbatim in the output row.
type CrawlError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *CrawlError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *CrawlError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewPolitenessBlocked builds the error emitted for robots.txt disallows.
func NewPolitenessBlocked() *CrawlError {
	return &CrawlError{
		Kind:    ErrPolitenessBlocked,
		Message: "Blocked by robots.txt",
	}
}

// NewTransportError wraps a network-level failure (DNS, connect, timeout).
func NewTransportError(err error) *CrawlError {
	return &CrawlError{
		Kind:    ErrTransport,
		Message: fmt.Sprintf("transport error: %v", err),
		Cause:   err,
	}
}

// NewHTTPStatusError marks a non-2xx response.
func NewHTTPStatusError(code int) *CrawlError {
	return &CrawlError{
		Kind:       ErrHTTPStatus,
		StatusCode: code,
		Message:    fmt.Sprintf("http status %d", code),
	}
}

// NewParseFailure wraps a malformed HTML/CSS/date input.
func NewParseFailure(err error) *CrawlError {
	return &CrawlError{
		Kind:    ErrParseFailure,
		Message: fmt.Sprintf("parse failure: %v", err),
		Cause:   err,
	}
}
