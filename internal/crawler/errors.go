package crawler

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies a fetch failure for retry purposes.
type FetchErrorKind string

// Fetch error classifications. Transient failures are retried; permanent
// failures short-circuit the retry loop.
const (
	FetchTransient FetchErrorKind = "transient"
	FetchPermanent FetchErrorKind = "permanent"
)

// FetchError wraps a fetch failure with its retry classification.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewTransientError wraps err as a retryable fetch failure.
func NewTransientError(url string, err error) *FetchError {
	return &FetchError{Kind: FetchTransient, URL: url, Err: err}
}

// NewPermanentError wraps err as a non-retryable fetch failure.
func NewPermanentError(url string, err error) *FetchError {
	return &FetchError{Kind: FetchPermanent, URL: url, Err: err}
}

// IsTransient reports whether err is a fetch error classified transient.
// Unclassified errors are treated as permanent so an unknown failure mode
// never loops the retry budget.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchTransient
}
