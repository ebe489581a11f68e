package domain

import "errors"

// Error kinds. Every error returned by the domain and service layers wraps one
// of these so callers can classify failures with errors.Is.
var (
	// ErrInvalidInput is a rejected user input (missing label, bad cost).
	ErrInvalidInput = errors.New("invalid input")

	// ErrPrecondition is an operation attempted in a state that does not allow it,
	// such as a search without a start node.
	ErrPrecondition = errors.New("precondition failed")

	// ErrSearchInProgress is returned when a search is requested while another
	// one has not resolved yet.
	ErrSearchInProgress = errors.New("search already in progress")

	// ErrSearchService is a non-success response or transport failure from the
	// external search service.
	ErrSearchService = errors.New("search service error")

	// ErrMalformedRecord is an imported or loaded record that failed to parse or
	// validate. Nothing from such a record is adopted.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrNotFound is an unknown node identifier or saved tree name.
	ErrNotFound = errors.New("not found")
)
