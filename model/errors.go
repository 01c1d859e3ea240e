package model

import "errors"

// Error taxonomy shared by the store, the reconciler and the search
// layer. Callers match with errors.Is after any amount of wrapping.
var (
	// ErrInvalid marks bad or missing required input.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound marks an operation targeting a nonexistent record.
	ErrNotFound = errors.New("record not found")
	// ErrUpstream marks a search provider or storage backend failure.
	ErrUpstream = errors.New("upstream failure")
	// ErrConflict is reserved for future optimistic-concurrency checks.
	ErrConflict = errors.New("conflicting update")
	// ErrSuperseded marks a search whose results were outrun by a
	// newer query and must be discarded.
	ErrSuperseded = errors.New("search superseded")
)
