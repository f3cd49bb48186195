package apperrors

import "errors"

// ErrNotFound indicates that a requested resource (report, schema) could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrFetchFailed indicates that the record fetcher could not deliver rows.
// The underlying storage error is wrapped and propagated unmodified; this
// layer never retries.
var ErrFetchFailed = errors.New("record fetch failed")
