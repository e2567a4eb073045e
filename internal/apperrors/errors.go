package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request collides with existing state (duplicate close, overlapping period, ...).
var ErrConflict = errors.New("conflict")

// ErrInvariantViolation indicates the operation would break a ledger invariant and was rejected.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrPreconditionNotMet indicates the caller must remediate something before retrying.
var ErrPreconditionNotMet = errors.New("precondition not met")

// ErrConcurrencyConflict indicates a concurrent transaction won; the caller may retry.
var ErrConcurrencyConflict = errors.New("concurrency conflict")
