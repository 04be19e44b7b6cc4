package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the
// resource, e.g. posting an already-posted journal entry.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrUnbalanced indicates a journal entry whose debit and credit totals differ.
var ErrUnbalanced = errors.New("journal entry is not balanced")

// ErrInternal indicates an unexpected internal failure that should not leak details.
var ErrInternal = errors.New("internal error")
