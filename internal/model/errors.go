package model

import "errors"

// ErrValidation is returned by rule-engine operations when input fails a
// business rule (missing name, unknown clinic, malformed date) before any
// store write is attempted. Handlers map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrNotFound is returned when an operation targets an entity that does not
// exist in the mirrored state. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")
