package main

import (
	"errors"
	"fmt"
)

// Exit codes
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitArgument = 2
	ExitAborted  = 130
)

// ErrArgument marks errors caused by the command line or the configuration
// choices it selects.
var ErrArgument = errors.New("invalid argument")

// ArgumentError is a user-facing argument error.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the cause and ErrArgument.
func (e *ArgumentError) Unwrap() []error {
	return []error{ErrArgument, e.Err}
}

// argumentError wraps err in an ArgumentError.
func argumentError(format string, args ...any) error {
	return &ArgumentError{Err: fmt.Errorf(format, args...)}
}
