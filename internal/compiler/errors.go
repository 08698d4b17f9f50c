package compiler

import (
	"errors"
	"fmt"
)

// Compile error codes (D100-D199).
const (
	ErrUnknownFlag     = "D100" // token is not a known directive
	ErrMissingArgument = "D101" // directive is missing a required argument
	ErrEmptyTagPattern = "D102" // tag pattern is empty or has an empty component
	ErrMisplacedAction = "D103" // action token before any trigger
)

// CompileError reports a bad directive token. Pos is the index of
// the offending token in the input list, so the caller can point the
// user at the exact argument.
type CompileError struct {
	Code    string
	Token   string
	Pos     int
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("[%s] directive %d (%s): %s", e.Code, e.Pos+1, e.Token, e.Message)
}

// CodeOf extracts the compile error code from an error.
// Returns "" if the error is not a CompileError.
func CodeOf(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
