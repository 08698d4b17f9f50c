package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ResolutionErrorCode categorizes attribute resolution failures.
type ResolutionErrorCode string

const (
	// ErrCodeAttributeNotFound indicates the resolved tag has no such attribute.
	ErrCodeAttributeNotFound ResolutionErrorCode = "ATTRIBUTE_NOT_FOUND"

	// ErrCodeAncestorOutOfRange indicates the reference climbs past the root.
	ErrCodeAncestorOutOfRange ResolutionErrorCode = "ANCESTOR_OUT_OF_RANGE"
)

// ResolutionError reports a failed attribute lookup with enough
// context to locate the offending directive: the tag path at the
// moment of resolution, the reference, and (for missing attributes)
// the attributes that were actually present.
type ResolutionError struct {
	Code    ResolutionErrorCode
	Path    string   // open-tag chain at resolution time, "/a/b/c"
	Tag     string   // tag the reference resolved against (empty when out of range)
	Attr    string   // referenced attribute name
	Depth   int      // ancestor depth of the reference
	Open    int      // open tags at resolution time (out-of-range case)
	Present []string // attribute names on the tag (not-found case)
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	switch e.Code {
	case ErrCodeAttributeNotFound:
		return fmt.Sprintf("no attribute %q on element <%s> at %s (attributes: %s)",
			e.Attr, e.Tag, e.Path, strings.Join(e.Present, ","))
	case ErrCodeAncestorOutOfRange:
		return fmt.Sprintf("reference %s%s climbs %d ancestors but only %d tags are open at %s",
			strings.Repeat("../", e.Depth), e.Attr, e.Depth, e.Open, e.Path)
	default:
		return fmt.Sprintf("%s: attribute %q at %s", e.Code, e.Attr, e.Path)
	}
}

// IsAttributeNotFound returns true for missing-attribute resolution
// errors. This is the one failure a defaulted lookup may absorb.
// Uses errors.As to handle wrapped errors.
func IsAttributeNotFound(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code == ErrCodeAttributeNotFound
	}
	return false
}

// IsAncestorOutOfRange returns true for out-of-range resolution
// errors. These are fatal even on defaulted lookups.
// Uses errors.As to handle wrapped errors.
func IsAncestorOutOfRange(err error) bool {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re.Code == ErrCodeAncestorOutOfRange
	}
	return false
}

// EngineError is a fatal run failure: an unrecovered resolution
// error, a sink write failure, or a malformed-input condition from
// the tokenizer boundary. Trigger identifies the firing binding in
// directive syntax when one was involved.
type EngineError struct {
	Message  string
	RunToken string
	Trigger  string
	Err      error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := e.Message
	if e.Trigger != "" {
		msg = fmt.Sprintf("%s (binding %q)", msg, e.Trigger)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *EngineError) Unwrap() error {
	return e.Err
}
