package ir

import (
	"errors"
	"strings"
)

// Parse errors shared by the directive compiler and the script loader.
var (
	// ErrEmptyPattern reports a tag pattern with no tag names,
	// including paths with an empty component such as "a//b".
	ErrEmptyPattern = errors.New("empty tag pattern")

	// ErrEmptyAttribute reports an attribute reference whose name is
	// empty after stripping "../" prefixes.
	ErrEmptyAttribute = errors.New("empty attribute name")
)

// TagPattern describes which tag-open or tag-close events a binding
// responds to. Names are ordered root-most first; the last name is
// the innermost tag.
//
// An unanchored pattern matches when the open-tag chain ends with
// Names (a single name therefore matches that tag at any depth). An
// anchored pattern matches only when the entire chain from the
// document root equals Names exactly.
type TagPattern struct {
	Names    []string
	Anchored bool
}

// ParseTagPattern parses directive tag-path syntax: names separated
// by "/", with a leading "/" anchoring the pattern at the document
// root. Returns ErrEmptyPattern for empty paths or empty components.
func ParseTagPattern(s string) (TagPattern, error) {
	anchored := strings.HasPrefix(s, "/")
	if anchored {
		s = s[1:]
	}
	if s == "" {
		return TagPattern{}, ErrEmptyPattern
	}
	names := strings.Split(s, "/")
	for _, name := range names {
		if name == "" {
			return TagPattern{}, ErrEmptyPattern
		}
	}
	return TagPattern{Names: names, Anchored: anchored}, nil
}

// Leaf returns the innermost tag name of the pattern.
func (p TagPattern) Leaf() string {
	return p.Names[len(p.Names)-1]
}

// String renders the pattern in directive syntax.
func (p TagPattern) String() string {
	s := strings.Join(p.Names, "/")
	if p.Anchored {
		return "/" + s
	}
	return s
}
