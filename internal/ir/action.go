package ir

import (
	"fmt"
	"strings"
)

// ActionKind discriminates the Action variants.
type ActionKind int

const (
	// ActionLiteral emits Text verbatim.
	ActionLiteral ActionKind = iota

	// ActionAttribute emits the attribute Ref resolves to.
	// Resolution failure is fatal.
	ActionAttribute

	// ActionAttributeDefault emits the attribute Ref resolves to,
	// or Text when the attribute is absent.
	ActionAttributeDefault

	// ActionNewline emits "\n".
	ActionNewline

	// ActionTab emits "\t".
	ActionTab
)

// Action is a single output instruction within a binding.
// Kind selects the variant; Text and Ref are populated per kind.
type Action struct {
	Kind ActionKind
	Text string       // literal text (ActionLiteral) or default value (ActionAttributeDefault)
	Ref  AttributeRef // attribute reference (ActionAttribute, ActionAttributeDefault)
}

// Literal returns an action that emits text verbatim.
func Literal(text string) Action {
	return Action{Kind: ActionLiteral, Text: text}
}

// Attribute returns an action that emits a required attribute value.
func Attribute(ref AttributeRef) Action {
	return Action{Kind: ActionAttribute, Ref: ref}
}

// AttributeOrDefault returns an action that emits an attribute value,
// falling back to def when the attribute is absent.
func AttributeOrDefault(ref AttributeRef, def string) Action {
	return Action{Kind: ActionAttributeDefault, Ref: ref, Text: def}
}

// Newline returns an action that emits a single newline character.
func Newline() Action {
	return Action{Kind: ActionNewline}
}

// Tab returns an action that emits a single tab character.
func Tab() Action {
	return Action{Kind: ActionTab}
}

// String renders the action in directive syntax, for diagnostics.
func (a Action) String() string {
	switch a.Kind {
	case ActionLiteral:
		return fmt.Sprintf("-o %q", a.Text)
	case ActionAttribute:
		return fmt.Sprintf("-v %s", a.Ref)
	case ActionAttributeDefault:
		return fmt.Sprintf("-V %s %q", a.Ref, a.Text)
	case ActionNewline:
		return "--nl"
	case ActionTab:
		return "--tab"
	default:
		return fmt.Sprintf("action(%d)", int(a.Kind))
	}
}

// AttributeRef points at an attribute of the tag that triggered the
// current event (Depth 0) or one of its ancestors (Depth k = the k-th
// ancestor, counting outward). The engine rejects references that
// climb past the document root at resolution time.
type AttributeRef struct {
	Depth int
	Name  string
}

// ParseAttributeRef parses directive attribute-reference syntax:
// each leading "../" climbs one ancestor, the remainder is the
// attribute name. Returns ErrEmptyAttribute when no name remains.
func ParseAttributeRef(s string) (AttributeRef, error) {
	depth := 0
	for strings.HasPrefix(s, "../") {
		depth++
		s = strings.TrimPrefix(s, "../")
	}
	if s == "" {
		return AttributeRef{}, ErrEmptyAttribute
	}
	return AttributeRef{Depth: depth, Name: s}, nil
}

// String renders the reference in directive syntax.
func (r AttributeRef) String() string {
	return strings.Repeat("../", r.Depth) + r.Name
}
