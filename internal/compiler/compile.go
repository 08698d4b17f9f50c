// Package compiler turns the ordered directive token list into an
// ir.Program.
//
// The token list is the raw command line after the CLI has peeled off
// its own options: trigger tokens (-S/-s/-e/-E) open a binding, and
// every action token (-o/-v/-V/--nl/--tab) until the next trigger
// belongs to that binding. Token order is the whole point - it
// becomes Program order, which the engine preserves when firing.
//
// Compilation is all-or-nothing: any bad token aborts with a
// CompileError and no partial Program.
package compiler

import (
	"errors"

	"github.com/roach88/saxcut/internal/ir"
)

// Compile parses directive tokens into a Program.
func Compile(tokens []string) (ir.Program, error) {
	var program ir.Program
	var current *ir.Binding

	// flush appends the open binding, if any, to the program.
	flush := func() {
		if current != nil {
			program.Bindings = append(program.Bindings, *current)
			current = nil
		}
	}

	// take consumes the argument following the token at position pos.
	take := func(pos *int, flag string) (string, error) {
		if *pos+1 >= len(tokens) {
			return "", &CompileError{
				Code:    ErrMissingArgument,
				Token:   flag,
				Pos:     *pos,
				Message: "expected an argument after " + flag,
			}
		}
		*pos++
		return tokens[*pos], nil
	}

	for pos := 0; pos < len(tokens); pos++ {
		token := tokens[pos]
		switch token {
		case "-S", "--startdoc":
			flush()
			current = &ir.Binding{Trigger: ir.Trigger{Kind: ir.TriggerDocumentStart}}

		case "-E", "--enddoc":
			flush()
			current = &ir.Binding{Trigger: ir.Trigger{Kind: ir.TriggerDocumentEnd}}

		case "-s", "--start", "-e", "--end":
			path, err := take(&pos, token)
			if err != nil {
				return ir.Program{}, err
			}
			pattern, err := parsePattern(path, token, pos)
			if err != nil {
				return ir.Program{}, err
			}
			kind := ir.TriggerTagOpen
			if token == "-e" || token == "--end" {
				kind = ir.TriggerTagClose
			}
			flush()
			current = &ir.Binding{Trigger: ir.Trigger{Kind: kind, Pattern: pattern}}

		case "-o", "--output":
			text, err := take(&pos, token)
			if err != nil {
				return ir.Program{}, err
			}
			if err := appendAction(current, ir.Literal(text), token, pos); err != nil {
				return ir.Program{}, err
			}

		case "-v", "--value":
			raw, err := take(&pos, token)
			if err != nil {
				return ir.Program{}, err
			}
			ref, err := parseRef(raw, token, pos)
			if err != nil {
				return ir.Program{}, err
			}
			if err := appendAction(current, ir.Attribute(ref), token, pos); err != nil {
				return ir.Program{}, err
			}

		case "-V", "--value-default":
			raw, err := take(&pos, token)
			if err != nil {
				return ir.Program{}, err
			}
			def, err := take(&pos, token)
			if err != nil {
				return ir.Program{}, err
			}
			ref, err := parseRef(raw, token, pos)
			if err != nil {
				return ir.Program{}, err
			}
			if err := appendAction(current, ir.AttributeOrDefault(ref, def), token, pos); err != nil {
				return ir.Program{}, err
			}

		case "--nl":
			if err := appendAction(current, ir.Newline(), token, pos); err != nil {
				return ir.Program{}, err
			}

		case "--tab":
			if err := appendAction(current, ir.Tab(), token, pos); err != nil {
				return ir.Program{}, err
			}

		default:
			return ir.Program{}, &CompileError{
				Code:    ErrUnknownFlag,
				Token:   token,
				Pos:     pos,
				Message: "unknown directive " + token,
			}
		}
	}

	flush()
	return program, nil
}

// appendAction adds an action to the open binding, rejecting action
// tokens that appear before any trigger has opened a binding.
func appendAction(current *ir.Binding, action ir.Action, flag string, pos int) error {
	if current == nil {
		return &CompileError{
			Code:    ErrMisplacedAction,
			Token:   flag,
			Pos:     pos,
			Message: "cannot use " + flag + " before a trigger (-S/-s/-e/-E)",
		}
	}
	current.Actions = append(current.Actions, action)
	return nil
}

// parsePattern wraps ir.ParseTagPattern errors in a CompileError.
func parsePattern(path, flag string, pos int) (ir.TagPattern, error) {
	pattern, err := ir.ParseTagPattern(path)
	if err != nil {
		if errors.Is(err, ir.ErrEmptyPattern) {
			return ir.TagPattern{}, &CompileError{
				Code:    ErrEmptyTagPattern,
				Token:   flag,
				Pos:     pos,
				Message: "tag pattern " + quote(path) + " has an empty component",
			}
		}
		return ir.TagPattern{}, err
	}
	return pattern, nil
}

// parseRef wraps ir.ParseAttributeRef errors in a CompileError.
func parseRef(raw, flag string, pos int) (ir.AttributeRef, error) {
	ref, err := ir.ParseAttributeRef(raw)
	if err != nil {
		if errors.Is(err, ir.ErrEmptyAttribute) {
			return ir.AttributeRef{}, &CompileError{
				Code:    ErrMissingArgument,
				Token:   flag,
				Pos:     pos,
				Message: "attribute reference " + quote(raw) + " has no attribute name",
			}
		}
		return ir.AttributeRef{}, err
	}
	return ref, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
