package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/saxcut/internal/ir"
	"github.com/roach88/saxcut/internal/sax"
)

// Engine drives a compiled Program over a SAX event stream.
//
// The Program is fixed at construction and never mutated; binding
// order is preserved exactly as compiled. All run state (the ancestor
// stack) lives inside Run, so one Engine can serve any number of
// sequential runs.
type Engine struct {
	program ir.Program
	tokens  TokenGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokenGenerator overrides the run token generator.
// Tests use this with a FixedGenerator for deterministic logs.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(e *Engine) {
		e.tokens = g
	}
}

// New creates an Engine for a compiled Program.
//
// The bindings slice is copied so later mutation by the caller cannot
// break the Program-order firing guarantee.
func New(program ir.Program, opts ...Option) *Engine {
	var bindings []ir.Binding
	if program.Bindings != nil {
		bindings = make([]ir.Binding, len(program.Bindings))
		copy(bindings, program.Bindings)
	}

	e := &Engine{
		program: ir.Program{Bindings: bindings},
		tokens:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes the event stream to completion, writing action
// output to w as it is produced.
//
// Strictly sequential: each event is fully processed - every matching
// binding fired, in Program order - before the next is requested.
// The only suspension points are the source's own blocking reads and
// the context check between events. On error, output already written
// to w stays written.
func (e *Engine) Run(ctx context.Context, src sax.Source, w io.Writer) error {
	run := e.tokens.Generate()
	slog.Debug("run starting", "run", run, "bindings", len(e.program.Bindings))

	stack := NewStack()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		event, err := src.Next()
		if err == io.EOF {
			slog.Debug("run finished", "run", run)
			return nil
		}
		if err != nil {
			return &EngineError{Message: "event source failed", RunToken: run, Err: err}
		}

		if err := e.processEvent(event, stack, w, run); err != nil {
			return err
		}
	}
}

// processEvent updates the stack and fires matching bindings for one
// parse event.
func (e *Engine) processEvent(event sax.Event, stack *Stack, w io.Writer, run string) error {
	switch event.Kind {
	case sax.DocumentStart:
		return e.fireDocument(ir.TriggerDocumentStart, stack, w, run)

	case sax.TagOpen:
		// Push before matching so depth 0 is the triggering tag.
		stack.Push(event.Name, event.Attrs)
		slog.Debug("tag open", "run", run, "path", stack.Path(), "depth", stack.Depth())
		return e.fireTag(ir.TriggerTagOpen, stack, w, run)

	case sax.TagClose:
		// Pop after matching so end actions still see the closing
		// tag's attributes and its ancestors.
		slog.Debug("tag close", "run", run, "path", stack.Path(), "depth", stack.Depth())
		if err := e.fireTag(ir.TriggerTagClose, stack, w, run); err != nil {
			return err
		}
		stack.Pop()
		return nil

	case sax.DocumentEnd:
		if err := e.fireDocument(ir.TriggerDocumentEnd, stack, w, run); err != nil {
			return err
		}
		if stack.Depth() != 0 {
			return &EngineError{
				Message:  fmt.Sprintf("unexpected document end: %d tags still open at %s", stack.Depth(), stack.Path()),
				RunToken: run,
			}
		}
		return nil

	default:
		return &EngineError{
			Message:  fmt.Sprintf("unknown event kind %d", event.Kind),
			RunToken: run,
		}
	}
}

// fireDocument runs every binding for a document-level trigger, in
// Program order.
func (e *Engine) fireDocument(kind ir.TriggerKind, stack *Stack, w io.Writer, run string) error {
	for _, binding := range e.program.Bindings {
		if binding.Trigger.Kind != kind {
			continue
		}
		if err := e.execute(binding, stack, w, run); err != nil {
			return err
		}
	}
	return nil
}

// fireTag runs every tag binding whose pattern matches the current
// stack. All matches fire, in Program order - never first-match-wins,
// so one event can feed several independent output groups.
func (e *Engine) fireTag(kind ir.TriggerKind, stack *Stack, w io.Writer, run string) error {
	for _, binding := range e.program.Bindings {
		if binding.Trigger.Kind != kind {
			continue
		}
		if !matchPattern(binding.Trigger.Pattern, stack.Names()) {
			continue
		}
		if err := e.execute(binding, stack, w, run); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one binding's actions in order, writing each piece of
// output immediately.
func (e *Engine) execute(binding ir.Binding, stack *Stack, w io.Writer, run string) error {
	for _, action := range binding.Actions {
		var text string

		switch action.Kind {
		case ir.ActionLiteral:
			text = action.Text

		case ir.ActionNewline:
			text = "\n"

		case ir.ActionTab:
			text = "\t"

		case ir.ActionAttribute:
			value, err := stack.Resolve(action.Ref)
			if err != nil {
				return &EngineError{
					Message:  "attribute resolution failed",
					RunToken: run,
					Trigger:  binding.Trigger.String(),
					Err:      err,
				}
			}
			text = value

		case ir.ActionAttributeDefault:
			value, err := stack.Resolve(action.Ref)
			switch {
			case err == nil:
				text = value
			case IsAttributeNotFound(err):
				// The one absorbed failure: missing attribute with a
				// supplied default. Out-of-range stays fatal.
				text = action.Text
			default:
				return &EngineError{
					Message:  "attribute resolution failed",
					RunToken: run,
					Trigger:  binding.Trigger.String(),
					Err:      err,
				}
			}

		default:
			return &EngineError{
				Message:  fmt.Sprintf("unknown action kind %d", action.Kind),
				RunToken: run,
				Trigger:  binding.Trigger.String(),
			}
		}

		if _, err := io.WriteString(w, text); err != nil {
			return &EngineError{
				Message:  "write to output sink failed",
				RunToken: run,
				Trigger:  binding.Trigger.String(),
				Err:      err,
			}
		}
	}
	return nil
}

// Program returns the engine's bindings in Program order.
// Used for testing and introspection.
func (e *Engine) Program() ir.Program {
	return e.program
}
