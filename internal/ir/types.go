package ir

import "fmt"

// TriggerKind identifies the parse event a binding responds to.
type TriggerKind int

const (
	// TriggerDocumentStart fires once, before any tag is seen.
	TriggerDocumentStart TriggerKind = iota

	// TriggerDocumentEnd fires once, after the root tag closes.
	TriggerDocumentEnd

	// TriggerTagOpen fires when an opening tag matches Pattern.
	TriggerTagOpen

	// TriggerTagClose fires when a closing tag matches Pattern.
	TriggerTagClose
)

// Trigger is the event side of a binding. Pattern is populated only
// for TriggerTagOpen and TriggerTagClose.
type Trigger struct {
	Kind    TriggerKind
	Pattern TagPattern
}

// String renders the trigger in directive syntax, for diagnostics.
func (t Trigger) String() string {
	switch t.Kind {
	case TriggerDocumentStart:
		return "startdoc"
	case TriggerDocumentEnd:
		return "enddoc"
	case TriggerTagOpen:
		return fmt.Sprintf("start %s", t.Pattern)
	case TriggerTagClose:
		return fmt.Sprintf("end %s", t.Pattern)
	default:
		return fmt.Sprintf("trigger(%d)", int(t.Kind))
	}
}

// Binding pairs one trigger with its ordered action list.
// A binding with no actions is a legal no-op.
type Binding struct {
	Trigger Trigger
	Actions []Action
}

// Program is the compiled transformation: bindings in the exact
// order the directives were given. The engine never reorders or
// deduplicates bindings; when several match the same event they all
// fire, in this order.
type Program struct {
	Bindings []Binding
}

// Empty reports whether the program contains no bindings at all.
func (p Program) Empty() bool {
	return len(p.Bindings) == 0
}
