// Package engine executes a compiled Program against a SAX event
// stream.
//
// ARCHITECTURE:
//
// Single-pass dispatch loop:
// The engine pulls events from the source one at a time and fully
// processes each before requesting the next. For every event it scans
// the Program's bindings front to back; every binding whose trigger
// matches fires, in Program order. There is no callback registration,
// no replay, and no lookahead - ordering and failure behavior are
// auditable from the one loop in Run.
//
// Ancestor stack:
// The only mutable state is the stack of currently open tags with
// their attributes, owned exclusively by Run. It is pushed before
// open-tag bindings match (so depth 0 is the triggering tag) and
// popped after close-tag bindings run (so end actions still see the
// closing tag and its ancestors). Memory is bounded by document
// depth, never document size.
//
// Failure policy:
// A required attribute lookup that misses, or a parent reference that
// climbs past the root, aborts the run immediately. Output already
// written stays written - the sink is a stream, not a transaction.
// A defaulted lookup absorbs only the missing-attribute case.
package engine
