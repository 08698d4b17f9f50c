// Package ir defines the compiled form of a saxcut transformation.
//
// A Program is an ordered list of Bindings. Each Binding pairs a
// Trigger (document start/end, or a tag pattern for opens/closes)
// with an ordered list of output Actions. Both orders are
// semantically significant: when several bindings match the same
// parse event they all fire, in Program order, and a binding's
// actions execute left to right.
//
// Programs are built once, by the directive compiler or the YAML
// script loader, and are immutable afterwards.
package ir
