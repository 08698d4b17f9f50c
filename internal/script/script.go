// Package script loads a transformation program from a YAML file,
// for programs too long to live on a command line.
//
// The schema mirrors the directive surface one to one:
//
//	bindings:
//	  - on: startdoc
//	    actions:
//	      - output: "id,lat,lon"
//	      - nl: true
//	  - on: start
//	    tag: node
//	    actions:
//	      - value: id
//	      - output: ","
//	      - value: name
//	        default: unknown
//	      - nl: true
//
// Binding order and action order carry the same meaning as directive
// order: they become Program order. Tag and attribute syntax is
// shared with the compiler, so both front ends produce identical IR.
package script

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/saxcut/internal/ir"
)

// ErrScript is the sentinel error for all script-file failures.
// It allows consistent error checks using errors.Is().
var ErrScript = fmt.Errorf("script error")

// File is the top-level YAML document.
type File struct {
	Bindings []BindingSpec `yaml:"bindings"`
}

// BindingSpec is one trigger with its ordered action list.
type BindingSpec struct {
	On      string       `yaml:"on"`                // startdoc | enddoc | start | end
	Tag     string       `yaml:"tag,omitempty"`     // tag path, required for start/end
	Actions []ActionSpec `yaml:"actions,omitempty"` // executed in order
}

// ActionSpec is one output instruction. Exactly one of Output,
// Value, Newline, Tab must be set; Default is only valid alongside
// Value. Output and Default are pointers so an explicit empty string
// survives the zero-value check.
type ActionSpec struct {
	Output  *string `yaml:"output,omitempty"`  // literal text
	Value   string  `yaml:"value,omitempty"`   // attribute reference, ("../")* name
	Default *string `yaml:"default,omitempty"` // fallback for a missing attribute
	Newline bool    `yaml:"nl,omitempty"`      // emit "\n"
	Tab     bool    `yaml:"tab,omitempty"`     // emit "\t"
}

// Load reads and parses a script file.
func Load(path string) (ir.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return ir.Program{}, fmt.Errorf("%w: %v", ErrScript, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML script into a Program. All-or-nothing, like
// the directive compiler: any invalid entry fails the whole script.
func Parse(r io.Reader) (ir.Program, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return ir.Program{}, fmt.Errorf("%w: %v", ErrScript, err)
	}

	var program ir.Program
	for i, spec := range file.Bindings {
		binding, err := buildBinding(spec)
		if err != nil {
			return ir.Program{}, fmt.Errorf("%w: binding %d: %v", ErrScript, i+1, err)
		}
		program.Bindings = append(program.Bindings, binding)
	}
	return program, nil
}

func buildBinding(spec BindingSpec) (ir.Binding, error) {
	trigger, err := buildTrigger(spec)
	if err != nil {
		return ir.Binding{}, err
	}

	binding := ir.Binding{Trigger: trigger}
	for j, action := range spec.Actions {
		built, err := buildAction(action)
		if err != nil {
			return ir.Binding{}, fmt.Errorf("action %d: %v", j+1, err)
		}
		binding.Actions = append(binding.Actions, built)
	}
	return binding, nil
}

func buildTrigger(spec BindingSpec) (ir.Trigger, error) {
	switch spec.On {
	case "startdoc", "enddoc":
		if spec.Tag != "" {
			return ir.Trigger{}, fmt.Errorf("%q takes no tag", spec.On)
		}
		kind := ir.TriggerDocumentStart
		if spec.On == "enddoc" {
			kind = ir.TriggerDocumentEnd
		}
		return ir.Trigger{Kind: kind}, nil

	case "start", "end":
		if spec.Tag == "" {
			return ir.Trigger{}, fmt.Errorf("%q requires a tag", spec.On)
		}
		pattern, err := ir.ParseTagPattern(spec.Tag)
		if err != nil {
			return ir.Trigger{}, fmt.Errorf("tag %q: %v", spec.Tag, err)
		}
		kind := ir.TriggerTagOpen
		if spec.On == "end" {
			kind = ir.TriggerTagClose
		}
		return ir.Trigger{Kind: kind, Pattern: pattern}, nil

	case "":
		return ir.Trigger{}, fmt.Errorf("missing %q field", "on")

	default:
		return ir.Trigger{}, fmt.Errorf("unknown trigger %q (want startdoc, enddoc, start or end)", spec.On)
	}
}

func buildAction(spec ActionSpec) (ir.Action, error) {
	forms := 0
	if spec.Output != nil {
		forms++
	}
	if spec.Value != "" {
		forms++
	}
	if spec.Newline {
		forms++
	}
	if spec.Tab {
		forms++
	}
	if forms != 1 {
		return ir.Action{}, fmt.Errorf("want exactly one of output, value, nl, tab")
	}
	if spec.Default != nil && spec.Value == "" {
		return ir.Action{}, fmt.Errorf("default requires value")
	}

	switch {
	case spec.Output != nil:
		return ir.Literal(*spec.Output), nil
	case spec.Value != "":
		ref, err := ir.ParseAttributeRef(spec.Value)
		if err != nil {
			return ir.Action{}, fmt.Errorf("value %q: %v", spec.Value, err)
		}
		if spec.Default != nil {
			return ir.AttributeOrDefault(ref, *spec.Default), nil
		}
		return ir.Attribute(ref), nil
	case spec.Newline:
		return ir.Newline(), nil
	default:
		return ir.Tab(), nil
	}
}
