package engine

import (
	"sort"
	"strings"

	"github.com/roach88/saxcut/internal/ir"
)

// Frame is one open tag: its name and captured attributes.
type Frame struct {
	Name  string
	Attrs map[string]string
}

// Stack is the chain of currently open tags, root first. It is
// created empty at document start, mutated only by the engine's run
// loop, and discarded at document end.
type Stack struct {
	frames []Frame
	names  []string // kept in lockstep with frames for cheap matching
}

// NewStack returns an empty ancestor stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push records a newly opened tag as the innermost frame.
func (s *Stack) Push(name string, attrs map[string]string) {
	s.frames = append(s.frames, Frame{Name: name, Attrs: attrs})
	s.names = append(s.names, name)
}

// Pop removes the innermost frame. Popping an empty stack panics;
// the decoder guarantees balanced tags, so that would be an engine
// bug, not bad input.
func (s *Stack) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
	s.names = s.names[:len(s.names)-1]
}

// Depth returns the number of open tags.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Names returns the open-tag names root first. The slice is shared
// with the stack and must not be retained across Push/Pop.
func (s *Stack) Names() []string {
	return s.names
}

// Path renders the open-tag chain as "/a/b/c" for diagnostics.
func (s *Stack) Path() string {
	if len(s.names) == 0 {
		return "/"
	}
	return "/" + strings.Join(s.names, "/")
}

// Resolve evaluates an attribute reference against the stack as it
// stands right now. Depth 0 is the innermost tag, depth k its k-th
// ancestor. Nothing is cached across events: attribute sets differ
// per tag instance.
func (s *Stack) Resolve(ref ir.AttributeRef) (string, error) {
	if ref.Depth >= len(s.frames) {
		return "", &ResolutionError{
			Code:  ErrCodeAncestorOutOfRange,
			Path:  s.Path(),
			Attr:  ref.Name,
			Depth: ref.Depth,
			Open:  len(s.frames),
		}
	}

	frame := s.frames[len(s.frames)-1-ref.Depth]
	value, ok := frame.Attrs[ref.Name]
	if !ok {
		return "", &ResolutionError{
			Code:    ErrCodeAttributeNotFound,
			Path:    s.Path(),
			Tag:     frame.Name,
			Attr:    ref.Name,
			Depth:   ref.Depth,
			Present: attrNames(frame.Attrs),
		}
	}
	return value, nil
}

// attrNames lists the attribute names of a frame, sorted so error
// messages are deterministic.
func attrNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
