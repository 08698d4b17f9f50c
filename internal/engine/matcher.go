package engine

import "github.com/roach88/saxcut/internal/ir"

// matchPattern checks a tag pattern against the open-tag chain
// (root first, innermost last). Pure name comparison, case-sensitive,
// never errors.
//
// Unanchored patterns match any chain that ends with the pattern's
// names; anchored patterns require the whole chain to be equal. A
// binding's pattern is checked after push for opens and before pop
// for closes, so the innermost name is always the triggering tag.
func matchPattern(pattern ir.TagPattern, names []string) bool {
	if len(pattern.Names) == 0 || len(pattern.Names) > len(names) {
		return false
	}
	if pattern.Anchored && len(pattern.Names) != len(names) {
		return false
	}

	offset := len(names) - len(pattern.Names)
	for i, want := range pattern.Names {
		if names[offset+i] != want {
			return false
		}
	}
	return true
}
