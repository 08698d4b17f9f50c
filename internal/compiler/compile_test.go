package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/saxcut/internal/ir"
)

// compile splits a space-separated directive string and compiles it.
// Test inputs never contain literals with embedded spaces.
func compile(t *testing.T, directives string) ir.Program {
	t.Helper()
	program, err := Compile(strings.Fields(directives))
	require.NoError(t, err)
	return program
}

func TestCompile_SingleBinding(t *testing.T) {
	program := compile(t, "-s note -o notestart")

	require.Len(t, program.Bindings, 1)
	binding := program.Bindings[0]
	assert.Equal(t, ir.TriggerTagOpen, binding.Trigger.Kind)
	assert.Equal(t, ir.TagPattern{Names: []string{"note"}}, binding.Trigger.Pattern)
	assert.Equal(t, []ir.Action{ir.Literal("notestart")}, binding.Actions)
}

func TestCompile_ActionsAccumulateInOrder(t *testing.T) {
	program := compile(t, "-s note -o notestart -o foo --nl --tab")

	require.Len(t, program.Bindings, 1)
	assert.Equal(t, []ir.Action{
		ir.Literal("notestart"),
		ir.Literal("foo"),
		ir.Newline(),
		ir.Tab(),
	}, program.Bindings[0].Actions)
}

func TestCompile_TriggerTokensSplitBindings(t *testing.T) {
	program := compile(t, "-s note -o notestart -e note -o foo")

	require.Len(t, program.Bindings, 2)
	assert.Equal(t, ir.TriggerTagOpen, program.Bindings[0].Trigger.Kind)
	assert.Equal(t, []ir.Action{ir.Literal("notestart")}, program.Bindings[0].Actions)
	assert.Equal(t, ir.TriggerTagClose, program.Bindings[1].Trigger.Kind)
	assert.Equal(t, []ir.Action{ir.Literal("foo")}, program.Bindings[1].Actions)
}

func TestCompile_DocumentTriggers(t *testing.T) {
	program := compile(t, "-S -o header --nl -E -o footer")

	require.Len(t, program.Bindings, 2)
	assert.Equal(t, ir.TriggerDocumentStart, program.Bindings[0].Trigger.Kind)
	assert.Equal(t, ir.TriggerDocumentEnd, program.Bindings[1].Trigger.Kind)
}

func TestCompile_AttributeReference(t *testing.T) {
	program := compile(t, "-s note -v id")

	require.Len(t, program.Bindings, 1)
	assert.Equal(t, []ir.Action{
		ir.Attribute(ir.AttributeRef{Name: "id"}),
	}, program.Bindings[0].Actions)
}

func TestCompile_ParentAttributeReference(t *testing.T) {
	program := compile(t, "-s tag -v ../../id")

	require.Len(t, program.Bindings, 1)
	assert.Equal(t, []ir.Action{
		ir.Attribute(ir.AttributeRef{Depth: 2, Name: "id"}),
	}, program.Bindings[0].Actions)
}

func TestCompile_AttributeWithDefault(t *testing.T) {
	program := compile(t, "-s note -V id NOID")

	require.Len(t, program.Bindings, 1)
	assert.Equal(t, []ir.Action{
		ir.AttributeOrDefault(ir.AttributeRef{Name: "id"}, "NOID"),
	}, program.Bindings[0].Actions)
}

func TestCompile_LongFormsMatchShortForms(t *testing.T) {
	short := compile(t, "-S -o a -s n -v id -e n -V x y -E --nl")
	long := compile(t, "--startdoc --output a --start n --value id --end n --value-default x y --enddoc --nl")
	assert.Equal(t, short, long)
}

func TestCompile_PathPatterns(t *testing.T) {
	program := compile(t, "-s bar/foo -o X -e /osm/node -o Y")

	require.Len(t, program.Bindings, 2)
	assert.Equal(t, ir.TagPattern{Names: []string{"bar", "foo"}}, program.Bindings[0].Trigger.Pattern)
	assert.Equal(t, ir.TagPattern{Names: []string{"osm", "node"}, Anchored: true}, program.Bindings[1].Trigger.Pattern)
}

func TestCompile_TriggerWithoutActionsIsNoOp(t *testing.T) {
	program := compile(t, "-s note -e note -o end")

	require.Len(t, program.Bindings, 2)
	assert.Empty(t, program.Bindings[0].Actions)
}

func TestCompile_EmptyTokenListIsEmptyProgram(t *testing.T) {
	program, err := Compile(nil)
	require.NoError(t, err)
	assert.True(t, program.Empty())
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		directives []string
		code       string
	}{
		{"unknown flag", []string{"-s", "note", "-x"}, ErrUnknownFlag},
		{"bare word", []string{"note"}, ErrUnknownFlag},
		{"start without tag", []string{"-s"}, ErrMissingArgument},
		{"output without text", []string{"-s", "note", "-o"}, ErrMissingArgument},
		{"value without attribute", []string{"-s", "note", "-v"}, ErrMissingArgument},
		{"value-default missing default", []string{"-s", "note", "-V", "id"}, ErrMissingArgument},
		{"value with bare dotdot", []string{"-s", "note", "-v", "../"}, ErrMissingArgument},
		{"empty tag pattern", []string{"-s", "/"}, ErrEmptyTagPattern},
		{"pattern with empty component", []string{"-e", "a//b"}, ErrEmptyTagPattern},
		{"output before trigger", []string{"-o", "text"}, ErrMisplacedAction},
		{"newline before trigger", []string{"--nl"}, ErrMisplacedAction},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.directives)
			require.Error(t, err)
			assert.Equal(t, tc.code, CodeOf(err))
		})
	}
}

func TestCompile_ErrorProducesNoPartialProgram(t *testing.T) {
	program, err := Compile([]string{"-s", "note", "-o", "ok", "-x"})
	require.Error(t, err)
	assert.True(t, program.Empty())
}

func TestCompileError_MentionsTokenPosition(t *testing.T) {
	_, err := Compile([]string{"-s", "note", "-x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-x")
	assert.Contains(t, err.Error(), "directive 3")
}
