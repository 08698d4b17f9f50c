package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/saxcut/internal/compiler"
	"github.com/roach88/saxcut/internal/ir"
)

func parse(t *testing.T, src string) ir.Program {
	t.Helper()
	program, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	return program
}

func TestParse_FullProgram(t *testing.T) {
	program := parse(t, `
bindings:
  - on: startdoc
    actions:
      - output: "id,name"
      - nl: true
  - on: start
    tag: node
    actions:
      - value: id
      - output: ","
      - value: name
        default: unknown
      - tab: true
  - on: end
    tag: /osm/node
  - on: enddoc
    actions:
      - output: done
`)

	require.Len(t, program.Bindings, 4)

	assert.Equal(t, ir.TriggerDocumentStart, program.Bindings[0].Trigger.Kind)
	assert.Equal(t, []ir.Action{ir.Literal("id,name"), ir.Newline()}, program.Bindings[0].Actions)

	assert.Equal(t, ir.TriggerTagOpen, program.Bindings[1].Trigger.Kind)
	assert.Equal(t, ir.TagPattern{Names: []string{"node"}}, program.Bindings[1].Trigger.Pattern)
	assert.Equal(t, []ir.Action{
		ir.Attribute(ir.AttributeRef{Name: "id"}),
		ir.Literal(","),
		ir.AttributeOrDefault(ir.AttributeRef{Name: "name"}, "unknown"),
		ir.Tab(),
	}, program.Bindings[1].Actions)

	assert.Equal(t, ir.TriggerTagClose, program.Bindings[2].Trigger.Kind)
	assert.Equal(t, ir.TagPattern{Names: []string{"osm", "node"}, Anchored: true}, program.Bindings[2].Trigger.Pattern)
	assert.Empty(t, program.Bindings[2].Actions, "a binding without actions is a legal no-op")

	assert.Equal(t, ir.TriggerDocumentEnd, program.Bindings[3].Trigger.Kind)
}

func TestParse_MatchesCompiledDirectives(t *testing.T) {
	// Both front ends must produce identical IR for the same program.
	fromScript := parse(t, `
bindings:
  - on: start
    tag: node
    actions:
      - value: ../id
      - output: ","
      - nl: true
`)

	fromDirectives, err := compiler.Compile([]string{"-s", "node", "-v", "../id", "-o", ",", "--nl"})
	require.NoError(t, err)

	assert.Equal(t, fromDirectives, fromScript)
}

func TestParse_EmptyDocumentIsEmptyProgram(t *testing.T) {
	program, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, program.Empty())
}

func TestParse_ExplicitEmptyOutputSurvives(t *testing.T) {
	program := parse(t, `
bindings:
  - on: startdoc
    actions:
      - output: ""
`)
	assert.Equal(t, []ir.Action{ir.Literal("")}, program.Bindings[0].Actions)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown trigger",
			src:  "bindings:\n  - on: open\n    tag: a\n",
			want: "unknown trigger",
		},
		{
			name: "missing on",
			src:  "bindings:\n  - tag: a\n",
			want: `missing "on"`,
		},
		{
			name: "start without tag",
			src:  "bindings:\n  - on: start\n",
			want: "requires a tag",
		},
		{
			name: "startdoc with tag",
			src:  "bindings:\n  - on: startdoc\n    tag: a\n",
			want: "takes no tag",
		},
		{
			name: "empty tag pattern",
			src:  "bindings:\n  - on: start\n    tag: /\n",
			want: "empty tag pattern",
		},
		{
			name: "action with no form",
			src:  "bindings:\n  - on: start\n    tag: a\n    actions:\n      - {}\n",
			want: "exactly one of",
		},
		{
			name: "action with two forms",
			src:  "bindings:\n  - on: start\n    tag: a\n    actions:\n      - value: id\n        nl: true\n",
			want: "exactly one of",
		},
		{
			name: "default without value",
			src:  "bindings:\n  - on: start\n    tag: a\n    actions:\n      - output: x\n        default: y\n",
			want: "default requires value",
		},
		{
			name: "empty attribute reference",
			src:  "bindings:\n  - on: start\n    tag: a\n    actions:\n      - value: ../\n",
			want: "empty attribute name",
		},
		{
			name: "unknown field",
			src:  "bindings:\n  - on: start\n    tag: a\n    pattern: b\n",
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScript)
			if tc.want != "" {
				assert.Contains(t, err.Error(), tc.want)
			}
		})
	}
}

func TestParse_ErrorNamesBindingPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("bindings:\n  - on: startdoc\n  - on: open\n    tag: a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding 2")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScript)
}
