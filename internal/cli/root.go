package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the saxcut CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "saxcut",
		Short: "saxcut - convert XML to text, one parse event at a time",
		Long: `saxcut converts XML documents into arbitrary text output by reacting
to parse events instead of building a document tree, so it handles
documents far larger than memory.

An ordered list of directives binds events (document start/end, tag
open/close) to output instructions (literal text, attribute values,
separators). Directive order is execution order.`,
	}

	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "enable debug logging on stderr")

	cmd.AddCommand(NewTransformCommand(opts))

	return cmd
}
