package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/saxcut/internal/compiler"
	"github.com/roach88/saxcut/internal/engine"
	"github.com/roach88/saxcut/internal/ir"
	"github.com/roach88/saxcut/internal/sax"
	"github.com/roach88/saxcut/internal/script"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	*RootOptions
	Input   string
	Script  string
	Charset string
	Help    bool
}

// NewTransformCommand creates the transform command.
//
// Flag parsing is disabled: the directive language repeats flags and
// is order-significant, which a flag parser would destroy. The raw
// token list reaches the directive compiler untouched; the command's
// own options (--input, --script, --charset, --verbose) are peeled
// off first by splitArgs.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transform [options] [directives...]",
		Short: "Stream an XML document through an ordered directive program",
		Long: `Read XML from stdin (or --input), run the directive program over its
parse events, and write the produced text to stdout.

Options:
  --input FILE     read XML from FILE instead of stdin
  --script FILE    load the program from a YAML script instead of directives
  --charset NAME   decode the input as NAME (e.g. iso-8859-1)
  --verbose        enable debug logging on stderr

Directives:
  -S, --startdoc             fire once at document start
  -E, --enddoc               fire once at document end
  -s, --start TAGPATH        fire when a matching tag opens
  -e, --end TAGPATH          fire when a matching tag closes
  -o, --output TEXT          emit TEXT verbatim
  -v, --value ATTR           emit the attribute value; missing is fatal
  -V, --value-default ATTR D emit the attribute value, or D if missing
  --nl                       emit a newline
  --tab                      emit a tab

TAGPATH is names joined by "/": "node" matches at any depth,
"way/nd" requires the parent, a leading "/" anchors at the root.
ATTR climbs one ancestor per leading "../".

Example:
  saxcut transform -s node -v id -o , -v lat --nl < planet.osm`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(opts, args, cmd)
		},
	}

	return cmd
}

func runTransform(opts *TransformOptions, args []string, cmd *cobra.Command) error {
	directives, err := splitArgs(opts, args)
	if err != nil {
		return err
	}
	if opts.Help {
		return cmd.Help()
	}

	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	program, err := loadProgram(opts, directives)
	if err != nil {
		return err
	}
	if program.Empty() {
		// Nothing to do; mirror --help so a bare invocation explains itself.
		return cmd.Help()
	}
	slog.Debug("program compiled", "bindings", len(program.Bindings))

	in, closeIn, err := openInput(opts, cmd)
	if err != nil {
		return err
	}
	defer closeIn()

	out := bufio.NewWriter(cmd.OutOrStdout())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	eng := engine.New(program)
	if err := eng.Run(ctx, sax.NewReader(in), out); err != nil {
		// Flush what was produced before the failure; the sink is a
		// stream, not a transaction.
		_ = out.Flush()
		return WrapExitError(ExitFailure, "transform failed", err)
	}

	if err := out.Flush(); err != nil {
		return WrapExitError(ExitFailure, "flush output", err)
	}
	return nil
}

// splitArgs peels the command's own options off the raw token list
// and returns the remaining directive tokens in their original order.
func splitArgs(opts *TransformOptions, args []string) ([]string, error) {
	var directives []string

	take := func(i *int, flag string) (string, error) {
		if *i+1 >= len(args) {
			return "", NewExitError(ExitCommandError, fmt.Sprintf("%s requires an argument", flag))
		}
		*i++
		return args[*i], nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--input":
			value, err := take(&i, arg)
			if err != nil {
				return nil, err
			}
			opts.Input = value
		case strings.HasPrefix(arg, "--input="):
			opts.Input = strings.TrimPrefix(arg, "--input=")

		case arg == "--script":
			value, err := take(&i, arg)
			if err != nil {
				return nil, err
			}
			opts.Script = value
		case strings.HasPrefix(arg, "--script="):
			opts.Script = strings.TrimPrefix(arg, "--script=")

		case arg == "--charset":
			value, err := take(&i, arg)
			if err != nil {
				return nil, err
			}
			opts.Charset = value
		case strings.HasPrefix(arg, "--charset="):
			opts.Charset = strings.TrimPrefix(arg, "--charset=")

		case arg == "--verbose":
			opts.Verbose = true

		case arg == "-h" || arg == "--help":
			opts.Help = true

		default:
			directives = append(directives, arg)
		}
	}

	return directives, nil
}

// loadProgram builds the Program from either the YAML script or the
// inline directives; combining both is rejected.
func loadProgram(opts *TransformOptions, directives []string) (ir.Program, error) {
	if opts.Script != "" {
		if len(directives) > 0 {
			return ir.Program{}, NewExitError(ExitCommandError, "cannot combine --script with inline directives")
		}
		program, err := script.Load(opts.Script)
		if err != nil {
			return ir.Program{}, WrapExitError(ExitCommandError, "failed to load script", err)
		}
		return program, nil
	}

	program, err := compiler.Compile(directives)
	if err != nil {
		return ir.Program{}, WrapExitError(ExitCommandError, "failed to compile directives", err)
	}
	return program, nil
}

// openInput returns the XML reader: --input file or stdin, optionally
// recoded from --charset.
func openInput(opts *TransformOptions, cmd *cobra.Command) (io.Reader, func(), error) {
	var in io.Reader = cmd.InOrStdin()
	closeIn := func() {}

	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open input", err)
		}
		in = f
		closeIn = func() { _ = f.Close() }
	}

	in = bufio.NewReader(in)

	if opts.Charset != "" {
		recoded, err := sax.CharsetReader(opts.Charset, in)
		if err != nil {
			closeIn()
			return nil, nil, WrapExitError(ExitCommandError, "failed to set charset", err)
		}
		in = recoded
	}

	return in, closeIn, nil
}
