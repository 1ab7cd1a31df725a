package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"ladders/internal/access"
	"ladders/internal/config"
	"ladders/internal/emit"
	"ladders/internal/errors"
	"ladders/internal/pipeline"
)

// RootOptions holds the command-line flags.
type RootOptions struct {
	Config        string
	OutputDir     string
	Entry         string
	ShareReads    bool
	CallArguments string
	Stdout        bool
	Summary       bool
	Verbose       int
}

// NewRootCommand creates the ladders command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ladders <file.lad>",
		Short: "Schedule C statements into OpenMP parallel sections",
		Long: `ladders reads a .lad program, groups the statements of its entry function
into batches without data dependencies, and writes <file>.c with one
"#pragma omp parallel sections" construct per batch plus a <file>.sched report.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(logVerbosity(opts.Verbose), nil)
			if opts.CallArguments != "" && !access.CallArguments(opts.CallArguments).Valid() {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid --call-arguments %q: must be %q or %q",
						opts.CallArguments, access.IgnoreCallArguments, access.ReadCallArguments))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runTranspile(cmd, opts, path)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Config, "config", "c", "", "config file (default: ladders.yaml next to the input)")
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", "", "directory for the .c and .sched outputs (default: next to the input)")
	flags.StringVarP(&opts.Entry, "entry", "e", "", "function whose body is scheduled (default: main)")
	flags.BoolVar(&opts.ShareReads, "share-reads", true, "let statements that only read a variable share a batch")
	flags.StringVar(&opts.CallArguments, "call-arguments", "", "treatment of identifiers passed directly to calls (ignore|read)")
	flags.BoolVar(&opts.Stdout, "stdout", false, "print the annotated program instead of writing files")
	flags.BoolVar(&opts.Summary, "summary", false, "print the batches as a table")
	cmd.PersistentFlags().CountVarP(&opts.Verbose, "verbose", "v", "verbose logging (repeat for more)")

	return cmd
}

// logVerbosity maps -v to info and -vv to debug; without -v only errors
// are logged.
func logVerbosity(count int) int {
	if count == 0 {
		return 0
	}
	return count + 2
}

// resolveConfig layers the config file, the environment and the flags.
func resolveConfig(cmd *cobra.Command, opts *RootOptions, path string) (config.Config, error) {
	cfg, _, err := config.Discover(opts.Config, path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("entry") {
		cfg.Entry = opts.Entry
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.OutputDir
	}
	if flags.Changed("share-reads") {
		cfg.ShareReads = opts.ShareReads
	}
	if flags.Changed("call-arguments") {
		cfg.CallArguments = access.CallArguments(opts.CallArguments)
	}
	return cfg, cfg.Validate()
}

func runTranspile(cmd *cobra.Command, opts *RootOptions, path string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	startTime := time.Now()

	if err := pipeline.CheckInput(path); err != nil {
		return report(stderr, "", "", ExitCommandError, err)
	}

	cfg, err := resolveConfig(cmd, opts, path)
	if err != nil {
		return report(stderr, "", "", ExitCommandError, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return report(stderr, "", "", ExitCommandError, errors.FileNotFound(path))
	}
	src := string(data)

	out, err := pipeline.Transpile(path, src, cfg)
	if err != nil {
		return report(stderr, path, src, ExitFailure, err)
	}

	reporter := errors.NewErrorReporter(path, src)
	for _, w := range out.Warnings {
		fmt.Fprint(stderr, reporter.FormatError(w))
	}

	if opts.Summary {
		fmt.Fprintln(stdout, emit.Summary(out.Unit, out.Result))
	}

	if opts.Stdout {
		fmt.Fprint(stdout, out.Annotated)
		return nil
	}

	written, err := out.Write(path, cfg.OutputDir)
	if err != nil {
		return report(stderr, "", "", ExitFailure, err)
	}

	color.New(color.FgGreen).Fprintf(stdout, "Scheduled %s: %d statements, %d hoisted, %d batches in %s\n",
		path, len(out.Unit.Statements), len(out.Result.Declarations), len(out.Result.Batches),
		formatDuration(time.Since(startTime)))
	for _, w := range written {
		fmt.Fprintf(stdout, "  wrote %s\n", w)
	}
	return nil
}

// report prints err with the caret reporter when it is a CompilerError and
// wraps it with the exit code.
func report(w io.Writer, path, src string, code int, err error) error {
	var ce errors.CompilerError
	if stderrors.As(err, &ce) {
		fmt.Fprint(w, errors.NewErrorReporter(path, src).FormatError(ce))
	} else {
		color.New(color.FgRed).Fprintf(w, "error: %v\n", err)
	}
	exitErr := WrapExitError(code, "ladders failed", err)
	exitErr.Reported = true
	return exitErr
}

// Execute runs the command with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) || !exitErr.Reported {
		color.New(color.FgRed).Fprintf(stderr, "error: %v\n", err)
		if !stderrors.As(err, &exitErr) {
			fmt.Fprintln(stderr, cmd.UsageString())
		}
	}
	return GetExitCode(err)
}
