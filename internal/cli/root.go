// Package cli implements the csvtable command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/csvtable/internal/logging"
	"github.com/mesh-intelligence/csvtable/internal/paths"
	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	noHeader  bool
	jsonMode  bool
}

// app is the state shared by one run of the command tree.
type app struct {
	flags  rootFlags
	v      *viper.Viper
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewRootCmd creates the top-level "csvtable" command with global flags
// and all subcommands registered. Data goes to stdout, diagnostics to
// stderr.
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "csvtable",
		Short: "Query and edit delimited text tables",
		Long:  "csvtable loads a CSV file into an in-memory table, runs one query or\nmutation against it, and prints or saves the result.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/csvtable)")
	pf.StringP("delimiter", "d", types.DefaultDelimiter, "field delimiter, one byte")
	pf.BoolVar(&a.flags.noHeader, "no-header", false, "first line is data; columns are named 0, 1, ...")
	pf.String("quoting", string(types.DefaultQuoting), "output quoting: minimal, all, none")
	pf.Bool("crlf", false, "end output lines with \\r\\n")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	for key, flag := range boundFlags {
		// Lookup cannot fail: every name in boundFlags is registered above.
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newQueryCmds(a)...)
	root.AddCommand(newColumnCmds(a)...)
	root.AddCommand(newRowCmds(a)...)

	return root
}

// Run executes the command tree with args and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "csvtable:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// Execute runs the root command against the process arguments and exits
// with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// setup loads configuration and installs the logger before any subcommand
// runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := loadConfig(a.v, configDir); err != nil {
		return sysError(err)
	}
	if cmd.Flags().Changed("no-header") {
		a.v.Set(cfgKeyHasHeader, !a.flags.noHeader)
	}

	a.logger = logging.Setup(a.stderr, a.v.GetString(cfgKeyLogLevel), a.v.GetString(cfgKeyLogFormat))
	a.logger.Debug("configuration loaded",
		"config_dir", configDir,
		"config_file", a.v.ConfigFileUsed(),
	)
	return nil
}

// cliError carries the exit code a failure maps to.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error { return &cliError{code: exitUserError, err: err} }
func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }

// exitCode maps err to an exit code. Errors not tagged by a command are
// user errors; cobra reports bad flags and arguments that way.
func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUserError
}
