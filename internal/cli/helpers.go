package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/csvtable/internal/csvio"
	"github.com/mesh-intelligence/csvtable/pkg/csvtable"
	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/cobra"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// outputFlags selects where a mutating command writes the table.
type outputFlags struct {
	output  string
	inPlace bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&o.inPlace, "in-place", false, "replace the input file with the result")
}

// openTable loads the table named by path, or standard input for "-".
func (a *app) openTable(path string) (types.Table, types.Config, error) {
	cfg, err := tableConfig(a.v)
	if err != nil {
		return nil, types.Config{}, userError(err)
	}
	opts := []csvtable.Option{
		csvtable.WithLogger(a.logger),
		csvtable.WithDebug(a.logger.Enabled(context.Background(), slog.LevelDebug)),
	}

	var t types.Table
	if path == stdinPath {
		t, err = csvtable.Parse(a.stdin, cfg, opts...)
	} else {
		t, err = csvtable.Open(path, cfg, opts...)
	}
	if err != nil {
		return nil, types.Config{}, classify(err)
	}
	return t, cfg, nil
}

// save writes t to stdout, the --output file, or back over path.
func (a *app) save(t types.Table, cfg types.Config, path string, out outputFlags) error {
	var dest string
	switch {
	case out.inPlace && out.output != "":
		return userError(errors.New("--in-place and --output are mutually exclusive"))
	case out.inPlace && path == stdinPath:
		return userError(errors.New("--in-place needs a file, not stdin"))
	case out.inPlace:
		dest = path
	default:
		dest = out.output
	}

	if dest == "" {
		return classify(csvtable.Write(t, a.stdout, cfg.CRLF))
	}
	if err := csvtable.WriteFile(t, dest, cfg.CRLF); err != nil {
		return classify(err)
	}
	a.logger.Info("table written", "path", dest, "rows", t.NumRows(), "columns", t.NumColumns())
	return nil
}

// printJSON writes v as indented JSON followed by a newline.
func (a *app) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

// classify tags err with its exit code: I/O failures are system errors,
// everything else the caller can fix.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	if csvio.IsIOError(err) {
		return sysError(err)
	}
	return userError(err)
}

// parseIndex parses a 0-based row or column index argument.
func parseIndex(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, userError(fmt.Errorf("%s %q is not an integer", what, s))
	}
	return n, nil
}

// parseAssignments turns name=value arguments into a row. A name may not
// repeat.
func parseAssignments(args []string) (types.Row, error) {
	values := make(map[string]any, len(args))
	columns := make([]string, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return types.Row{}, userError(fmt.Errorf("expected name=value, got %q", arg))
		}
		if _, dup := values[name]; dup {
			return types.Row{}, userError(fmt.Errorf("column %q given twice", name))
		}
		values[name] = value
		columns = append(columns, name)
	}
	return types.Row{Values: values, Columns: columns}, nil
}
