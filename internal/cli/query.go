package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/cobra"
)

func newQueryCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		newHeadersCmd(a),
		newShowCmd(a),
		newRowCmd(a),
		newFindCmd(a),
		newCellCmd(a),
		newColumnCmd(a),
	}
}

func newHeadersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "headers <file>",
		Short: "List column names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return a.printJSON(t.Headers())
			}
			for _, h := range t.Headers() {
				fmt.Fprintln(a.stdout, h)
			}
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	var tabs bool
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print every row",
		Long:  "Print the table as delimited text, as a JSON array of row objects with\n--json, or as aligned columns with --tabs.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			switch {
			case a.flags.jsonMode:
				return a.printJSON(t.AllRows())
			case tabs:
				tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, strings.Join(t.Headers(), "\t"))
				for r := range t.Rows() {
					fmt.Fprintln(tw, r.Format("\t"))
				}
				return classify(tw.Flush())
			default:
				return a.save(t, cfg, args[0], outputFlags{})
			}
		},
	}
	cmd.Flags().BoolVar(&tabs, "tabs", false, "print aligned columns")
	return cmd
}

func newRowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "row <file> <index>",
		Short: "Print the row at a 0-based index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("row index", args[1])
			if err != nil {
				return err
			}
			t, _, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			r, err := t.Row(idx)
			if err != nil {
				return userError(err)
			}
			return a.printRow(r)
		},
	}
}

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <file> <column> <value>",
		Short: "Print the first row whose column equals value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			r, err := t.RowByColumnValue(args[1], args[2])
			if err != nil {
				return userError(err)
			}
			return a.printRow(r)
		},
	}
}

func (a *app) printRow(r types.Row) error {
	if a.flags.jsonMode {
		return a.printJSON(r)
	}
	fmt.Fprintln(a.stdout, r.String())
	return nil
}

func newCellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cell <file> <row> <col>",
		Short: "Print one cell by 0-based row and column index",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseIndex("row index", args[1])
			if err != nil {
				return err
			}
			col, err := parseIndex("column index", args[2])
			if err != nil {
				return err
			}
			t, _, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			s, err := t.Cell(row, col)
			if err != nil {
				return userError(err)
			}
			if a.flags.jsonMode {
				return a.printJSON(s)
			}
			fmt.Fprintln(a.stdout, s)
			return nil
		},
	}
}

func newColumnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "column <file> <name-or-index>",
		Short: "Print the values of one column",
		Long:  "Print one column, one value per line. The column is looked up by name\nfirst and then, if the argument is an integer, by 0-based position.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.openTable(args[0])
			if err != nil {
				return err
			}

			var values []any
			if idx, convErr := strconv.Atoi(args[1]); !t.HasColumn(args[1]) && convErr == nil {
				values, err = t.ColumnAt(idx)
			} else {
				values, err = t.Column(args[1])
			}
			if err != nil {
				return userError(err)
			}

			if a.flags.jsonMode {
				return a.printJSON(values)
			}
			for _, v := range values {
				fmt.Fprintln(a.stdout, types.FormatValue(v))
			}
			return nil
		},
	}
}
