package cli

import (
	"errors"
	"maps"

	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/cobra"
)

func newRowCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		newInsertRowCmd(a),
		newAppendRowCmd(a),
		newDeleteRowCmd(a),
		newUpdateRowCmd(a),
		newSetCellCmd(a),
	}
}

func newInsertRowCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "insert-row <file> <index> <name=value>...",
		Short: "Insert a row before a 0-based index",
		Long:  "Insert a row. Every column must be given exactly once as name=value.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("row index", args[1])
			if err != nil {
				return err
			}
			row, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			if _, err := t.InsertRow(idx, row); err != nil {
				return userError(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}

func newAppendRowCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "append-row <file> <name=value>...",
		Short: "Append a row",
		Long:  "Append a row. Every column must be given exactly once as name=value.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			if _, err := t.AppendRow(row); err != nil {
				return userError(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}

func newDeleteRowCmd(a *app) *cobra.Command {
	var (
		out  outputFlags
		last bool
	)
	cmd := &cobra.Command{
		Use:   "delete-row <file> [index]",
		Short: "Delete the row at a 0-based index, or the last row with --last",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if last == (len(args) == 2) {
				return userError(errors.New("give either an index or --last"))
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}

			var removed types.Row
			if last {
				removed, err = t.RemoveLastRow()
			} else {
				var idx int
				if idx, err = parseIndex("row index", args[1]); err != nil {
					return err
				}
				removed, err = t.DeleteRow(idx)
			}
			if err != nil {
				return userError(err)
			}
			a.logger.Info("row deleted", "row", removed.String())
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	cmd.Flags().BoolVar(&last, "last", false, "delete the last row")
	return cmd
}

func newUpdateRowCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "update-row <file> <index> <name=value>...",
		Short: "Replace values in the row at a 0-based index",
		Long:  "Replace the named values of one row. Columns not given keep their\ncurrent values; naming a column the table lacks is an error.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("row index", args[1])
			if err != nil {
				return err
			}
			changes, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			current, err := t.Row(idx)
			if err != nil {
				return userError(err)
			}
			maps.Copy(current.Values, changes.Values)
			if _, err := t.UpdateRow(idx, current); err != nil {
				return userError(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}

func newSetCellCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "set-cell <file> <column> <index> <value>",
		Short: "Replace one cell",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex("row index", args[2])
			if err != nil {
				return err
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			prev, err := t.UpdateCell(args[1], idx, args[3])
			if err != nil {
				return userError(err)
			}
			a.logger.Debug("cell updated", "column", args[1], "row", idx, "previous", types.FormatValue(prev))
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}
