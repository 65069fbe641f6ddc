package cli

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mesh-intelligence/csvtable/pkg/types"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fill modes for add-column.
const (
	fillUUID  = "uuid"
	fillIndex = "index"
)

// alterOps maps an --op name to a constructor for the cell transform it
// applies. A cases.Caser holds state, so each command run builds its own.
var alterOps = map[string]func() func(string) string{
	"upper": func() func(string) string { return cases.Upper(language.Und).String },
	"lower": func() func(string) string { return cases.Lower(language.Und).String },
	"title": func() func(string) string { return cases.Title(language.Und).String },
	"trim":  func() func(string) string { return strings.TrimSpace },
}

func newColumnCmds(a *app) []*cobra.Command {
	return []*cobra.Command{
		newAddColumnCmd(a),
		newDropColumnCmd(a),
		newRenameColumnCmd(a),
		newAlterColumnCmd(a),
		newConvertColumnCmd(a),
	}
}

func newAddColumnCmd(a *app) *cobra.Command {
	var (
		out    outputFlags
		values []string
		fill   string
	)
	cmd := &cobra.Command{
		Use:   "add-column <file> <name>",
		Short: "Append a column",
		Long: "Append a column. Cells are empty unless --values lists one value per row\n" +
			"or --fill generates them: \"uuid\" gives each row a fresh UUIDv7, \"index\"\n" +
			"its 0-based row number.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("values") && fill != "" {
				return userError(errors.New("--values and --fill are mutually exclusive"))
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}

			name := args[1]
			switch {
			case cmd.Flags().Changed("values"):
				list := make([]any, len(values))
				for i, v := range values {
					list[i] = v
				}
				_, err = t.AddColumnFromList(name, list)
			case fill != "":
				var list []any
				list, err = fillValues(fill, t.NumRows())
				if err == nil {
					_, err = t.AddColumnFromList(name, list)
				}
			default:
				_, err = t.AddColumn(name)
			}
			if err != nil {
				return classify(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	cmd.Flags().StringSliceVar(&values, "values", nil, "comma-separated cell values, one per row")
	cmd.Flags().StringVar(&fill, "fill", "", "generate cells: uuid or index")
	return cmd
}

// fillValues generates n cells for the given fill mode.
func fillValues(mode string, n int) ([]any, error) {
	list := make([]any, n)
	switch mode {
	case fillUUID:
		for i := range list {
			id, err := uuid.NewV7()
			if err != nil {
				return nil, sysError(fmt.Errorf("generate uuid: %w", err))
			}
			list[i] = id.String()
		}
	case fillIndex:
		for i := range list {
			list[i] = strconv.Itoa(i)
		}
	default:
		return nil, userError(fmt.Errorf("unknown fill %q (valid: %s, %s)", mode, fillUUID, fillIndex))
	}
	return list, nil
}

func newDropColumnCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "drop-column <file> <name>",
		Short: "Remove a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			dropped, err := t.DropColumn(args[1])
			if err != nil {
				return userError(err)
			}
			a.logger.Info("column dropped", "column", args[1], "cells", len(dropped))
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}

func newRenameColumnCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "rename-column <file> <old> <new>",
		Short: "Rename a column in place",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			if err := t.RenameColumn(args[1], args[2]); err != nil {
				return userError(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}

func newAlterColumnCmd(a *app) *cobra.Command {
	var (
		out outputFlags
		op  string
	)
	cmd := &cobra.Command{
		Use:   "alter-column <file> <name>",
		Short: "Transform every cell of a column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newFn, ok := alterOps[op]
			if !ok {
				return userError(fmt.Errorf("unknown --op %q (valid: %s)", op, strings.Join(alterOpNames(), ", ")))
			}
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			fn := newFn()
			err = t.AlterColumn(args[1], func(v any) any {
				if v == nil {
					return nil
				}
				return fn(types.FormatValue(v))
			})
			if err != nil {
				return userError(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&op, "op", "", "transform: "+strings.Join(alterOpNames(), ", "))
	_ = cmd.MarkFlagRequired("op")
	return cmd
}

func alterOpNames() []string {
	names := make([]string, 0, len(alterOps))
	for name := range alterOps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func newConvertColumnCmd(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "convert-column <file> <name> <kind>",
		Short: "Parse a column as text, integer, float, or boolean",
		Long:  "Parse every cell of a column into kind and write the normalized table.\nIf any cell does not parse, nothing is written.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, cfg, err := a.openTable(args[0])
			if err != nil {
				return err
			}
			if err := t.ConvertColumn(args[1], types.ColumnKind(strings.ToLower(args[2]))); err != nil {
				return userError(err)
			}
			return a.save(t, cfg, args[0], out)
		},
	}
	out.register(cmd)
	return cmd
}
