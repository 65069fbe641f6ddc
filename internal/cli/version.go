package cli

import (
	"fmt"

	"github.com/mesh-intelligence/csvtable/pkg/csvtable"
	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/csvtable"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the csvtable version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.stdout, "csvtable %s\nmodule: %s\n", csvtable.Version, modulePath)
			return nil
		},
	}
}
