package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lpbridge/internal/solver"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tAVAILABLE\tRESOLVE")
			for _, name := range solver.Names() {
				be, err := solver.Lookup(name)
				if err != nil {
					continue
				}
				fmt.Fprintf(tw, "%s\t%t\t%t\n", be.Name(), be.Available(), be.SupportsResolve())
			}
			return tw.Flush()
		},
	}
}
