package cli

import (
	"github.com/spf13/cobra"

	graphio "github.com/matzehuels/lockgraph/pkg/io"
)

func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dependency graph as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadProject(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" {
				return graphio.WriteJSON(res.Graph, cmd.OutOrStdout())
			}
			if err := graphio.ExportJSON(res.Graph, output); err != nil {
				return err
			}
			printSuccess(cmd.ErrOrStderr(), "Exported %d packages", res.Graph.Len())
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
