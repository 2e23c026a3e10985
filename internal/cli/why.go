package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/pkg/why"
)

func (c *CLI) whyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "why <package>",
		Short: "Show the chains of dependents that pull a package in",
		Long: `Print every chain of dependents from the project down to the named package,
one per line:

  app -Dependency-> lib -PeerDependency-> react`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadProject(cmd.Context())
			if err != nil {
				return err
			}
			g := res.Graph
			name := args[0]
			if len(g.PackagesNamed(name)) == 0 {
				c.Logger.Warn("No package with that name", "name", name)
				return nil
			}

			w := cmd.OutOrStdout()
			for _, path := range why.ForName(g, name) {
				fmt.Fprintln(w, why.Format(g, path))
			}
			return nil
		},
	}
}
