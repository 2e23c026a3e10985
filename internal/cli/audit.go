package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/pkg/audit"
)

func (c *CLI) auditCommand() *cobra.Command {
	var failuresOK bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check for packages that cannot be verified",
		Long: `Check every installed package for missing or weak checksums and for sources
lockgraph does not recognize.

The exit code is the number of failed checks unless --failures-ok is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadProject(cmd.Context())
			if err != nil {
				return err
			}
			report := audit.Run(res.Graph, audit.Options{
				Algorithms: c.config.Audit.Algorithms,
				Format:     res.Format,
				Version:    res.Version,
			})
			if err := report.WriteText(cmd.OutOrStdout()); err != nil {
				return err
			}

			if failed := report.Failed(); failed > 0 && !failuresOK && !c.config.Audit.FailuresOK {
				return &ExitError{Code: failed}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failuresOK, "failures-ok", false, "exit with status 0 even when checks fail")
	return cmd
}
