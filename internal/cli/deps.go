package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

func (c *CLI) depsCommand() *cobra.Command {
	var prodOnly, transitive bool

	cmd := &cobra.Command{
		Use:   "deps [package]",
		Short: "List the dependencies of the project or a package",
		Long: `List the dependencies of the root package, or of every package with the
given name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadProject(cmd.Context())
			if err != nil {
				return err
			}
			g := res.Graph

			ids := []graph.PackageID{g.RootID()}
			if len(args) == 1 {
				ids = g.PackagesNamed(args[0])
				if len(ids) == 0 {
					c.Logger.Warn("No package with that name", "name", args[0])
					return nil
				}
			}

			w := cmd.OutOrStdout()
			for i, id := range ids {
				if i > 0 {
					fmt.Fprintln(w)
				}
				p, _ := g.Package(id)
				fmt.Fprintln(w, StyleTitle.Render(label(p)))
				writeDeps(w, g, selectDeps(g, id, prodOnly, transitive))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prodOnly, "prod", false, "skip dev dependencies")
	cmd.Flags().BoolVar(&transitive, "transitive", false, "include indirect dependencies")
	return cmd
}

func selectDeps(g *graph.Graph, id graph.PackageID, prodOnly, transitive bool) []graph.Edge {
	switch {
	case transitive && prodOnly:
		return g.TransitiveProd(id)
	case transitive:
		return g.Transitive(id)
	case prodOnly:
		return g.ProdDependencies(id)
	default:
		return g.Dependencies(id)
	}
}

func writeDeps(w io.Writer, g *graph.Graph, edges []graph.Edge) {
	if len(edges) == 0 {
		printDetail(w, "no dependencies")
		return
	}
	for _, e := range edges {
		p, _ := g.Package(e.On)
		line := "  " + StyleHighlight.Render(label(p)) + " " + styleKind.Render(e.Kind.String())
		if !e.Alias.IsZero() {
			line += StyleDim.Render(" as " + e.Alias.String())
		}
		fmt.Fprintln(w, line)
	}
}

// label returns "name@version", or just the name when the version is unknown.
func label(p *graph.Package) string {
	if p.Version == "" {
		return p.DisplayName()
	}
	return p.DisplayName() + "@" + p.Version
}
