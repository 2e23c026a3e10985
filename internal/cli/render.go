package cli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/render"
	"github.com/matzehuels/lockgraph/pkg/render/nodelink"
)

// Output formats accepted by the render command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

var renderFormats = []string{formatDOT, formatSVG, formatPDF, formatPNG}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		format, output     string
		prodOnly, detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the dependency graph",
		Long: `Draw the dependency graph as a node-link diagram.

DOT and SVG are produced in-process. PDF and PNG additionally require
rsvg-convert from librsvg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			res, err := c.loadProject(cmd.Context())
			if err != nil {
				return err
			}

			opts := nodelink.Options{
				ProdOnly: c.config.Render.ProdOnly,
				Detailed: c.config.Render.Detailed,
			}
			if cmd.Flags().Changed("prod") {
				opts.ProdOnly = prodOnly
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = detailed
			}

			data, err := renderGraph(cmd.Context(), nodelink.ToDOT(res.Graph, opts), format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
			}
			printSuccess(cmd.ErrOrStderr(), "Rendered %d packages", res.Graph.Len())
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: "+strings.Join(renderFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&prodOnly, "prod", false, "skip dev dependencies")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show sources and install locations")
	return cmd
}

func validateFormat(format string) error {
	if !slices.Contains(renderFormats, format) {
		return fmt.Errorf("invalid format %q (want one of: %s)", format, strings.Join(renderFormats, ", "))
	}
	return nil
}

func renderGraph(ctx context.Context, dot, format string) ([]byte, error) {
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatPDF:
		return render.ToPDF(ctx, svg)
	case formatPNG:
		return render.ToPNG(ctx, svg, 2.0)
	}
	return svg, nil
}
