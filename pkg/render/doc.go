// Package render turns dependency graphs into pictures.
//
// The [nodelink] subpackage produces Graphviz diagrams with one box per
// package and one arrow per dependency edge. This package converts the
// resulting SVG to other formats:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert from librsvg.
//
// [nodelink]: github.com/matzehuels/lockgraph/pkg/render/nodelink
package render
