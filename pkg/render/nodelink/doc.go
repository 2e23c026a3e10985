// Package nodelink renders dependency graphs as node-link diagrams.
//
// # Usage
//
// Convert a graph to DOT, then render it to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{ProdOnly: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Styling
//
// Nodes are keyed by package id, so packages sharing a name (two versions
// of the same library) stay distinct. The root is drawn bold and workspace
// members are filled grey. Edge styles follow the dependency kind:
//
//   - Dependency: solid
//   - DevDependency: dashed
//   - PeerDependency: dotted
//   - OptionalDependency, OptionalPeerDependency: grey
//
// Edges declared under an alias carry the alias as their label.
//
// # Options
//
//   - ProdOnly: drop development edges and every package only reachable
//     through them
//   - Detailed: add source and install locations to node labels
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
