package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// ProdOnly omits dev dependencies and the packages only they pull in.
	ProdOnly bool
	// Detailed adds the source and install locations to node labels.
	// When false, only name and version are shown.
	Detailed bool
}

var edgeStyles = map[graph.Kind]string{
	graph.Dependency:             "",
	graph.DevDependency:          "style=dashed",
	graph.PeerDependency:         "style=dotted",
	graph.OptionalDependency:     "color=grey50",
	graph.OptionalPeerDependency: "style=dotted, color=grey50",
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(g *graph.Graph, opts Options) string {
	keep := func(graph.Kind) bool { return true }
	if opts.ProdOnly {
		keep = graph.Kind.IsProd
	}
	visible := reachable(g, keep)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range g.PackageIDs() {
		if !visible[id] {
			continue
		}
		attrs := fmtAttrs(g, id, fmtLabel(g, id, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !keep(e.Kind) || !visible[e.From] || !visible[e.On] {
			continue
		}
		var attrs []string
		if s := edgeStyles[e.Kind]; s != "" {
			attrs = append(attrs, s)
		}
		if !e.Alias.IsZero() {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Alias.String()))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(e.From), nodeID(e.On))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(e.From), nodeID(e.On), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// reachable returns the packages reachable from the root and workspace
// members over edges accepted by keep.
func reachable(g *graph.Graph, keep func(graph.Kind) bool) map[graph.PackageID]bool {
	seen := map[graph.PackageID]bool{g.RootID(): true}
	queue := []graph.PackageID{g.RootID()}
	for _, m := range g.WorkspaceMembers() {
		if !seen[m] {
			seen[m] = true
			queue = append(queue, m)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.Dependencies(id) {
			if keep(e.Kind) && !seen[e.On] {
				seen[e.On] = true
				queue = append(queue, e.On)
			}
		}
	}
	return seen
}

func nodeID(id graph.PackageID) string { return "p" + id.String() }

func fmtLabel(g *graph.Graph, id graph.PackageID, detailed bool) string {
	p, _ := g.Package(id)
	label := p.DisplayName()
	if p.Version != "" {
		label += "@" + p.Version
	}
	if !detailed {
		return label
	}

	parts := []string{"source: " + p.Source.Kind.String()}
	if p.Source.URL != "" {
		parts = append(parts, p.Source.URL)
	}
	if p.Derivation != nil {
		parts = append(parts, "patched")
	}
	for _, path := range g.InstallationsOf(id) {
		if path.IsRoot() {
			parts = append(parts, "at: .")
		} else {
			parts = append(parts, "at: "+path.String())
		}
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(g *graph.Graph, id graph.PackageID, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case id == g.RootID():
		attrs = append(attrs, "penwidth=3")
	case g.IsWorkspaceMember(id):
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The SVG can be converted further with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header so the picture
// scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
