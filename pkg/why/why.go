// Package why explains why a package is part of a dependency graph by
// listing the chains of dependents that lead from it back to a package
// nothing depends on.
package why

import (
	"strings"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

// Paths returns every chain of reverse edges starting at id. Each path is
// innermost-first: path[0] is an edge into id, and each following edge
// leads into the previous edge's requester.
//
// A branch ends at a package without dependents. A branch that would revisit
// a requester or a dependency already on it is abandoned and produces no
// path, so cyclic graphs terminate.
func Paths(g *graph.Graph, id graph.PackageID) [][]graph.Edge {
	var out [][]graph.Edge
	for _, e := range g.Dependents(id) {
		out = append(out, extend(g, []graph.Edge{e})...)
	}
	return out
}

func extend(g *graph.Graph, path []graph.Edge) [][]graph.Edge {
	next := g.Dependents(path[len(path)-1].From)
	if len(next) == 0 {
		return [][]graph.Edge{path}
	}
	var out [][]graph.Edge
	for _, e := range next {
		if revisits(path, e) {
			continue
		}
		branch := make([]graph.Edge, len(path), len(path)+1)
		copy(branch, path)
		out = append(out, extend(g, append(branch, e))...)
	}
	return out
}

func revisits(path []graph.Edge, e graph.Edge) bool {
	for _, d := range path {
		if d.From == e.From || d.On == e.On {
			return true
		}
	}
	return false
}

// ForName runs [Paths] for every package called name.
func ForName(g *graph.Graph, name string) [][]graph.Edge {
	var out [][]graph.Edge
	for _, id := range g.PackagesNamed(name) {
		out = append(out, Paths(g, id)...)
	}
	return out
}

// Format renders path outermost-first:
//
//	app -Dependency-> lib -PeerDependency-> react
func Format(g *graph.Graph, path []graph.Edge) string {
	if len(path) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(displayName(g, path[len(path)-1].From))
	for i := len(path) - 1; i >= 0; i-- {
		b.WriteString(" -")
		b.WriteString(path[i].Kind.String())
		b.WriteString("-> ")
		b.WriteString(displayName(g, path[i].On))
	}
	return b.String()
}

func displayName(g *graph.Graph, id graph.PackageID) string {
	if p, ok := g.Package(id); ok {
		return p.DisplayName()
	}
	return graph.Unnamed
}
