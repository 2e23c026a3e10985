package graph

import (
	"github.com/matzehuels/lockgraph/pkg/descriptor"
)

// Graph is a frozen dependency graph produced by [Builder.Freeze].
type Graph struct {
	packages      []Package
	edges         []Edge
	installations []Installation
	root          PackageID
	members       []PackageID
	memberSet     map[PackageID]struct{}

	outgoing    map[PackageID][]int
	incoming    map[PackageID][]int
	installedAt map[PackageID][]int
	byName      map[string][]PackageID
}

// Len returns the number of packages.
func (g *Graph) Len() int { return len(g.packages) }

// Package returns the package with the given id.
func (g *Graph) Package(id PackageID) (*Package, bool) {
	if uint64(id) >= uint64(len(g.packages)) {
		return nil, false
	}
	return &g.packages[id], true
}

// PackageIDs returns every package id in ascending order.
func (g *Graph) PackageIDs() []PackageID {
	ids := make([]PackageID, len(g.packages))
	for i := range ids {
		ids[i] = PackageID(i)
	}
	return ids
}

// Packages returns every package, indexed by id.
func (g *Graph) Packages() []Package { return g.packages }

// PackagesNamed returns the ids of all packages called name, in ascending
// order. Several versions of one package may coexist.
func (g *Graph) PackagesNamed(name string) []PackageID {
	return g.byName[name]
}

// RootID returns the id of the root package.
func (g *Graph) RootID() PackageID { return g.root }

// Root returns the root package.
func (g *Graph) Root() *Package { return &g.packages[g.root] }

// WorkspaceMembers returns the workspace member ids in the order they were
// marked.
func (g *Graph) WorkspaceMembers() []PackageID { return g.members }

// IsWorkspaceMember reports whether id is a workspace member.
func (g *Graph) IsWorkspaceMember(id PackageID) bool {
	_, ok := g.memberSet[id]
	return ok
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Installations returns every installation in insertion order.
func (g *Graph) Installations() []Installation { return g.installations }

// Dependencies returns the edges going out of id, in insertion order.
func (g *Graph) Dependencies(id PackageID) []Edge {
	return g.collect(g.outgoing[id], nil)
}

// ProdDependencies returns the edges going out of id whose kind is not
// DevDependency.
func (g *Graph) ProdDependencies(id PackageID) []Edge {
	return g.collect(g.outgoing[id], Kind.IsProd)
}

// DependenciesOfKind returns the edges going out of id with the given kind.
func (g *Graph) DependenciesOfKind(id PackageID, kind Kind) []Edge {
	return g.collect(g.outgoing[id], func(k Kind) bool { return k == kind })
}

// Dependents returns the edges pointing at id, in insertion order.
func (g *Graph) Dependents(id PackageID) []Edge {
	return g.collect(g.incoming[id], nil)
}

// Transitive returns the edges reachable from id, breadth-first. Each
// target package appears at most once, at the first edge that reached it.
// The traversal terminates on cycles; a package that transitively depends
// on itself is included in its own result.
func (g *Graph) Transitive(id PackageID) []Edge {
	return g.transitive(id, nil)
}

// TransitiveProd is like [Graph.Transitive] but ignores DevDependency
// edges.
func (g *Graph) TransitiveProd(id PackageID) []Edge {
	return g.transitive(id, Kind.IsProd)
}

func (g *Graph) transitive(id PackageID, keep func(Kind) bool) []Edge {
	var result []Edge
	seen := make(map[PackageID]bool)
	queue := []PackageID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, i := range g.outgoing[cur] {
			e := g.edges[i]
			if keep != nil && !keep(e.Kind) {
				continue
			}
			if seen[e.On] {
				continue
			}
			seen[e.On] = true
			result = append(result, e)
			queue = append(queue, e.On)
		}
	}
	return result
}

// InstallationsOf returns every path id is installed at.
func (g *Graph) InstallationsOf(id PackageID) []descriptor.Path {
	idx := g.installedAt[id]
	paths := make([]descriptor.Path, len(idx))
	for i, j := range idx {
		paths[i] = g.installations[j].Path
	}
	return paths
}

func (g *Graph) collect(idx []int, keep func(Kind) bool) []Edge {
	out := make([]Edge, 0, len(idx))
	for _, i := range idx {
		if keep == nil || keep(g.edges[i].Kind) {
			out = append(out, g.edges[i])
		}
	}
	return out
}
