// Package graph provides the canonical dependency graph that every lockfile
// format is normalized into.
//
// # Overview
//
// A [Graph] is a flat table of [Package] records addressed by [PackageID],
// plus typed [Edge] records and install locations ([Installation]). Exactly
// one package is the project root; any number may be workspace members.
// Cycles are legal (a package may depend on itself transitively, and a
// peer dependency may resolve to its requester), which is why packages
// refer to each other by integer id and never by pointer.
//
// # Building
//
// Graphs are assembled once with a [Builder] and then frozen:
//
//	b := graph.NewBuilder()
//	root := b.InsertPackage(graph.Package{Name: descriptor.MustParseName("app")})
//	lib := b.InsertPackage(graph.Package{
//	    Name:    descriptor.MustParseName("lib"),
//	    Version: "1.0.0",
//	    Source:  graph.NpmSource(),
//	})
//	_ = b.MarkRoot(root)
//	_ = b.InsertEdge(graph.Edge{Kind: graph.Dependency, From: root, On: lib})
//	g, err := b.Freeze()
//
// [Builder.InsertPackage] is idempotent: inserting a package structurally
// equal to one already present returns the existing id. Edges are
// append-only and unchecked for uniqueness, so the same pair of packages
// may be connected under several kinds.
//
// # Querying
//
// The frozen graph answers direct and transitive dependency questions
// ([Graph.Dependencies], [Graph.Transitive]), reverse lookups
// ([Graph.Dependents]) and install locations ([Graph.Installations]).
// Transitive queries are breadth-first with one visited set keyed by the
// target id, so they terminate on cyclic graphs.
//
// A Graph is immutable after [Builder.Freeze] and safe for concurrent reads.
package graph
