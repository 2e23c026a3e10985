// Package pkg provides the core libraries for lockgraph.
//
// # Overview
//
// Lockgraph reads JavaScript lockfiles into one canonical dependency graph,
// independent of the package manager that wrote them. The pkg directory is
// organized into three areas:
//
//  1. Model - [descriptor] grammars and the [graph] itself
//  2. Reading - [lockfile] adapters and the [resolve] engine that binds
//     declared dependencies to locked packages
//  3. Queries - [why], [audit], [io] and [render/nodelink]
//
// # Architecture
//
// The typical data flow:
//
//	package-lock.json / yarn.lock (+ package.json, .yarn-state.yml)
//	         ↓
//	    [lockfile] adapters (through a Loader)
//	         ↓
//	    [resolve] + [override] (pick a candidate for every declared dependency)
//	         ↓
//	    [graph] (frozen, read-only)
//	         ↓
//	    why paths / audit report / JSON / DOT / SVG
//
// # Quick Start
//
//	res, err := lockfile.Parse(ctx, lockfile.DirLoader("."), lockfile.Options{},
//	    npm.Parser{}, berry.Parser{})
//	if err != nil {
//	    return err
//	}
//	for _, path := range why.ForName(res.Graph, "react") {
//	    fmt.Println(why.Format(res.Graph, path))
//	}
//
// # Main Packages
//
// [descriptor] - Package names, install paths and dependency specifiers.
// Parsing never guesses: invalid input is rejected with a coded error.
//
// [graph] - Packages, dependency edges and installations. Built through an
// append-only Builder and frozen into a read-only Graph.
//
// [override] - Override and resolution tables, including parent-scoped keys
// such as "parent@1/child".
//
// [resolve] - Binds a declared dependency to a locked package. Peer
// dependencies with several candidates go through an ordered list of rules.
//
// [lockfile] - The Parser interface, Loaders and package.json handling.
// Format adapters live in [lockfile/npm] and [lockfile/berry].
//
// [observability] - Hooks for parse and resolve events. Libraries never log.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example       # Examples only
//	go test -fuzz FuzzParsePath ./pkg/descriptor
//
// [descriptor]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/descriptor
// [graph]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/graph
// [override]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/override
// [resolve]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/resolve
// [lockfile]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/lockfile
// [lockfile/npm]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/lockfile/npm
// [lockfile/berry]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/lockfile/berry
// [observability]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/errors
// [why]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/why
// [audit]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/audit
// [io]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/lockgraph/pkg/render/nodelink
package pkg
