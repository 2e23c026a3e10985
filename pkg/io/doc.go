// Package io exports dependency graphs as JSON.
//
// # JSON Format
//
// Packages are listed in id order, so a package's position in the
// "packages" array is its id. Edges and installations refer to packages by
// that id:
//
//	{
//	  "root": 0,
//	  "workspace_members": [1],
//	  "packages": [
//	    {"id": 0, "name": "app", "version": "1.0.0", "source": {"kind": "unknown"}},
//	    {"id": 1, "name": "@app/lib", "version": "0.1.0", "source": {"kind": "unknown"}},
//	    {"id": 2, "name": "lodash", "version": "4.17.21",
//	     "source": {"kind": "npm"},
//	     "checksums": [{"kind": "tarball", "integrity": "sha512-..."}]}
//	  ],
//	  "edges": [
//	    {"kind": "Dependency", "from": 0, "on": 2, "specifier": "^4.17.0"},
//	    {"kind": "Dependency", "from": 1, "on": 2, "alias": "lo", "specifier": "npm:lodash@^4"}
//	  ],
//	  "installations": [
//	    {"package": 0, "path": ""},
//	    {"package": 2, "path": "node_modules/lodash"}
//	  ]
//	}
//
// Optional package fields (name, version, checksums, derivation) and edge
// fields (alias, specifier) are omitted when absent.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer:
//
//	err := io.ExportJSON(g, "graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The format is an output format only; lockfiles remain the source of truth.
package io
