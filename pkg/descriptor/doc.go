// Package descriptor parses the three kinds of text that lockfiles use to
// talk about packages: package names, install paths and source/version
// specifiers.
//
// # Overview
//
// All three parsers are pure functions over their input and never copy
// substrings. A parsed value keeps the original string and a handful of
// byte offsets, and accessor methods slice the original on demand:
//
//	n, _ := descriptor.ParseName("@babel/core")
//	n.Scope()  // "@babel"
//	n.Rest()   // "core"
//
// # Specifiers
//
// [ParseSpecifier] classifies the right-hand side of a dependency
// declaration ("^1.2.3", "npm:real@^2", "git+https://...", "owner/repo",
// "latest"). Classification is total: input that matches no structured
// grammar is an npm distribution tag. Grammars are tried in a fixed order
// and the first structural match wins:
//
//  1. npm range, with optional "npm:" prefix and optional "name@" alias
//  2. http(s) URL, optionally "git+" prefixed (Git or tarball)
//  3. SSH remote, "[git+]ssh://host[:port]/path" or "host:path.git"
//  4. GitHub shorthand, "[github:]owner/repo[#ref]"
//  5. npm tag
//
// Ranges are validated with [github.com/Masterminds/semver/v3].
//
// # Install Paths
//
// [ParsePath] validates nested node_modules paths such as
// "packages/app/node_modules/@scope/pkg/node_modules/dep" and exposes the
// chain of package names along the path. The empty path is the project
// root.
package descriptor
