// Package lockfile reads lockfiles into a [graph.Graph].
//
// Each supported format is a [Parser] living in its own subpackage. Parsers
// never touch the filesystem directly: every file is requested through a
// [Loader], so projects can be parsed from disk ([DirLoader]) or from
// memory ([MapLoader]).
//
// # Usage
//
//	res, err := lockfile.Parse(ctx, lockfile.DirLoader("."), lockfile.Options{},
//	    npm.Parser{}, berry.Parser{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Format, res.Graph.Len())
package lockfile

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/observability"
)

// Options configures parsing.
type Options struct {
	// Strict treats equivalent GitHub references as the same specifier
	// when binding dependencies.
	Strict bool
}

// Result is a parsed lockfile.
type Result struct {
	Graph   *graph.Graph
	Format  string // parser name, e.g. "npm"
	Version string // lockfile format version as written in the file
}

// Parser reads one lockfile format.
type Parser interface {
	// Name identifies the format, e.g. "npm" or "yarn-berry".
	Name() string
	// Lockfile is the lockfile's path relative to the project root.
	Lockfile() string
	// Parse reads the project through loader.
	Parse(loader Loader, opts Options) (*Result, error)
}

// Detect returns the first parser whose lockfile exists.
// Returns ErrCodeUnsupportedInput when none does.
func Detect(loader Loader, parsers ...Parser) (Parser, error) {
	var tried []string
	for _, p := range parsers {
		_, ok, err := LoadOptional(loader, p.Lockfile())
		if err != nil {
			return nil, err
		}
		if ok {
			return p, nil
		}
		tried = append(tried, p.Lockfile())
	}
	return nil, errors.New(errors.ErrCodeUnsupportedInput, "no lockfile found (looked for %s)", strings.Join(tried, ", "))
}

// Parse detects the lockfile format and parses it. Progress is reported to
// the registered observability.ParseHooks.
func Parse(ctx context.Context, loader Loader, opts Options, parsers ...Parser) (*Result, error) {
	p, err := Detect(loader, parsers...)
	if err != nil {
		return nil, err
	}

	hooks := observability.Parse()
	hooks.OnParseStart(ctx, p.Name(), p.Lockfile())
	start := time.Now()

	res, err := p.Parse(loader, opts)
	var packages, edges int
	if res != nil {
		packages, edges = res.Graph.Len(), res.Graph.EdgeCount()
	}
	hooks.OnParseComplete(ctx, p.Name(), packages, edges, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}
