// Package resolve binds declared dependency edges to concrete packages.
//
// A lockfile names each dependency by the descriptor the requesting
// package declared ("lodash@^4.17.0") and separately lists the packages it
// installed together with every descriptor they satisfy. The [Resolver]
// joins the two: given a [Request] it consults the override table, gathers
// candidates from the [Pool] and picks exactly one.
//
// Regular dependencies must resolve to exactly one candidate. Peer
// dependencies are satisfied by whatever the consumer provides, so the
// lockfile often lists several plausible candidates; those go through an
// ordered cascade of heuristics (see [PeerRules]) and may legitimately stay
// unresolved.
//
// Resolve regular dependencies before peer dependencies: the sibling
// heuristic looks at the regular dependencies already resolved for the
// requester.
package resolve

import (
	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/observability"
	"github.com/matzehuels/lockgraph/pkg/override"
)

// Packages gives the resolver read access to the graph under construction.
// *graph.Builder and *graph.Graph implement it.
type Packages interface {
	Package(id graph.PackageID) (*graph.Package, bool)
}

// Options configures a [Resolver].
type Options struct {
	// Strict makes specifier matching treat equivalent GitHub references
	// as equal (see override.SameSpecifierStrict).
	Strict bool
	// Overrides replaces requested specifiers before matching. May be nil.
	Overrides *override.Table
	// Quirks is passed to descriptor.ParseSpecifier.
	Quirks descriptor.Quirks
	// Hooks receives resolution events. Nil uses observability.Resolve().
	Hooks observability.ResolveHooks
}

// Request is a declared dependency edge to resolve.
type Request struct {
	From      graph.PackageID
	Name      string
	Specifier string
	Kind      graph.Kind
	// Parents returns the descriptors the requesting package is known by,
	// for parent-scoped overrides. May be nil.
	Parents func() []override.Descriptor
}

// Resolver resolves requests against a pool. It remembers the regular
// dependencies it resolved for each requester.
//
// Resolver is not safe for concurrent use.
type Resolver struct {
	pkgs     Packages
	pool     *Pool
	opts     Options
	same     func(user, locked string) bool
	children map[graph.PackageID][]graph.PackageID
}

// New returns a resolver drawing candidates from pool.
func New(pkgs Packages, pool *Pool, opts Options) *Resolver {
	r := &Resolver{
		pkgs:     pkgs,
		pool:     pool,
		opts:     opts,
		same:     override.SameSpecifier,
		children: make(map[graph.PackageID][]graph.PackageID),
	}
	if opts.Strict {
		r.same = override.SameSpecifierStrict
	}
	return r
}

// Children returns the regular dependencies resolved so far for id.
func (r *Resolver) Children(id graph.PackageID) []graph.PackageID {
	return r.children[id]
}

// Resolve binds req to a package and returns the edge to insert.
//
// It returns (nil, nil) when an optional dependency has no candidate or a
// peer dependency cannot be settled. Returns ErrCodeDependencyNotFound when
// a required dependency has no candidate and ErrCodeAmbiguousResolution
// when it has more than one.
func (r *Resolver) Resolve(req Request) (*graph.Edge, error) {
	original := descriptor.ParseSpecifier(req.Specifier, r.opts.Quirks)

	var overrideSpec string
	var overridden bool
	if r.opts.Overrides != nil {
		overrideSpec, overridden = r.opts.Overrides.Find(req.Name, req.Specifier, req.Parents)
	}
	evaluated := req.Specifier
	effective := original
	if overridden {
		evaluated = overrideSpec
		effective = descriptor.ParseSpecifier(overrideSpec, r.opts.Quirks)
	}

	// An aliased specifier ("npm:real@^1") is looked up under the real name
	// and matched by its range alone.
	lookup, match := req.Name, evaluated
	if alias, ok := effective.AliasName(); ok {
		lookup, match = alias.String(), effective.RangeString()
	}
	candidates := r.pool.Candidates(lookup)

	var id graph.PackageID
	if req.Kind.IsPeer() {
		q := &PeerQuery{
			From:       req.From,
			Match:      match,
			Override:   overrideSpec,
			Overridden: overridden,
			Range:      effective,
			Candidates: candidates,
		}
		var rule string
		var ok bool
		id, rule, ok = r.resolvePeer(q)
		if !ok {
			r.hooks().OnPeerUnresolved(r.event(req), len(uniqueIDs(candidates)))
			return nil, nil
		}
		r.hooks().OnPeerResolved(r.event(req), rule)
	} else {
		var matched []Candidate
		for _, c := range candidates {
			if r.same(match, c.Specifier) {
				matched = append(matched, c)
			}
		}
		ids := uniqueIDs(matched)
		switch {
		case len(ids) == 0 && req.Kind.IsOptional():
			r.hooks().OnOptionalDropped(r.event(req))
			return nil, nil
		case len(ids) == 0:
			return nil, errors.New(errors.ErrCodeDependencyNotFound,
				"no package found for %s@%s", req.Name, req.Specifier)
		case len(ids) > 1:
			return nil, errors.New(errors.ErrCodeAmbiguousResolution,
				"%d packages match %s@%s", len(ids), req.Name, req.Specifier)
		}
		id = ids[0]
		r.children[req.From] = append(r.children[req.From], id)
	}

	edge := &graph.Edge{Kind: req.Kind, From: req.From, On: id, Specifier: &original}
	if _, ok := original.AliasName(); ok {
		name, err := descriptor.ParseName(req.Name)
		if err != nil {
			return nil, err
		}
		if p, ok := r.pkgs.Package(id); !ok || p.Name != name {
			edge.Alias = name
		}
	}
	return edge, nil
}

func (r *Resolver) hooks() observability.ResolveHooks {
	if r.opts.Hooks != nil {
		return r.opts.Hooks
	}
	return observability.Resolve()
}

func (r *Resolver) event(req Request) observability.Request {
	from := graph.Unnamed
	if p, ok := r.pkgs.Package(req.From); ok {
		from = p.DisplayName()
	}
	return observability.Request{
		From:      from,
		Name:      req.Name,
		Specifier: req.Specifier,
		Kind:      req.Kind.String(),
	}
}
