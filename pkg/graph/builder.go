package graph

import (
	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
)

// Builder assembles a [Graph]. It is append-only: packages, edges and
// installations can be added but never removed.
//
// The zero value is not usable - use NewBuilder.
// Builder is not safe for concurrent use.
type Builder struct {
	packages      []Package
	byKey         map[string]PackageID
	edges         []Edge
	installations []Installation
	root          PackageID
	hasRoot       bool
	members       []PackageID
	memberSet     map[PackageID]struct{}
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		byKey:     make(map[string]PackageID),
		memberSet: make(map[PackageID]struct{}),
	}
}

// InsertPackage adds p and returns its id. If a package structurally equal
// to p (same name, version, source, checksums and derivation) was inserted
// before, its id is returned and nothing is added.
func (b *Builder) InsertPackage(p Package) PackageID {
	k := p.key()
	if id, ok := b.byKey[k]; ok {
		return id
	}
	id := PackageID(len(b.packages))
	b.packages = append(b.packages, p)
	b.byKey[k] = id
	return id
}

// Package returns the package with the given id.
func (b *Builder) Package(id PackageID) (*Package, bool) {
	if !b.has(id) {
		return nil, false
	}
	return &b.packages[id], true
}

// Dependencies returns the edges inserted so far going out of id.
func (b *Builder) Dependencies(id PackageID) []Edge {
	var out []Edge
	for _, e := range b.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of distinct packages inserted so far.
func (b *Builder) Len() int { return len(b.packages) }

// InsertEdge appends e. Both endpoints must already exist. Duplicate edges
// are kept; the same pair may be connected under several kinds.
func (b *Builder) InsertEdge(e Edge) error {
	if !b.has(e.From) {
		return errors.New(errors.ErrCodeUnknownPackage, "edge from unknown package %s", e.From)
	}
	if !b.has(e.On) {
		return errors.New(errors.ErrCodeUnknownPackage, "edge on unknown package %s", e.On)
	}
	b.edges = append(b.edges, e)
	return nil
}

// InsertInstallation records that id is installed at path.
func (b *Builder) InsertInstallation(id PackageID, path descriptor.Path) error {
	if !b.has(id) {
		return errors.New(errors.ErrCodeUnknownPackage, "installation of unknown package %s at %q", id, path)
	}
	b.installations = append(b.installations, Installation{Package: id, Path: path})
	return nil
}

// MarkRoot sets the root package. Marking the same id again is a no-op;
// marking a different id fails with ErrCodeRootConflict.
func (b *Builder) MarkRoot(id PackageID) error {
	if !b.has(id) {
		return errors.New(errors.ErrCodeUnknownPackage, "root is unknown package %s", id)
	}
	if b.hasRoot && b.root != id {
		return errors.New(errors.ErrCodeRootConflict, "root already set to package %s, cannot set %s", b.root, id)
	}
	b.root, b.hasRoot = id, true
	return nil
}

// MarkWorkspaceMember records id as a workspace member. Marking a member
// twice is a no-op.
func (b *Builder) MarkWorkspaceMember(id PackageID) error {
	if !b.has(id) {
		return errors.New(errors.ErrCodeUnknownPackage, "workspace member is unknown package %s", id)
	}
	if _, ok := b.memberSet[id]; ok {
		return nil
	}
	b.memberSet[id] = struct{}{}
	b.members = append(b.members, id)
	return nil
}

// Freeze validates the builder and returns the read-only graph. The
// builder must not be used afterwards.
func (b *Builder) Freeze() (*Graph, error) {
	if !b.hasRoot {
		return nil, errors.New(errors.ErrCodeMissingRoot, "no root package")
	}
	for i := range b.packages {
		if d := b.packages[i].Derivation; d != nil && !b.has(d.From) {
			return nil, errors.New(errors.ErrCodeUnknownPackage,
				"package %s derived from unknown package %s", PackageID(i), d.From)
		}
	}

	g := &Graph{
		packages:      b.packages,
		edges:         b.edges,
		installations: b.installations,
		root:          b.root,
		members:       b.members,
		memberSet:     b.memberSet,
		outgoing:      make(map[PackageID][]int),
		incoming:      make(map[PackageID][]int),
		installedAt:   make(map[PackageID][]int),
		byName:        make(map[string][]PackageID),
	}
	for i, e := range g.edges {
		g.outgoing[e.From] = append(g.outgoing[e.From], i)
		g.incoming[e.On] = append(g.incoming[e.On], i)
	}
	for i, inst := range g.installations {
		g.installedAt[inst.Package] = append(g.installedAt[inst.Package], i)
	}
	for i := range g.packages {
		if n := g.packages[i].Name; !n.IsZero() {
			g.byName[n.String()] = append(g.byName[n.String()], PackageID(i))
		}
	}
	*b = Builder{}
	return g, nil
}

func (b *Builder) has(id PackageID) bool { return uint64(id) < uint64(len(b.packages)) }
