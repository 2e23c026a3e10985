// Package npm reads npm's package-lock.json.
//
// Only lockfile versions 2 and 3 are supported: they carry the flat
// "packages" map keyed by install path, which is all this parser reads.
// Dependencies are bound the way node's module lookup finds them, by
// walking up node_modules directories from the requesting package, so no
// specifier matching is involved.
package npm

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
	"github.com/matzehuels/lockgraph/pkg/observability"
)

// LockfileName is the lockfile npm writes next to package.json.
const LockfileName = "package-lock.json"

const registryURL = "https://registry.npmjs.org/"

type packageLock struct {
	Name            string           `json:"name"`
	LockfileVersion int              `json:"lockfileVersion"`
	Packages        map[string]entry `json:"packages"`
}

type entry struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Resolved  string `json:"resolved"`
	Link      bool   `json:"link"`
	Integrity string `json:"integrity"`
	lockfile.Relations
}

// Parser reads package-lock.json.
type Parser struct{}

func (Parser) Name() string     { return "npm" }
func (Parser) Lockfile() string { return LockfileName }

// Parse reads package-lock.json through loader. Options are accepted for
// interface compatibility; npm lockfiles bind dependencies by location.
func (p Parser) Parse(loader lockfile.Loader, _ lockfile.Options) (*lockfile.Result, error) {
	data, err := loader.Load(LockfileName)
	if err != nil {
		return nil, err
	}
	var lock packageLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", LockfileName)
	}
	if lock.LockfileVersion != 2 && lock.LockfileVersion != 3 {
		return nil, errors.New(errors.ErrCodeUnsupportedInput,
			"%s: lockfile version %d is not supported (want 2 or 3)", LockfileName, lock.LockfileVersion)
	}

	g, err := newLockParser(&lock).parse()
	if err != nil {
		return nil, err
	}
	return &lockfile.Result{
		Graph:   g,
		Format:  p.Name(),
		Version: strconv.Itoa(lock.LockfileVersion),
	}, nil
}

type lockParser struct {
	lock   *packageLock
	b      *graph.Builder
	paths  []string
	byPath map[string]graph.PackageID
}

func newLockParser(lock *packageLock) *lockParser {
	paths := make([]string, 0, len(lock.Packages))
	for p := range lock.Packages {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return &lockParser{
		lock:   lock,
		b:      graph.NewBuilder(),
		paths:  paths,
		byPath: make(map[string]graph.PackageID, len(paths)),
	}
}

func (p *lockParser) parse() (*graph.Graph, error) {
	// Links point at workspace members, so real entries go first.
	for _, path := range p.paths {
		e := p.lock.Packages[path]
		if e.Link {
			continue
		}
		if err := p.insert(path, e); err != nil {
			return nil, err
		}
	}
	for _, path := range p.paths {
		e := p.lock.Packages[path]
		if !e.Link {
			continue
		}
		id, ok := p.byPath[e.Resolved]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLockfile, "link %q: workspace member %q not found", path, e.Resolved)
		}
		if err := p.install(id, path); err != nil {
			return nil, err
		}
	}
	for _, path := range p.paths {
		e := p.lock.Packages[path]
		if e.Link {
			continue
		}
		if err := p.link(path, e); err != nil {
			return nil, err
		}
	}
	return p.b.Freeze()
}

func (p *lockParser) insert(path string, e entry) error {
	pkg, err := packageOf(path, e)
	if err != nil {
		return err
	}
	if path == "" && pkg.Name.IsZero() && p.lock.Name != "" {
		if pkg.Name, err = descriptor.ParseName(p.lock.Name); err != nil {
			return err
		}
	}
	id := p.b.InsertPackage(pkg)
	if err := p.install(id, path); err != nil {
		return err
	}
	switch {
	case path == "":
		return p.b.MarkRoot(id)
	case isWorkspacePath(path):
		return p.b.MarkWorkspaceMember(id)
	}
	return nil
}

func (p *lockParser) install(id graph.PackageID, path string) error {
	mp, err := descriptor.ParsePath(path)
	if err != nil {
		return err
	}
	p.byPath[path] = id
	return p.b.InsertInstallation(id, mp)
}

func (p *lockParser) link(path string, e entry) error {
	from := p.byPath[path]
	for _, d := range e.Edges() {
		on, ok := p.lookup(path, d.Name)
		if !ok {
			if d.Kind.IsPeer() || d.Kind.IsOptional() {
				// npm before v7 never installed peers and
				// --legacy-peer-deps still skips them.
				p.dropped(path, d)
				continue
			}
			return errors.New(errors.ErrCodeDependencyNotFound, "%s: dependency %q not found", displayPath(path), d.Name)
		}
		spec := descriptor.ParseSpecifier(d.Specifier, descriptor.QuirksNone)
		edge := graph.Edge{Kind: d.Kind, From: from, On: on, Specifier: &spec}
		if target, ok := p.b.Package(on); ok && target.Name.String() != d.Name {
			alias, err := descriptor.ParseName(d.Name)
			if err != nil {
				return err
			}
			edge.Alias = alias
		}
		if err := p.b.InsertEdge(edge); err != nil {
			return err
		}
	}
	return nil
}

// lookup finds the package node would load for name when required from
// the package at path: path/node_modules/name, then the same below each
// ancestor directory up to the project root.
func (p *lockParser) lookup(path, name string) (graph.PackageID, bool) {
	for {
		candidate := "node_modules/" + name
		if path != "" {
			candidate = path + "/" + candidate
		}
		if id, ok := p.byPath[candidate]; ok {
			return id, true
		}
		if path == "" {
			return 0, false
		}
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			path = path[:i]
		} else {
			path = ""
		}
	}
}

func (p *lockParser) dropped(path string, d lockfile.DeclaredEdge) {
	req := observability.Request{From: displayPath(path), Name: d.Name, Specifier: d.Specifier, Kind: d.Kind.String()}
	if d.Kind.IsPeer() {
		observability.Resolve().OnPeerUnresolved(req, 0)
		return
	}
	observability.Resolve().OnOptionalDropped(req)
}

func packageOf(path string, e entry) (graph.Package, error) {
	pkg := graph.Package{Version: e.Version, Source: sourceOf(e.Resolved)}
	if e.Name != "" {
		name, err := descriptor.ParseName(e.Name)
		if err != nil {
			return pkg, err
		}
		pkg.Name = name
	} else {
		// Most entries leave the name implied by their location.
		mp, err := descriptor.ParsePath(path)
		if err != nil {
			return pkg, err
		}
		pkg.Name, _ = mp.ImpliedName()
	}
	if e.Integrity != "" {
		sum := graph.Checksum{Kind: graph.ChecksumTarball, Integrity: e.Integrity}
		if len(sum.Algorithms()) == 0 {
			return pkg, errors.New(errors.ErrCodeInvalidLockfile, "%s: bad integrity %q", displayPath(path), e.Integrity)
		}
		pkg.Checksums = []graph.Checksum{sum}
	}
	return pkg, nil
}

// sourceOf recognizes the public registry and git URLs. npm records the
// public registry even when a mirror is configured, but scoped registries
// show up as-is and stay unrecognized.
func sourceOf(resolved string) graph.Source {
	switch {
	case strings.HasPrefix(resolved, registryURL):
		return graph.NpmSource()
	case strings.HasPrefix(resolved, "git+"):
		return graph.GitSource(resolved)
	}
	return graph.Source{}
}

// isWorkspacePath reports whether path is a project directory rather
// than an install location.
func isWorkspacePath(path string) bool {
	return !strings.HasPrefix(path, "node_modules/") && !strings.Contains(path, "/node_modules/")
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
