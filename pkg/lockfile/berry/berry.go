// Package berry reads yarn.lock files written by yarn 2 and later.
//
// A berry lockfile is a YAML map from comma-separated descriptors
// ("lodash@npm:^4.17.0, lodash@npm:^4.17.21") to the package they resolved
// to. Dependencies are listed by descriptor again, so every dependency edge
// is bound by matching its descriptor against the keys, which is what
// [resolve.Resolver] does. The root package.json supplies the
// "resolutions" override table and tells dev dependencies of workspaces
// apart, since the lockfile merges them into "dependencies".
//
// Installation locations are not part of yarn.lock. When the project uses
// the node-modules linker they are read from node_modules/.yarn-state.yml.
package berry

import (
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
	"github.com/matzehuels/lockgraph/pkg/override"
	"github.com/matzehuels/lockgraph/pkg/resolve"
)

const (
	// LockfileName is the lockfile yarn writes next to package.json.
	LockfileName = "yarn.lock"
	// StateFileName is written by the node-modules linker.
	StateFileName = "node_modules/.yarn-state.yml"

	manifestName = "package.json"
	metadataKey  = "__metadata"
	// minVersion is the lockfile version written by yarn 2.0.
	minVersion = 4
)

type metadata struct {
	Version  int    `yaml:"version"`
	CacheKey string `yaml:"cacheKey"`
}

type entry struct {
	Version              string                       `yaml:"version"`
	Resolution           string                       `yaml:"resolution"`
	Dependencies         map[string]string            `yaml:"dependencies"`
	PeerDependencies     map[string]string            `yaml:"peerDependencies"`
	DependenciesMeta     map[string]lockfile.PeerMeta `yaml:"dependenciesMeta"`
	PeerDependenciesMeta map[string]lockfile.PeerMeta `yaml:"peerDependenciesMeta"`
	Checksum             string                       `yaml:"checksum"`
	LanguageName         string                       `yaml:"languageName"`
	LinkType             string                       `yaml:"linkType"`
}

// Parser reads yarn berry lockfiles.
type Parser struct{}

func (Parser) Name() string     { return "yarn-berry" }
func (Parser) Lockfile() string { return LockfileName }

// Parse reads yarn.lock, the root package.json, the package.json of each
// workspace member when present, and the optional install state.
func (p Parser) Parse(loader lockfile.Loader, opts lockfile.Options) (*lockfile.Result, error) {
	data, err := loader.Load(LockfileName)
	if err != nil {
		return nil, err
	}
	meta, entries, err := decodeLockfile(data)
	if err != nil {
		return nil, err
	}
	root, err := lockfile.LoadManifest(loader, manifestName)
	if err != nil {
		return nil, err
	}

	lp := &lockParser{
		loader:  loader,
		b:       graph.NewBuilder(),
		pool:    &resolve.Pool{},
		entries: entries,
		root:    root,
	}
	overrides, err := overridesOf(root)
	if err != nil {
		return nil, err
	}
	lp.resolver = resolve.New(lp.b, lp.pool, resolve.Options{
		Strict:    opts.Strict,
		Overrides: overrides,
	})

	g, err := lp.parse()
	if err != nil {
		return nil, err
	}
	return &lockfile.Result{
		Graph:   g,
		Format:  p.Name(),
		Version: strconv.Itoa(meta.Version),
	}, nil
}

// parsedEntry is a lockfile entry with its key split into descriptors.
type parsedEntry struct {
	key         string
	descriptors []override.Descriptor
	entry
	resolution
	id graph.PackageID
	// manifest is the workspace's package.json, if it has one.
	manifest *lockfile.Manifest
}

func decodeLockfile(data []byte) (*metadata, []*parsedEntry, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", LockfileName)
	}
	node, ok := doc[metadataKey]
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeUnsupportedInput, "%s has no %s; yarn classic lockfiles are not supported", LockfileName, metadataKey)
	}
	var meta metadata
	if err := node.Decode(&meta); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", metadataKey)
	}
	if meta.Version < minVersion {
		return nil, nil, errors.New(errors.ErrCodeUnsupportedInput, "%s: lockfile version %d is not supported", LockfileName, meta.Version)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != metadataKey {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	entries := make([]*parsedEntry, 0, len(keys))
	for _, k := range keys {
		pe := &parsedEntry{key: k}
		node := doc[k]
		if err := node.Decode(&pe.entry); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse entry %q", k)
		}
		for _, d := range strings.Split(k, ",") {
			name, rng, err := splitDescriptor(strings.TrimSpace(d))
			if err != nil {
				return nil, nil, err
			}
			pe.descriptors = append(pe.descriptors, override.Descriptor{Name: name, Specifier: rng})
		}
		res, err := parseResolution(pe.Resolution)
		if err != nil {
			return nil, nil, err
		}
		pe.resolution = res
		entries = append(entries, pe)
	}
	return &meta, entries, nil
}

func overridesOf(m *lockfile.Manifest) (*override.Table, error) {
	var t override.Table
	keys := make([]string, 0, len(m.Resolutions))
	for k := range m.Resolutions {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := t.Insert(k, m.Resolutions[k]); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

type lockParser struct {
	loader   lockfile.Loader
	b        *graph.Builder
	pool     *resolve.Pool
	resolver *resolve.Resolver
	entries  []*parsedEntry
	root     *lockfile.Manifest
	// installed dedupes installations reported by both the lockfile and
	// the state file.
	installed map[installKey]bool
}

func (p *lockParser) parse() (*graph.Graph, error) {
	p.installed = make(map[installKey]bool)
	byResolution := make(map[string]*parsedEntry, len(p.entries))

	// Patched packages point at their base, so they go last.
	var patched []*parsedEntry
	for _, e := range p.entries {
		if e.patch != nil {
			patched = append(patched, e)
			continue
		}
		if err := p.insert(e, nil); err != nil {
			return nil, err
		}
		byResolution[e.Resolution] = e
	}
	for _, e := range patched {
		base, ok := byResolution[e.patch.base]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidLockfile, "%s: patched package %q not found", e.Resolution, e.patch.base)
		}
		if err := p.insert(e, base); err != nil {
			return nil, err
		}
		byResolution[e.Resolution] = e
	}

	if err := p.readState(byResolution); err != nil {
		return nil, err
	}

	// The sibling peer heuristic needs every regular edge resolved first.
	for _, peers := range []bool{false, true} {
		for _, e := range p.entries {
			if err := p.link(e, peers); err != nil {
				return nil, err
			}
		}
	}
	return p.b.Freeze()
}

func (p *lockParser) insert(e *parsedEntry, base *parsedEntry) error {
	pkg := graph.Package{Name: e.name, Version: e.Version, Source: e.source}
	if e.Checksum != "" {
		sum, err := parseChecksum(e.Checksum)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "entry %q", e.key)
		}
		pkg.Checksums = []graph.Checksum{sum}
	}
	if base != nil {
		pkg.Source = base.source
		pkg.Derivation = &graph.Derivation{From: base.id, PatchPath: e.patch.path}
	}
	e.id = p.b.InsertPackage(pkg)

	for _, d := range e.descriptors {
		p.pool.Add(d.Name, d.Specifier, e.id)
		// "alias@npm:real@^1" also satisfies requests for real@^1.
		spec := descriptor.ParseSpecifier(d.Specifier, descriptor.QuirksNone)
		if target, ok := spec.AliasName(); ok {
			p.pool.Add(target.String(), "npm:"+spec.RangeString(), e.id)
		}
	}

	if !e.isWorkspace {
		return nil
	}
	// A workspace can be requested by its bare name, e.g. as a peer.
	p.pool.Add(e.name.String(), "", e.id)
	if e.workspace == "." {
		e.manifest = p.root
		if err := p.b.MarkRoot(e.id); err != nil {
			return err
		}
		return p.install(e.id, descriptor.RootPath)
	}
	m, err := p.memberManifest(e.workspace)
	if err != nil {
		return err
	}
	e.manifest = m
	if err := p.b.MarkWorkspaceMember(e.id); err != nil {
		return err
	}
	return p.install(e.id, e.workspace)
}

func (p *lockParser) memberManifest(dir string) (*lockfile.Manifest, error) {
	path := dir + "/" + manifestName
	data, ok, err := lockfile.LoadOptional(p.loader, path)
	if err != nil || !ok {
		return nil, err
	}
	return lockfile.ParseManifest(path, data)
}

type installKey struct {
	id   graph.PackageID
	path string
}

func (p *lockParser) install(id graph.PackageID, path string) error {
	k := installKey{id, path}
	if p.installed[k] {
		return nil
	}
	mp, err := descriptor.ParsePath(path)
	if err != nil {
		return err
	}
	p.installed[k] = true
	return p.b.InsertInstallation(id, mp)
}

func (p *lockParser) link(e *parsedEntry, peers bool) error {
	for _, d := range e.relations().Edges() {
		if d.Kind.IsPeer() != peers {
			continue
		}
		edge, err := p.resolver.Resolve(resolve.Request{
			From:      e.id,
			Name:      d.Name,
			Specifier: d.Specifier,
			Kind:      d.Kind,
			Parents:   func() []override.Descriptor { return e.descriptors },
		})
		if err != nil {
			return err
		}
		if edge == nil {
			continue
		}
		if err := p.b.InsertEdge(*edge); err != nil {
			return err
		}
	}
	return nil
}

// relations sorts the entry's dependencies into kinds. Workspace entries
// list dev dependencies under "dependencies"; their package.json tells
// them apart.
func (e *parsedEntry) relations() lockfile.Relations {
	r := lockfile.Relations{
		Dependencies:         make(map[string]string),
		DevDependencies:      make(map[string]string),
		OptionalDependencies: make(map[string]string),
		PeerDependencies:     e.PeerDependencies,
		PeerMeta:             e.PeerDependenciesMeta,
	}
	for name, spec := range e.Dependencies {
		switch {
		case e.DependenciesMeta[name].Optional:
			r.OptionalDependencies[name] = spec
		case e.manifest == nil:
			r.Dependencies[name] = spec
		case hasKey(e.manifest.OptionalDependencies, name):
			r.OptionalDependencies[name] = spec
		case hasKey(e.manifest.DevDependencies, name) && !hasKey(e.manifest.Dependencies, name):
			r.DevDependencies[name] = spec
		default:
			r.Dependencies[name] = spec
		}
	}
	return r
}

func hasKey(m map[string]string, k string) bool {
	_, ok := m[k]
	return ok
}
