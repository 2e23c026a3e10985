package lockfile

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
)

// PeerMeta is an entry of "peerDependenciesMeta".
type PeerMeta struct {
	Optional bool `json:"optional" yaml:"optional"`
}

// Relations are the dependency maps a package declares. Both package.json
// and lockfile entries use these field names.
type Relations struct {
	Dependencies         map[string]string   `json:"dependencies"`
	DevDependencies      map[string]string   `json:"devDependencies"`
	OptionalDependencies map[string]string   `json:"optionalDependencies"`
	PeerDependencies     map[string]string   `json:"peerDependencies"`
	PeerMeta             map[string]PeerMeta `json:"peerDependenciesMeta"`
	// OptionalPeers lists peers marked optional elsewhere than PeerMeta,
	// such as yarn's dependenciesMeta.
	OptionalPeers map[string]bool `json:"-"`
}

// DeclaredEdge is a dependency as declared, before resolution.
type DeclaredEdge struct {
	Name      string
	Specifier string
	Kind      graph.Kind
}

// Edges returns the declared dependencies ordered by kind, then name.
// Peers marked optional become OptionalPeerDependency. A name listed in
// both dependencies and optionalDependencies is only reported as optional,
// the way npm installs it.
func (r Relations) Edges() []DeclaredEdge {
	var out []DeclaredEdge
	add := func(m map[string]string, kind func(name string) graph.Kind) {
		start := len(out)
		for name, spec := range m {
			out = append(out, DeclaredEdge{Name: name, Specifier: spec, Kind: kind(name)})
		}
		slices.SortFunc(out[start:], func(a, b DeclaredEdge) int {
			return cmp.Compare(a.Name, b.Name)
		})
	}

	regular := make(map[string]string, len(r.Dependencies))
	for name, spec := range r.Dependencies {
		if _, ok := r.OptionalDependencies[name]; !ok {
			regular[name] = spec
		}
	}
	add(regular, func(string) graph.Kind { return graph.Dependency })
	add(r.DevDependencies, func(string) graph.Kind { return graph.DevDependency })
	add(r.PeerDependencies, func(name string) graph.Kind {
		if r.PeerMeta[name].Optional || r.OptionalPeers[name] {
			return graph.OptionalPeerDependency
		}
		return graph.PeerDependency
	})
	add(r.OptionalDependencies, func(string) graph.Kind { return graph.OptionalDependency })
	return out
}

// Manifest is the subset of package.json the adapters read.
type Manifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Resolutions map[string]string `json:"resolutions"`
	Relations
}

// ParseManifest decodes a package.json document.
func ParseManifest(path string, data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", path)
	}
	return &m, nil
}

// LoadManifest loads and decodes the package.json at path.
func LoadManifest(loader Loader, path string) (*Manifest, error) {
	data, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return ParseManifest(path, data)
}
