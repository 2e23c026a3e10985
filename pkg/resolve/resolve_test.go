package resolve

import (
	"testing"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
	"github.com/matzehuels/lockgraph/pkg/observability"
	"github.com/matzehuels/lockgraph/pkg/override"
)

type fixture struct {
	b    *graph.Builder
	pool *Pool
	root graph.PackageID
}

func newFixture() *fixture {
	b := graph.NewBuilder()
	root := b.InsertPackage(graph.Package{Name: descriptor.MustParseName("app")})
	return &fixture{b: b, pool: &Pool{}, root: root}
}

// add inserts a registry package and lists it in the pool under specs.
func (f *fixture) add(name, version string, specs ...string) graph.PackageID {
	id := f.b.InsertPackage(graph.Package{
		Name:    descriptor.MustParseName(name),
		Version: version,
		Source:  graph.NpmSource(),
	})
	for _, s := range specs {
		f.pool.Add(name, s, id)
	}
	return id
}

type recordingHooks struct {
	observability.NoopResolveHooks
	dropped    []string
	unresolved []string
	rules      []string
}

func (h *recordingHooks) OnOptionalDropped(req observability.Request) {
	h.dropped = append(h.dropped, req.Name)
}

func (h *recordingHooks) OnPeerUnresolved(req observability.Request, _ int) {
	h.unresolved = append(h.unresolved, req.Name)
}

func (h *recordingHooks) OnPeerResolved(_ observability.Request, rule string) {
	h.rules = append(h.rules, rule)
}

func TestResolve_Regular(t *testing.T) {
	f := newFixture()
	lodash := f.add("lodash", "4.17.21", "npm:^4.17.0", "npm:^4.0.0")
	r := New(f.b, f.pool, Options{})

	e, err := r.Resolve(Request{From: f.root, Name: "lodash", Specifier: "^4.17.0", Kind: graph.Dependency})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.On != lodash || e.From != f.root || e.Kind != graph.Dependency {
		t.Errorf("edge = %+v", e)
	}
	if e.Specifier == nil || e.Specifier.String() != "^4.17.0" {
		t.Errorf("edge specifier = %v, want the requested one", e.Specifier)
	}
	if !e.Alias.IsZero() {
		t.Errorf("unexpected alias %q", e.Alias)
	}
	if got := r.Children(f.root); len(got) != 1 || got[0] != lodash {
		t.Errorf("Children = %v", got)
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	f := newFixture()
	f.add("a", "1.0.0", "^1")
	f.add("a", "1.1.0", "^1")
	r := New(f.b, f.pool, Options{})

	_, err := r.Resolve(Request{From: f.root, Name: "a", Specifier: "^1", Kind: graph.Dependency})
	if !errors.Is(err, errors.ErrCodeAmbiguousResolution) {
		t.Errorf("Resolve error = %v, want %s", err, errors.ErrCodeAmbiguousResolution)
	}
}

func TestResolve_NotFound(t *testing.T) {
	f := newFixture()
	f.add("a", "1.0.0", "npm:^1")
	hooks := &recordingHooks{}
	r := New(f.b, f.pool, Options{Hooks: hooks})

	_, err := r.Resolve(Request{From: f.root, Name: "a", Specifier: "^2", Kind: graph.Dependency})
	if !errors.Is(err, errors.ErrCodeDependencyNotFound) {
		t.Errorf("required: error = %v, want %s", err, errors.ErrCodeDependencyNotFound)
	}

	e, err := r.Resolve(Request{From: f.root, Name: "a", Specifier: "^2", Kind: graph.OptionalDependency})
	if e != nil || err != nil {
		t.Errorf("optional: got %v, %v; want dropped", e, err)
	}
	if len(hooks.dropped) != 1 || hooks.dropped[0] != "a" {
		t.Errorf("dropped hooks = %v", hooks.dropped)
	}
}

func TestResolve_Alias(t *testing.T) {
	f := newFixture()
	target := f.add("real", "2.3.0", "npm:^2")
	r := New(f.b, f.pool, Options{})

	e, err := r.Resolve(Request{From: f.root, Name: "pretty", Specifier: "npm:real@^2", Kind: graph.Dependency})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.On != target {
		t.Errorf("On = %s, want %s", e.On, target)
	}
	if e.Alias.String() != "pretty" {
		t.Errorf("Alias = %q, want pretty", e.Alias)
	}
}

func TestResolve_Override(t *testing.T) {
	f := newFixture()
	pinned := f.add("lodash", "6.7.0", "npm:^6.7")
	f.add("lodash", "1.3.0", "npm:^1.3")
	var tbl override.Table
	if err := tbl.Insert("lodash", "^6.7"); err != nil {
		t.Fatal(err)
	}
	r := New(f.b, f.pool, Options{Overrides: &tbl})

	e, err := r.Resolve(Request{From: f.root, Name: "lodash", Specifier: "^1.3", Kind: graph.Dependency})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if e.On != pinned {
		t.Errorf("On = %s, want overridden %s", e.On, pinned)
	}
	if e.Specifier.String() != "^1.3" {
		t.Errorf("edge records %q, want the original specifier", e.Specifier)
	}
}

func TestResolve_Strict(t *testing.T) {
	f := newFixture()
	f.pool.Add("lib", "github:owner/lib", f.b.InsertPackage(graph.Package{
		Name:   descriptor.MustParseName("lib"),
		Source: graph.GitSource("https://github.com/owner/lib.git"),
	}))
	req := Request{From: f.root, Name: "lib", Specifier: "owner/lib", Kind: graph.Dependency}

	if _, err := New(f.b, f.pool, Options{}).Resolve(req); !errors.Is(err, errors.ErrCodeDependencyNotFound) {
		t.Errorf("lenient: error = %v, want not found", err)
	}
	if _, err := New(f.b, f.pool, Options{Strict: true}).Resolve(req); err != nil {
		t.Errorf("strict: %v", err)
	}
}

func TestResolve_PeerDeterminism(t *testing.T) {
	f := newFixture()
	f.add("a", "1.0.0", "npm:^1.0.0")
	v2 := f.add("a", "2.0.0", "npm:^2.0.0")
	hooks := &recordingHooks{}
	r := New(f.b, f.pool, Options{Hooks: hooks})

	for range 3 {
		e, err := r.Resolve(Request{From: f.root, Name: "a", Specifier: "^1 || ^2", Kind: graph.PeerDependency})
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if e == nil || e.On != v2 {
			t.Fatalf("peer resolved to %v, want %s", e, v2)
		}
	}
	if hooks.rules[0] != "semver" {
		t.Errorf("rule = %q, want semver", hooks.rules[0])
	}
}

func TestResolve_PeerUnresolved(t *testing.T) {
	f := newFixture()
	hooks := &recordingHooks{}
	r := New(f.b, f.pool, Options{Hooks: hooks})

	e, err := r.Resolve(Request{From: f.root, Name: "missing", Specifier: "^1", Kind: graph.PeerDependency})
	if e != nil || err != nil {
		t.Errorf("got %v, %v; want unresolved", e, err)
	}

	// Two non-registry candidates: no rule can choose.
	for _, url := range []string{"https://x/a-1.tgz", "https://x/a-2.tgz"} {
		f.pool.Add("a", url, f.b.InsertPackage(graph.Package{
			Name:   descriptor.MustParseName("a"),
			Source: graph.TarballSource(url),
		}))
	}
	e, err = r.Resolve(Request{From: f.root, Name: "a", Specifier: "^1", Kind: graph.OptionalPeerDependency})
	if e != nil || err != nil {
		t.Errorf("got %v, %v; want unresolved", e, err)
	}
	if len(hooks.unresolved) != 2 {
		t.Errorf("unresolved hooks = %v", hooks.unresolved)
	}
}

func TestPeerRules(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture, r *Resolver) (req Request, want graph.PackageID)
		rule  string
	}{
		{
			name: "only candidate under several specifiers",
			rule: "only-candidate",
			setup: func(f *fixture, r *Resolver) (Request, graph.PackageID) {
				id := f.add("a", "1.0.0", "npm:^1", "npm:1.0.0")
				return Request{From: f.root, Name: "a", Specifier: "^9", Kind: graph.PeerDependency}, id
			},
		},
		{
			name: "override match",
			rule: "override-match",
			setup: func(f *fixture, r *Resolver) (Request, graph.PackageID) {
				f.add("a", "1.0.0", "npm:^1")
				id := f.add("a", "2.0.0", "npm:^2")
				_ = r.opts.Overrides.Insert("a", "^2")
				return Request{From: f.root, Name: "a", Specifier: "^1", Kind: graph.PeerDependency}, id
			},
		},
		{
			name: "sibling",
			rule: "sibling",
			setup: func(f *fixture, r *Resolver) (Request, graph.PackageID) {
				f.add("a", "1.0.0", "npm:^1.0.0")
				id := f.add("a", "1.5.0", "npm:~1.5.0")
				if _, err := r.Resolve(Request{From: f.root, Name: "a", Specifier: "~1.5.0", Kind: graph.Dependency}); err != nil {
					panic(err)
				}
				return Request{From: f.root, Name: "a", Specifier: "^1", Kind: graph.PeerDependency}, id
			},
		},
		{
			name: "same specifier",
			rule: "same-specifier",
			setup: func(f *fixture, r *Resolver) (Request, graph.PackageID) {
				id := f.add("a", "1.0.0", "npm:^1")
				f.add("a", "2.0.0", "npm:^2")
				return Request{From: f.root, Name: "a", Specifier: "^1", Kind: graph.PeerDependency}, id
			},
		},
		{
			name: "self",
			rule: "self",
			setup: func(f *fixture, r *Resolver) (Request, graph.PackageID) {
				f.add("plugin", "2.0.0", "npm:^2")
				own := f.add("plugin", "1.0.0", "npm:^1")
				return Request{From: own, Name: "plugin", Specifier: "*", Kind: graph.PeerDependency}, own
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			hooks := &recordingHooks{}
			r := New(f.b, f.pool, Options{Overrides: &override.Table{}, Hooks: hooks})
			req, want := tt.setup(f, r)

			e, err := r.Resolve(req)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if e == nil || e.On != want {
				t.Fatalf("resolved to %v, want %s", e, want)
			}
			if got := hooks.rules[len(hooks.rules)-1]; got != tt.rule {
				t.Errorf("rule = %q, want %q", got, tt.rule)
			}
		})
	}
}

func TestPool(t *testing.T) {
	var p Pool
	p.Add("b", "^1", 3)
	p.Add("a", "^2", 2)
	p.Add("a", "^1", 1)
	p.Add("a", "^1", 1)
	p.Add("ab", "^1", 4)

	if p.Len() != 4 {
		t.Errorf("Len() = %d, want 4", p.Len())
	}
	got := p.Candidates("a")
	want := []Candidate{{"^1", 1}, {"^2", 2}}
	if len(got) != len(want) {
		t.Fatalf("Candidates(a) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates(a)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if got := p.Candidates("c"); len(got) != 0 {
		t.Errorf("Candidates(c) = %v", got)
	}
}
