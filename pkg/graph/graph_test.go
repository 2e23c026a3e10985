package graph

import (
	"testing"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
)

func pkg(name, version string) Package {
	return Package{Name: descriptor.MustParseName(name), Version: version, Source: NpmSource()}
}

func TestInsertPackage_Idempotent(t *testing.T) {
	b := NewBuilder()
	a1 := b.InsertPackage(pkg("a", "1.0.0"))
	a2 := b.InsertPackage(pkg("a", "1.0.0"))
	if a1 != a2 {
		t.Fatalf("equal packages got ids %s and %s", a1, a2)
	}

	other := b.InsertPackage(pkg("a", "2.0.0"))
	if other == a1 {
		t.Fatal("different version reused id")
	}

	withSum := pkg("a", "1.0.0")
	withSum.Checksums = []Checksum{{Kind: ChecksumTarball, Integrity: "sha512-abc"}}
	if b.InsertPackage(withSum) == a1 {
		t.Error("different checksums reused id")
	}

	derived := pkg("a", "1.0.0")
	derived.Derivation = &Derivation{From: a1, PatchPath: "patches/a.patch"}
	if b.InsertPackage(derived) == a1 {
		t.Error("derived package reused id")
	}

	if got := b.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
}

func TestInsertEdge_UnknownPackage(t *testing.T) {
	b := NewBuilder()
	a := b.InsertPackage(pkg("a", "1.0.0"))

	tests := []struct {
		name string
		edge Edge
	}{
		{"unknown from", Edge{From: 7, On: a}},
		{"unknown on", Edge{From: a, On: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.InsertEdge(tt.edge)
			if !errors.Is(err, errors.ErrCodeUnknownPackage) {
				t.Errorf("InsertEdge() error = %v, want %s", err, errors.ErrCodeUnknownPackage)
			}
		})
	}

	if err := b.InsertInstallation(9, descriptor.Path{}); !errors.Is(err, errors.ErrCodeUnknownPackage) {
		t.Errorf("InsertInstallation() error = %v", err)
	}
}

func TestMarkRoot(t *testing.T) {
	b := NewBuilder()
	a := b.InsertPackage(pkg("a", "1.0.0"))
	c := b.InsertPackage(pkg("c", "1.0.0"))

	if err := b.MarkRoot(a); err != nil {
		t.Fatalf("MarkRoot: %v", err)
	}
	if err := b.MarkRoot(a); err != nil {
		t.Errorf("re-marking same root: %v", err)
	}
	if err := b.MarkRoot(c); !errors.Is(err, errors.ErrCodeRootConflict) {
		t.Errorf("MarkRoot(other) error = %v, want %s", err, errors.ErrCodeRootConflict)
	}
}

func TestFreeze_MissingRoot(t *testing.T) {
	b := NewBuilder()
	b.InsertPackage(pkg("a", "1.0.0"))
	if _, err := b.Freeze(); !errors.Is(err, errors.ErrCodeMissingRoot) {
		t.Errorf("Freeze() error = %v, want %s", err, errors.ErrCodeMissingRoot)
	}
}

func TestFreeze_UnknownDerivation(t *testing.T) {
	b := NewBuilder()
	p := pkg("a", "1.0.0")
	p.Derivation = &Derivation{From: 42}
	id := b.InsertPackage(p)
	_ = b.MarkRoot(id)
	if _, err := b.Freeze(); !errors.Is(err, errors.ErrCodeUnknownPackage) {
		t.Errorf("Freeze() error = %v, want %s", err, errors.ErrCodeUnknownPackage)
	}
}

func TestGraph_Queries(t *testing.T) {
	b := NewBuilder()
	root := b.InsertPackage(Package{})
	a := b.InsertPackage(pkg("a", "1.0.0"))
	d := b.InsertPackage(pkg("d", "1.0.0"))
	ws := b.InsertPackage(Package{Name: descriptor.MustParseName("member")})
	_ = b.MarkRoot(root)
	_ = b.MarkWorkspaceMember(ws)
	_ = b.MarkWorkspaceMember(ws)

	mustEdge(t, b, Edge{Kind: Dependency, From: root, On: a})
	mustEdge(t, b, Edge{Kind: DevDependency, From: root, On: d})
	mustEdge(t, b, Edge{Kind: PeerDependency, From: root, On: a})
	_ = b.InsertInstallation(a, descriptor.MustParsePath("node_modules/a"))
	_ = b.InsertInstallation(a, descriptor.MustParsePath("member/node_modules/a"))

	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	if g.Root().DisplayName() != Unnamed {
		t.Errorf("root name = %q, want %q", g.Root().DisplayName(), Unnamed)
	}
	if got := len(g.Dependencies(root)); got != 3 {
		t.Errorf("Dependencies = %d, want 3", got)
	}
	if got := len(g.ProdDependencies(root)); got != 2 {
		t.Errorf("ProdDependencies = %d, want 2", got)
	}
	if got := g.DependenciesOfKind(root, DevDependency); len(got) != 1 || got[0].On != d {
		t.Errorf("DependenciesOfKind(Dev) = %v", got)
	}
	if got := len(g.Dependents(a)); got != 2 {
		t.Errorf("Dependents(a) = %d, want 2", got)
	}
	if got := g.InstallationsOf(a); len(got) != 2 || got[1].String() != "member/node_modules/a" {
		t.Errorf("InstallationsOf(a) = %v", got)
	}
	if !g.IsWorkspaceMember(ws) || len(g.WorkspaceMembers()) != 1 {
		t.Errorf("WorkspaceMembers = %v", g.WorkspaceMembers())
	}
	if got := g.PackagesNamed("a"); len(got) != 1 || got[0] != a {
		t.Errorf("PackagesNamed(a) = %v", got)
	}
	if _, ok := g.Package(99); ok {
		t.Error("Package(99) found")
	}
}

func TestGraph_TransitiveCycle(t *testing.T) {
	b := NewBuilder()
	a := b.InsertPackage(pkg("a", "1.0.0"))
	c := b.InsertPackage(pkg("b", "1.0.0"))
	_ = b.MarkRoot(a)
	mustEdge(t, b, Edge{Kind: Dependency, From: a, On: c})
	mustEdge(t, b, Edge{Kind: Dependency, From: c, On: a})

	g, err := b.Freeze()
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}

	got := g.Transitive(a)
	if len(got) != 2 {
		t.Fatalf("Transitive(a) = %v, want 2 edges", got)
	}
	if got[0].On != c || got[1].On != a {
		t.Errorf("Transitive(a) targets = [%s %s], want [%s %s]", got[0].On, got[1].On, c, a)
	}
}

func TestGraph_TransitiveProd(t *testing.T) {
	b := NewBuilder()
	root := b.InsertPackage(pkg("root", ""))
	a := b.InsertPackage(pkg("a", "1.0.0"))
	dev := b.InsertPackage(pkg("dev", "1.0.0"))
	devDep := b.InsertPackage(pkg("devdep", "1.0.0"))
	_ = b.MarkRoot(root)
	mustEdge(t, b, Edge{Kind: Dependency, From: root, On: a})
	mustEdge(t, b, Edge{Kind: DevDependency, From: root, On: dev})
	mustEdge(t, b, Edge{Kind: Dependency, From: dev, On: devDep})

	g, _ := b.Freeze()
	if got := len(g.Transitive(root)); got != 3 {
		t.Errorf("Transitive = %d edges, want 3", got)
	}
	if got := g.TransitiveProd(root); len(got) != 1 || got[0].On != a {
		t.Errorf("TransitiveProd = %v, want only a", got)
	}
}

func TestChecksum_Algorithms(t *testing.T) {
	tests := []struct {
		integrity string
		want      []string
	}{
		{"sha512-abc", []string{"sha512"}},
		{"sha1-abc sha256-def", []string{"sha1", "sha256"}},
		{"", nil},
		{"garbage", nil},
	}
	for _, tt := range tests {
		t.Run(tt.integrity, func(t *testing.T) {
			got := Checksum{Integrity: tt.integrity}.Algorithms()
			if len(got) != len(tt.want) {
				t.Fatalf("Algorithms() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Algorithms()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestKind(t *testing.T) {
	for _, k := range Kinds {
		if k.IsProd() == k.IsDev() {
			t.Errorf("%s: IsProd and IsDev agree", k)
		}
	}
	if !OptionalPeerDependency.IsPeer() || !OptionalPeerDependency.IsOptional() {
		t.Error("OptionalPeerDependency should be peer and optional")
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}

func mustEdge(t *testing.T, b *Builder, e Edge) {
	t.Helper()
	if err := b.InsertEdge(e); err != nil {
		t.Fatalf("InsertEdge: %v", err)
	}
}
