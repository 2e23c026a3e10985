package graph

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
)

// PackageID identifies a package within one graph. IDs are assigned from 0
// in insertion order and mean nothing across graphs.
type PackageID uint64

// String returns the id in decimal.
func (id PackageID) String() string { return fmt.Sprintf("%d", uint64(id)) }

// SourceKind says where a package's contents come from.
type SourceKind int

const (
	// SourceUnknown means the lockfile did not say, or said something
	// unrecognized.
	SourceUnknown SourceKind = iota
	// SourceNpm is an npm registry.
	SourceNpm
	// SourceTarball is an arbitrary tarball URL.
	SourceTarball
	// SourceGit is a git repository.
	SourceGit
)

var sourceKindNames = [...]string{
	SourceUnknown: "unknown",
	SourceNpm:     "npm",
	SourceTarball: "tarball",
	SourceGit:     "git",
}

func (k SourceKind) String() string {
	if k < 0 || int(k) >= len(sourceKindNames) {
		return "unknown"
	}
	return sourceKindNames[k]
}

// Source is the origin of a package. URL is set for tarball and git
// sources.
type Source struct {
	Kind SourceKind
	URL  string
}

// NpmSource returns a registry source.
func NpmSource() Source { return Source{Kind: SourceNpm} }

// TarballSource returns a tarball source fetched from url.
func TarballSource(url string) Source { return Source{Kind: SourceTarball, URL: url} }

// GitSource returns a git source cloned from url.
func GitSource(url string) Source { return Source{Kind: SourceGit, URL: url} }

// IsKnown reports whether the source was recognized.
func (s Source) IsKnown() bool { return s.Kind != SourceUnknown }

// ChecksumKind says what a checksum was computed over.
type ChecksumKind int

const (
	// ChecksumTarball is a digest of the published tarball.
	ChecksumTarball ChecksumKind = iota
	// ChecksumRepackZip is a digest of the zip archive yarn berry repacks
	// tarballs into, so it cannot be compared with tarball digests.
	ChecksumRepackZip
)

// Checksum is an integrity value in Subresource Integrity form,
// "<algorithm>-<base64 digest>", possibly several separated by spaces.
type Checksum struct {
	Kind      ChecksumKind
	Integrity string
}

// Algorithms returns the hash algorithms named in the integrity string.
func (c Checksum) Algorithms() []string {
	var algos []string
	for _, h := range strings.Fields(c.Integrity) {
		if algo, _, ok := strings.Cut(h, "-"); ok && algo != "" {
			algos = append(algos, algo)
		}
	}
	return algos
}

// Derivation records that a package is another package with something
// applied to it, such as a patch file.
type Derivation struct {
	From           PackageID
	PatchPath      string
	PatchIntegrity string
}

// Package is a single resolved package.
type Package struct {
	Name       descriptor.Name // zero for an unnamed root
	Version    string          // empty when unknown
	Checksums  []Checksum
	Source     Source
	Derivation *Derivation
}

// Unnamed is how packages without a name are displayed.
const Unnamed = "[unnamed]"

// DisplayName returns the package name, or [Unnamed].
func (p *Package) DisplayName() string {
	if p.Name.IsZero() {
		return Unnamed
	}
	return p.Name.String()
}

// SemVer parses the version as semver.
func (p *Package) SemVer() (*semver.Version, bool) {
	if p.Version == "" {
		return nil, false
	}
	v, err := semver.NewVersion(p.Version)
	if err != nil {
		return nil, false
	}
	return v, true
}

// key returns a string equal for structurally equal packages.
func (p *Package) key() string {
	var b strings.Builder
	b.WriteString(p.Name.String())
	b.WriteByte(0)
	b.WriteString(p.Version)
	b.WriteByte(0)
	fmt.Fprintf(&b, "%d\x00%s\x00", p.Source.Kind, p.Source.URL)
	for _, c := range p.Checksums {
		fmt.Fprintf(&b, "%d:%s\x00", c.Kind, c.Integrity)
	}
	if d := p.Derivation; d != nil {
		fmt.Fprintf(&b, "\x01%d\x00%s\x00%s", d.From, d.PatchPath, d.PatchIntegrity)
	}
	return b.String()
}

// Kind is the relation an [Edge] expresses.
type Kind int

const (
	// Dependency is declared in "dependencies".
	Dependency Kind = iota
	// DevDependency is declared in "devDependencies".
	DevDependency
	// PeerDependency is declared in "peerDependencies" without being
	// marked optional.
	PeerDependency
	// OptionalDependency is declared in "optionalDependencies".
	OptionalDependency
	// OptionalPeerDependency is a peer dependency marked optional in
	// "peerDependenciesMeta".
	OptionalPeerDependency
)

var kindNames = [...]string{
	Dependency:             "Dependency",
	DevDependency:          "DevDependency",
	PeerDependency:         "PeerDependency",
	OptionalDependency:     "OptionalDependency",
	OptionalPeerDependency: "OptionalPeerDependency",
}

// String returns the kind's name as used in path query output.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsProd reports whether the kind is needed at run time.
func (k Kind) IsProd() bool { return k != DevDependency }

// IsDev reports whether the kind is only needed for development.
func (k Kind) IsDev() bool { return k == DevDependency }

// IsPeer reports whether the kind is a peer dependency.
func (k Kind) IsPeer() bool { return k == PeerDependency || k == OptionalPeerDependency }

// IsOptional reports whether the dependency may be absent.
func (k Kind) IsOptional() bool { return k == OptionalDependency || k == OptionalPeerDependency }

// Kinds lists every kind in declaration order.
var Kinds = []Kind{Dependency, DevDependency, PeerDependency, OptionalDependency, OptionalPeerDependency}

// Edge is a dependency of From on On.
type Edge struct {
	Kind Kind
	From PackageID
	On   PackageID
	// Alias is the name the dependency was declared under when it differs
	// from the package's own name ("alias": "npm:real@^1").
	Alias descriptor.Name
	// Specifier is the specifier as declared, if known.
	Specifier *descriptor.Specifier
}

// Installation is a location a package is installed at.
type Installation struct {
	Package PackageID
	Path    descriptor.Path
}
