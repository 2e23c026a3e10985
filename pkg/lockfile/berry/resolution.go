package berry

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/graph"
)

// resolution is a parsed "resolution:" field, name@reference.
type resolution struct {
	name descriptor.Name
	// workspace is the member directory for workspace: references, "."
	// for the project root.
	workspace   string
	isWorkspace bool
	source      graph.Source
	// patch holds the base resolution and patch file of patch: references.
	patch *patchRef
}

type patchRef struct {
	base string
	path string
}

// parseResolution classifies a resolution. References that are none of
// npm, git, tarball, workspace or patch leave the source unknown.
func parseResolution(s string) (resolution, error) {
	name, rest, ok := descriptor.CutName(s)
	if !ok || !strings.HasPrefix(rest, "@") {
		return resolution{}, errors.New(errors.ErrCodeInvalidLockfile, "invalid resolution %q", s)
	}
	ref := rest[1:]
	r := resolution{name: name}

	switch {
	case strings.HasPrefix(ref, "npm:"):
		if _, err := semver.NewVersion(ref[len("npm:"):]); err == nil {
			r.source = graph.NpmSource()
		}
	case strings.HasPrefix(ref, "workspace:"):
		r.workspace, r.isWorkspace = ref[len("workspace:"):], true
	case strings.HasPrefix(ref, "patch:"):
		p, err := parsePatch(ref[len("patch:"):])
		if err != nil {
			return resolution{}, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "invalid patch resolution %q", s)
		}
		r.patch = p
	default:
		if u, ok := gitURL(ref); ok {
			r.source = graph.GitSource(u)
		} else if isTarballURL(ref) {
			r.source = graph.TarballSource(ref)
		}
	}
	return r, nil
}

// parsePatch splits "name@<escaped base>#<patch path>::<params>". The base
// resolution is URL-escaped so it cannot contain '#'.
func parsePatch(ref string) (*patchRef, error) {
	inner, _, _ := strings.Cut(ref, "::")
	base, path, ok := strings.Cut(inner, "#")
	if !ok || path == "" {
		return nil, errors.New(errors.ErrCodeInvalidLockfile, "missing patch file")
	}
	unescaped, err := url.PathUnescape(base)
	if err != nil {
		return nil, err
	}
	return &patchRef{base: unescaped, path: path}, nil
}

// gitURL returns the repository of "<url>#commit=<hash>" references.
func gitURL(ref string) (string, bool) {
	if !strings.HasPrefix(ref, "ssh://") && !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return "", false
	}
	u, commit, ok := strings.Cut(ref, "#commit=")
	if !ok || len(commit) != 40 {
		return "", false
	}
	if _, err := hex.DecodeString(commit); err != nil {
		return "", false
	}
	return u, true
}

// isTarballURL matches plain archive URLs. Berry only records those ending
// in an archive extension as tarballs.
func isTarballURL(ref string) bool {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return false
	}
	if strings.ContainsAny(ref, "?#") {
		return false
	}
	return strings.HasSuffix(ref, ".tgz") || strings.HasSuffix(ref, ".tar.gz")
}

// parseChecksum converts berry's hex sha512 of the repacked zip into SRI
// form. Lockfiles from version 8 on prefix it with the cache key
// ("10c0/<hex>").
func parseChecksum(s string) (graph.Checksum, error) {
	if _, after, ok := strings.Cut(s, "/"); ok {
		s = after
	}
	digest, err := hex.DecodeString(s)
	if err != nil || len(digest) != 64 {
		return graph.Checksum{}, errors.New(errors.ErrCodeInvalidLockfile, "invalid checksum %q", s)
	}
	return graph.Checksum{
		Kind:      graph.ChecksumRepackZip,
		Integrity: "sha512-" + base64.StdEncoding.EncodeToString(digest),
	}, nil
}

// resolutionFromStateKey maps a .yarn-state.yml key back to the lockfile
// resolution it was installed from. Peer-dependent packages are installed
// as virtual instances, "name@virtual:<128 hex>#<reference>".
func resolutionFromStateKey(key string) string {
	name, rest, ok := descriptor.CutName(key)
	if !ok {
		return key
	}
	after, ok := strings.CutPrefix(rest, "@virtual:")
	if !ok {
		return key
	}
	hash, ref, ok := strings.Cut(after, "#")
	if !ok || len(hash) != 128 {
		return key
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return key
	}
	return name.String() + "@" + ref
}

// splitDescriptor splits "name@range" as used in lockfile keys.
func splitDescriptor(s string) (name, rng string, err error) {
	n, rest, ok := descriptor.CutName(s)
	if !ok || !strings.HasPrefix(rest, "@") {
		return "", "", errors.New(errors.ErrCodeInvalidLockfile, "invalid descriptor %q", s)
	}
	return n.String(), rest[1:], nil
}
