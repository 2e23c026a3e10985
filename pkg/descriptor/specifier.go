package descriptor

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind classifies a [Specifier].
type Kind int

const (
	// KindNpm is a version range on an npm registry, possibly aliased
	// ("npm:real@^2"). Tags are KindNpmTag.
	KindNpm Kind = iota
	// KindNpmTag is a named distribution tag such as "latest" or "beta".
	KindNpmTag
	// KindTarball is an arbitrary http(s) URL to a tarball.
	KindTarball
	// KindGit is a git repository reached over http(s) or ssh.
	KindGit
	// KindGitHub is the "owner/repo" shorthand for a GitHub repository.
	KindGitHub
)

var kindNames = [...]string{
	KindNpm:     "npm",
	KindNpmTag:  "npm-tag",
	KindTarball: "tarball",
	KindGit:     "git",
	KindGitHub:  "github",
}

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Quirks selects compatibility behavior of a particular package manager.
type Quirks int

const (
	// QuirksNone classifies specifiers the way npm does.
	QuirksNone Quirks = iota
	// QuirksYarnClassic reproduces yarn v1, which treats
	// "ssh://git@host:owner/repo" (colon before the path) as a tag.
	QuirksYarnClassic
)

const (
	prefixNpm    = "npm:"
	prefixGit    = "git+"
	prefixSSH    = "ssh://"
	prefixGitHub = "github:"
)

// Specifier is a classified source/version specifier.
//
// It keeps the original text and the offsets of its parts. The zero value
// is the empty npm range, equivalent to "*".
type Specifier struct {
	raw        string
	kind       Kind
	prefixEnd  int // end of the "npm:", "git+", "git+ssh://" or "github:" prefix
	aliasEnd   int // end of the alias name, 0 when not aliased
	aliasSlash int // scope separator of the alias name
	sshSep     int // offset of the ssh path separator, 0 when absent
	constraint *semver.Constraints
}

// ParseSpecifier classifies s. It never fails: anything that matches no
// structured grammar is an npm tag.
func ParseSpecifier(s string, quirks Quirks) Specifier {
	if sp, ok := parseNpm(s); ok {
		return sp
	}
	if sp, ok := parseURL(s); ok {
		return sp
	}
	if sp, ok := parseSSH(s, quirks); ok {
		return sp
	}
	if sp, ok := parseGitHub(s); ok {
		return sp
	}
	return Specifier{raw: s, kind: KindNpmTag}
}

func parseNpm(s string) (Specifier, bool) {
	sp := Specifier{raw: s, kind: KindNpm}
	if strings.HasPrefix(s, prefixNpm) {
		sp.prefixEnd = len(prefixNpm)
	}
	rest := s[sp.prefixEnd:]
	if n, slash, ok := scanName(rest); ok && n < len(rest) && rest[n] == '@' {
		sp.aliasEnd = sp.prefixEnd + n
		if slash > 0 {
			sp.aliasSlash = sp.prefixEnd + slash
		}
	}
	c, err := semver.NewConstraint(sp.RangeString())
	if err != nil {
		return Specifier{}, false
	}
	sp.constraint = c
	return sp, true
}

func parseURL(s string) (Specifier, bool) {
	prefixEnd := 0
	if strings.HasPrefix(s, prefixGit) {
		prefixEnd = len(prefixGit)
	}
	rest := s[prefixEnd:]
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
		return Specifier{}, false
	}
	url, _, _ := strings.Cut(rest, "#")
	if prefixEnd > 0 || strings.HasSuffix(url, ".git") {
		return Specifier{raw: s, kind: KindGit, prefixEnd: prefixEnd}, true
	}
	return Specifier{raw: s, kind: KindTarball}, true
}

func parseSSH(s string, quirks Quirks) (Specifier, bool) {
	prefixEnd := 0
	explicit := false
	switch {
	case strings.HasPrefix(s, prefixGit+prefixSSH):
		prefixEnd, explicit = len(prefixGit+prefixSSH), true
	case strings.HasPrefix(s, prefixSSH):
		prefixEnd, explicit = len(prefixSSH), true
	}
	i := prefixEnd
	for i < len(s) && s[i] != '/' && s[i] != ':' {
		i++
	}
	if i < len(s) && s[i] == ':' {
		j := i + 1
		for j < len(s) && '0' <= s[j] && s[j] <= '9' {
			j++
		}
		if j > i+1 {
			i = j // port
		}
	}
	if i >= len(s) || (s[i] != ':' && s[i] != '/') {
		return Specifier{}, false
	}
	sep := i
	path, _, _ := strings.Cut(s[sep+1:], "#")
	if !explicit && !strings.HasSuffix(path, ".git") {
		return Specifier{}, false
	}
	if quirks == QuirksYarnClassic && prefixEnd == len(prefixSSH) && s[sep] == ':' {
		return Specifier{raw: s, kind: KindNpmTag}, true
	}
	return Specifier{raw: s, kind: KindGit, prefixEnd: prefixEnd, sshSep: sep}, true
}

func parseGitHub(s string) (Specifier, bool) {
	prefixEnd := 0
	if strings.HasPrefix(s, prefixGitHub) {
		prefixEnd = len(prefixGitHub)
	}
	i := prefixEnd
	for i < len(s) && isOwnerChar(s[i]) {
		i++
	}
	if i == prefixEnd || i >= len(s) || s[i] != '/' {
		return Specifier{}, false
	}
	repo := i + 1
	if repo < len(s) && s[repo] == '.' {
		return Specifier{}, false
	}
	j := repo
	for j < len(s) && isNameChar(s[j]) {
		j++
	}
	if j == repo || (j < len(s) && s[j] != '#') {
		return Specifier{}, false
	}
	return Specifier{raw: s, kind: KindGitHub, prefixEnd: prefixEnd}, true
}

func isOwnerChar(c byte) bool {
	return c == '-' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// String returns the original specifier text.
func (s Specifier) String() string { return s.raw }

// Kind returns the classification.
func (s Specifier) Kind() Kind { return s.kind }

func (s Specifier) IsNpm() bool     { return s.kind == KindNpm }
func (s Specifier) IsNpmTag() bool  { return s.kind == KindNpmTag }
func (s Specifier) IsTarball() bool { return s.kind == KindTarball }
func (s Specifier) IsGit() bool     { return s.kind == KindGit }
func (s Specifier) IsGitHub() bool  { return s.kind == KindGitHub }

// TypePrefix returns the explicit type prefix ("npm:", "git+",
// "git+ssh://", "ssh://" or "github:"), or "" when there is none.
func (s Specifier) TypePrefix() string { return s.raw[:s.prefixEnd] }

// AliasName returns the aliased package name of "npm:real@^2", if any.
func (s Specifier) AliasName() (Name, bool) {
	if s.kind != KindNpm || s.aliasEnd == 0 {
		return Name{}, false
	}
	n := Name{raw: s.raw[s.prefixEnd:s.aliasEnd]}
	if s.aliasSlash > 0 {
		n.slash = s.aliasSlash - s.prefixEnd
	}
	return n, true
}

// RangeString returns the range part of an npm specifier, "*" when the
// range is empty. It returns "" for other kinds.
func (s Specifier) RangeString() string {
	if s.kind != KindNpm {
		return ""
	}
	start := s.prefixEnd
	if s.aliasEnd > 0 {
		start = s.aliasEnd + 1
	}
	if start >= len(s.raw) {
		return "*"
	}
	return s.raw[start:]
}

// Range returns the parsed constraint of an npm specifier.
func (s Specifier) Range() (*semver.Constraints, bool) {
	if s.kind != KindNpm {
		return nil, false
	}
	if s.constraint == nil {
		c, err := semver.NewConstraint(s.RangeString())
		if err != nil {
			return nil, false
		}
		return c, true
	}
	return s.constraint, true
}

// SSHPathSeparator returns the character separating host and path in an
// ssh remote (":" or "/").
func (s Specifier) SSHPathSeparator() (string, bool) {
	if s.kind != KindGit || s.sshSep == 0 {
		return "", false
	}
	return s.raw[s.sshSep : s.sshSep+1], true
}
