package descriptor

import (
	"github.com/matzehuels/lockgraph/pkg/errors"
)

// Reserved bare names that can never be package names.
const (
	reservedNodeModules = "node_modules"
	reservedFavicon     = "favicon.ico"
)

// Name is a validated package name, optionally scoped ("@scope/name").
//
// The zero value is the absent name and reports IsZero. Names compare
// equal with == when their text is equal.
type Name struct {
	raw   string
	slash int // index of the scope separator, 0 when unscoped
}

// ParseName validates s as a package name.
//
// Both the scope and the bare name use the charset [A-Za-z0-9._-] and must
// not start with '.'. The bare name must not be "node_modules" or
// "favicon.ico".
func ParseName(s string) (Name, error) {
	n, slash, ok := scanName(s)
	if !ok || n != len(s) {
		return Name{}, errors.New(errors.ErrCodeInvalidName, "invalid package name %q", s)
	}
	return Name{raw: s, slash: slash}, nil
}

// MustParseName is like [ParseName] but panics on invalid input.
// It is intended for constants and tests.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// CutName splits the longest package name off the front of s and returns
// it with the remainder. It reports false when s does not start with a
// name.
func CutName(s string) (name Name, rest string, ok bool) {
	n, slash, ok := scanName(s)
	if !ok {
		return Name{}, s, false
	}
	return Name{raw: s[:n], slash: slash}, s[n:], true
}

// String returns the full name.
func (n Name) String() string { return n.raw }

// IsZero reports whether n is the absent name.
func (n Name) IsZero() bool { return n.raw == "" }

// IsScoped reports whether n has an "@scope/" prefix.
func (n Name) IsScoped() bool { return n.slash > 0 }

// Scope returns "@scope" for "@scope/name", or "" when unscoped.
func (n Name) Scope() string {
	if n.slash == 0 {
		return ""
	}
	return n.raw[:n.slash]
}

// ScopeName returns "scope" for "@scope/name", or "" when unscoped.
func (n Name) ScopeName() string {
	if n.slash == 0 {
		return ""
	}
	return n.raw[1:n.slash]
}

// ScopePrefix returns "@scope/" for "@scope/name", or "" when unscoped.
func (n Name) ScopePrefix() string {
	if n.slash == 0 {
		return ""
	}
	return n.raw[:n.slash+1]
}

// Rest returns the bare name without any scope.
func (n Name) Rest() string {
	if n.slash == 0 {
		return n.raw
	}
	return n.raw[n.slash+1:]
}

// scanName reports the length of the longest package name at the start of
// s and the offset of its scope separator. Callers that need the whole of s
// to be a name compare the length against len(s).
func scanName(s string) (n, slash int, ok bool) {
	start := 0
	if len(s) > 0 && s[0] == '@' {
		scope := scanPart(s[1:])
		if scope == 0 || 1+scope >= len(s) || s[1+scope] != '/' {
			return 0, 0, false
		}
		slash = 1 + scope
		start = slash + 1
	}
	bare := scanPart(s[start:])
	if bare == 0 {
		return 0, 0, false
	}
	switch s[start : start+bare] {
	case reservedNodeModules, reservedFavicon:
		return 0, 0, false
	}
	return start + bare, slash, true
}

// scanPart returns the length of the name segment at the start of s.
func scanPart(s string) int {
	if len(s) == 0 || s[0] == '.' {
		return 0
	}
	i := 0
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return i
}

func isNameChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '.', c == '-', c == '_':
		return true
	}
	return false
}
