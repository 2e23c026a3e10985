package descriptor

import (
	"strings"

	"github.com/matzehuels/lockgraph/pkg/errors"
)

// SegmentKind classifies one element of a [Path].
type SegmentKind int

const (
	// SegmentArbitrary is a directory outside node_modules, such as a
	// workspace member directory.
	SegmentArbitrary SegmentKind = iota
	// SegmentNodeModules is a literal "node_modules" directory.
	SegmentNodeModules
	// SegmentPackageName is a package directory directly inside
	// node_modules. Scoped names span two directories but form one segment.
	SegmentPackageName
)

// Segment is one element of a parsed [Path].
type Segment struct {
	Kind SegmentKind
	Text string
	Name Name // set for SegmentPackageName
}

// RootPath is the install path of the project root.
const RootPath = ""

// Path is a validated install path such as
// "packages/app/node_modules/@scope/pkg".
type Path struct {
	raw  string
	ends []int // end offsets of segments
	kind []SegmentKind
	// slash holds the scope separator of package-name segments relative to
	// the segment start; 0 for unscoped names and non-name segments.
	slash []int
}

// ParsePath validates s as an install path. The empty string is the project
// root.
//
// A "node_modules" segment must be followed by exactly one package name
// (two directories for a scoped name), and that name must be followed by
// another "node_modules" or the end of the path.
func ParsePath(s string) (Path, error) {
	p := Path{raw: s}
	if s == "" {
		return p, nil
	}
	invalid := func(format string, args ...any) (Path, error) {
		return Path{}, errors.New(errors.ErrCodeInvalidPath, "invalid install path %q: "+format, append([]any{s}, args...)...)
	}

	const (
		stateFree = iota
		stateWantName
		stateWantScopedRest
		stateAfterName
	)
	state := stateFree
	start, nameStart := 0, 0
	for start <= len(s) {
		end := strings.IndexByte(s[start:], '/')
		if end < 0 {
			end = len(s)
		} else {
			end += start
		}
		seg := s[start:end]
		if seg == "" {
			return invalid("empty segment at offset %d", start)
		}

		switch state {
		case stateFree, stateAfterName:
			switch {
			case seg == reservedNodeModules:
				p.push(end, SegmentNodeModules, 0)
				state = stateWantName
			case state == stateAfterName:
				return invalid("%q follows a package name", seg)
			default:
				p.push(end, SegmentArbitrary, 0)
			}
		case stateWantName:
			nameStart = start
			if seg[0] == '@' {
				state = stateWantScopedRest
				break
			}
			fallthrough
		case stateWantScopedRest:
			text := s[nameStart:end]
			n, err := ParseName(text)
			if err != nil {
				return invalid("bad package name %q", text)
			}
			p.push(end, SegmentPackageName, n.slash)
			state = stateAfterName
		}
		start = end + 1
	}

	switch state {
	case stateWantName:
		return invalid("trailing node_modules")
	case stateWantScopedRest:
		return invalid("incomplete scope")
	}
	return p, nil
}

// MustParsePath is like [ParsePath] but panics on invalid input.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Path) push(end int, kind SegmentKind, slash int) {
	p.ends = append(p.ends, end)
	p.kind = append(p.kind, kind)
	p.slash = append(p.slash, slash)
}

// String returns the path text.
func (p Path) String() string { return p.raw }

// IsRoot reports whether p is the project root.
func (p Path) IsRoot() bool { return p.raw == "" }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.ends) }

// Segment returns the i-th segment.
func (p Path) Segment(i int) Segment {
	start := 0
	if i > 0 {
		start = p.ends[i-1] + 1
	}
	seg := Segment{Kind: p.kind[i], Text: p.raw[start:p.ends[i]]}
	if seg.Kind == SegmentPackageName {
		seg.Name = Name{raw: seg.Text, slash: p.slash[i]}
	}
	return seg
}

// Segments returns all segments in order.
func (p Path) Segments() []Segment {
	out := make([]Segment, p.Len())
	for i := range out {
		out[i] = p.Segment(i)
	}
	return out
}

// Ancestors returns the package names along the path, outermost first.
// The last element is the package installed at p, if p ends in one.
func (p Path) Ancestors() []Name {
	var names []Name
	for i := range p.ends {
		if p.kind[i] == SegmentPackageName {
			names = append(names, p.Segment(i).Name)
		}
	}
	return names
}

// IsInsideNodeModules reports whether any segment is "node_modules".
func (p Path) IsInsideNodeModules() bool {
	for _, k := range p.kind {
		if k == SegmentNodeModules {
			return true
		}
	}
	return false
}

// Parent returns the path of the package that p is nested in, and false
// when p is not nested inside another package's node_modules.
//
// For "a/node_modules/b/node_modules/c" the parent is "a/node_modules/b".
func (p Path) Parent() (Path, bool) {
	n := len(p.ends)
	if n < 2 || p.kind[n-1] != SegmentPackageName {
		return Path{}, false
	}
	// drop "<name>" and its "node_modules"
	cut := n - 2
	if cut == 0 {
		return Path{}, true
	}
	return Path{
		raw:   p.raw[:p.ends[cut-1]],
		ends:  p.ends[:cut:cut],
		kind:  p.kind[:cut:cut],
		slash: p.slash[:cut:cut],
	}, true
}

// ImpliedName returns the package name a directory at p would hold.
//
// If the last segment is a package name inside node_modules it is
// returned. Otherwise the name is derived from the tail of the path: a
// second-to-last directory starting with '@' makes a scoped name, else the
// last directory alone is tried.
func (p Path) ImpliedName() (Name, bool) {
	n := len(p.ends)
	if n == 0 {
		return Name{}, false
	}
	last := p.Segment(n - 1)
	switch last.Kind {
	case SegmentPackageName:
		return last.Name, true
	case SegmentNodeModules:
		return Name{}, false
	}
	if n >= 2 {
		prev := p.Segment(n - 2)
		if prev.Kind == SegmentArbitrary && strings.HasPrefix(prev.Text, "@") {
			if name, err := ParseName(prev.Text + "/" + last.Text); err == nil {
				return name, true
			}
		}
	}
	if name, err := ParseName(last.Text); err == nil {
		return name, true
	}
	return Name{}, false
}
