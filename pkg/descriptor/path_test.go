package descriptor

import (
	"slices"
	"testing"

	"github.com/matzehuels/lockgraph/pkg/errors"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input     string
		segments  []Segment
		ancestors []string
	}{
		{
			input: "",
		},
		{
			input: "node_modules/semver",
			segments: []Segment{
				{Kind: SegmentNodeModules, Text: "node_modules"},
				{Kind: SegmentPackageName, Text: "semver", Name: MustParseName("semver")},
			},
			ancestors: []string{"semver"},
		},
		{
			input: "node_modules/@chastelock/testcase",
			segments: []Segment{
				{Kind: SegmentNodeModules, Text: "node_modules"},
				{Kind: SegmentPackageName, Text: "@chastelock/testcase", Name: MustParseName("@chastelock/testcase")},
			},
			ancestors: []string{"@chastelock/testcase"},
		},
		{
			input: "arbitrary/prefix/node_modules/@chastelock/testcase",
			segments: []Segment{
				{Kind: SegmentArbitrary, Text: "arbitrary"},
				{Kind: SegmentArbitrary, Text: "prefix"},
				{Kind: SegmentNodeModules, Text: "node_modules"},
				{Kind: SegmentPackageName, Text: "@chastelock/testcase", Name: MustParseName("@chastelock/testcase")},
			},
			ancestors: []string{"@chastelock/testcase"},
		},
		{
			input: "node_modules/a/node_modules/@b/c/node_modules/d",
			segments: []Segment{
				{Kind: SegmentNodeModules, Text: "node_modules"},
				{Kind: SegmentPackageName, Text: "a", Name: MustParseName("a")},
				{Kind: SegmentNodeModules, Text: "node_modules"},
				{Kind: SegmentPackageName, Text: "@b/c", Name: MustParseName("@b/c")},
				{Kind: SegmentNodeModules, Text: "node_modules"},
				{Kind: SegmentPackageName, Text: "d", Name: MustParseName("d")},
			},
			ancestors: []string{"a", "@b/c", "d"},
		},
		{
			input: "packages/balls",
			segments: []Segment{
				{Kind: SegmentArbitrary, Text: "packages"},
				{Kind: SegmentArbitrary, Text: "balls"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if err != nil {
				t.Fatalf("ParsePath(%q) error: %v", tt.input, err)
			}
			if p.String() != tt.input {
				t.Errorf("String() = %q", p.String())
			}
			if got := p.Segments(); !slices.Equal(got, tt.segments) {
				t.Errorf("Segments() = %+v, want %+v", got, tt.segments)
			}
			var ancestors []string
			for _, n := range p.Ancestors() {
				ancestors = append(ancestors, n.String())
			}
			if !slices.Equal(ancestors, tt.ancestors) {
				t.Errorf("Ancestors() = %v, want %v", ancestors, tt.ancestors)
			}
		})
	}
}

func TestParsePathInvalid(t *testing.T) {
	inputs := []string{
		"node_modules",
		"a/node_modules",
		"node_modules/@scope",
		"node_modules/a/b",
		"node_modules/.bin",
		"node_modules/node_modules",
		"a//b",
		"/a",
		"a/",
		"node_modules/@scope/.x",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePath(input)
			if err == nil {
				t.Fatalf("ParsePath(%q) succeeded, want error", input)
			}
			if !errors.Is(err, errors.ErrCodeInvalidPath) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidPath)
			}
		})
	}
}

func TestPathImpliedName(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"", "", false},
		{"node_modules/semver", "semver", true},
		{"node_modules/a/node_modules/@b/c", "@b/c", true},
		{"balls", "balls", true},
		{"packages/balls", "balls", true},
		{"packages/@scope/balls", "@scope/balls", true},
		{"packages/.hidden", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, ok := MustParsePath(tt.input).ImpliedName()
			if ok != tt.ok || name.String() != tt.want {
				t.Errorf("ImpliedName() = %q, %v; want %q, %v", name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPathParent(t *testing.T) {
	tests := []struct {
		input  string
		parent string
		ok     bool
	}{
		{"node_modules/a", "", true},
		{"node_modules/a/node_modules/@b/c", "node_modules/a", true},
		{"packages/app/node_modules/x", "packages/app", true},
		{"packages/app", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parent, ok := MustParsePath(tt.input).Parent()
			if ok != tt.ok || parent.String() != tt.parent {
				t.Errorf("Parent() = %q, %v; want %q, %v", parent, ok, tt.parent, tt.ok)
			}
		})
	}
}

func TestPathInsideNodeModules(t *testing.T) {
	if MustParsePath("packages/app").IsInsideNodeModules() {
		t.Error("workspace path reported as inside node_modules")
	}
	if !MustParsePath("packages/app/node_modules/x").IsInsideNodeModules() {
		t.Error("nested path not reported as inside node_modules")
	}
	if !MustParsePath("").IsRoot() {
		t.Error("empty path should be the root")
	}
}
