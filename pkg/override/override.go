// Package override implements the user override table ("resolutions" in
// yarn, "overrides" in npm) that replaces the specifier of matching
// dependency requests before they are resolved.
//
// Keys select a dependency by name and, optionally, by the specifier it was
// requested with and by the package requesting it:
//
//	lodash                       every request for lodash
//	preact@^1                    requests for preact made with "^1"
//	kleur@^2/preact              requests for preact made by kleur@^2
//	@yarnpkg/core@npm:^4/@s/x@^1 scoped names on both sides
//
// Entries are kept sorted by (name, range, parent) with absent ranges and
// parents ordered first, and [Table.Find] returns the first entry that
// applies. This mirrors how yarn picks between overlapping resolutions.
package override

import (
	"cmp"
	"sort"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/errors"
)

// Selector matches a package by name and, when Range is non-empty, by the
// specifier it was requested with.
type Selector struct {
	Name  string
	Range string
}

func (s Selector) String() string {
	if s.Range == "" {
		return s.Name
	}
	return s.Name + "@" + s.Range
}

// matches reports whether d is selected by s.
func (s Selector) matches(d Descriptor) bool {
	return s.Name == d.Name && (s.Range == "" || SameSpecifier(s.Range, d.Specifier))
}

// Key is a parsed override key.
type Key struct {
	// Parent restricts the override to requests made by a matching package.
	Parent *Selector
	Selector
}

func (k Key) String() string {
	if k.Parent == nil {
		return k.Selector.String()
	}
	return k.Parent.String() + "/" + k.Selector.String()
}

// ParseKey parses an override key of the form "[parent[@range]/]name[@range]".
// Returns ErrCodeInvalidOverride if s does not follow that grammar.
func ParseKey(s string) (Key, error) {
	first, rest, ok := cutSelector(s)
	if !ok {
		return Key{}, invalidKey(s)
	}
	if rest == "" {
		return Key{Selector: first}, nil
	}
	if rest[0] != '/' {
		return Key{}, invalidKey(s)
	}
	second, rest, ok := cutSelector(rest[1:])
	if !ok || rest != "" {
		return Key{}, invalidKey(s)
	}
	return Key{Parent: &first, Selector: second}, nil
}

func invalidKey(s string) error {
	return errors.New(errors.ErrCodeInvalidOverride, "invalid override key %q", s)
}

// cutSelector parses a selector off the front of s. The range runs until
// the next '/' or '@' and must not be empty.
func cutSelector(s string) (Selector, string, bool) {
	name, rest, ok := descriptor.CutName(s)
	if !ok {
		return Selector{}, s, false
	}
	sel := Selector{Name: name.String()}
	if len(rest) > 1 && rest[0] == '@' {
		end := 1
		for end < len(rest) && rest[end] != '/' && rest[end] != '@' {
			end++
		}
		if end > 1 {
			sel.Range = rest[1:end]
			rest = rest[end:]
		}
	}
	return sel, rest, true
}

// Descriptor is a (name, specifier) pair as requested in a manifest or
// lockfile.
type Descriptor struct {
	Name      string
	Specifier string
}

type entry struct {
	key   Key
	value string
}

// Table is an ordered set of overrides. The zero value is an empty table.
type Table struct {
	entries []entry
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Insert parses key and adds the override. Returns ErrCodeInvalidOverride
// for a malformed key and ErrCodeDuplicateOverride if an equal key is
// already present.
func (t *Table) Insert(key, value string) error {
	k, err := ParseKey(key)
	if err != nil {
		return err
	}
	i := sort.Search(len(t.entries), func(i int) bool {
		return compareKeys(t.entries[i].key, k) >= 0
	})
	if i < len(t.entries) && compareKeys(t.entries[i].key, k) == 0 {
		return errors.New(errors.ErrCodeDuplicateOverride, "duplicate override key %q", key)
	}
	t.entries = append(t.entries, entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = entry{key: k, value: value}
	return nil
}

// Find returns the override for a request of name with specifier. An
// entry applies when its range is absent or equivalent to specifier, and
// its parent is absent or matches one of the descriptors returned by
// parents. parents is only called when a parent-scoped entry needs it.
func (t *Table) Find(name, specifier string, parents func() []Descriptor) (string, bool) {
	req := Descriptor{Name: name, Specifier: specifier}
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].key.Name >= name
	})
	for ; i < len(t.entries) && t.entries[i].key.Name == name; i++ {
		e := t.entries[i]
		if !e.key.matches(req) {
			continue
		}
		if e.key.Parent == nil {
			return e.value, true
		}
		if parents == nil {
			continue
		}
		for _, p := range parents() {
			if e.key.Parent.matches(p) {
				return e.value, true
			}
		}
	}
	return "", false
}

// Keys returns the parsed keys in table order.
func (t *Table) Keys() []Key {
	keys := make([]Key, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.key
	}
	return keys
}

func compareKeys(a, b Key) int {
	if c := compareSelectors(a.Selector, b.Selector); c != 0 {
		return c
	}
	switch {
	case a.Parent == nil && b.Parent == nil:
		return 0
	case a.Parent == nil:
		return -1
	case b.Parent == nil:
		return 1
	}
	return compareSelectors(*a.Parent, *b.Parent)
}

func compareSelectors(a, b Selector) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	// An absent range is the empty string, which sorts first.
	return cmp.Compare(a.Range, b.Range)
}
