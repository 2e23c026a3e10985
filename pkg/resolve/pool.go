package resolve

import (
	"cmp"
	"slices"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

// Candidate is one pool entry: a package and the specifier the lockfile
// listed it under.
type Candidate struct {
	Specifier string
	ID        graph.PackageID
}

type poolEntry struct {
	name string
	Candidate
}

// Pool maps (name, specifier) pairs, as written in a lockfile, to the
// packages they denote. A package is usually reachable under several
// specifiers, and a malformed lockfile may list one specifier for several
// packages; both are kept.
//
// The zero value is an empty pool.
type Pool struct {
	entries []poolEntry
	sorted  bool
}

// Add records that name@specifier denotes id. Adding the same triple twice
// has no effect.
func (p *Pool) Add(name, specifier string, id graph.PackageID) {
	p.entries = append(p.entries, poolEntry{name: name, Candidate: Candidate{Specifier: specifier, ID: id}})
	p.sorted = false
}

// Len returns the number of distinct entries.
func (p *Pool) Len() int {
	p.sort()
	return len(p.entries)
}

// Candidates returns the entries for name ordered by specifier, then id.
func (p *Pool) Candidates(name string) []Candidate {
	p.sort()
	lo, _ := slices.BinarySearchFunc(p.entries, name, func(e poolEntry, n string) int {
		return cmp.Compare(e.name, n)
	})
	var out []Candidate
	for i := lo; i < len(p.entries) && p.entries[i].name == name; i++ {
		out = append(out, p.entries[i].Candidate)
	}
	return out
}

func (p *Pool) sort() {
	if p.sorted {
		return
	}
	slices.SortFunc(p.entries, func(a, b poolEntry) int {
		if c := cmp.Compare(a.name, b.name); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Specifier, b.Specifier); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	p.entries = slices.Compact(p.entries)
	p.sorted = true
}

// uniqueIDs returns the distinct ids among cs, in first-seen order.
func uniqueIDs(cs []Candidate) []graph.PackageID {
	var ids []graph.PackageID
	for _, c := range cs {
		if !slices.Contains(ids, c.ID) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
