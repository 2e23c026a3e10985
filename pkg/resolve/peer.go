package resolve

import (
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/lockgraph/pkg/descriptor"
	"github.com/matzehuels/lockgraph/pkg/graph"
)

// PeerQuery is the input of the peer heuristics.
type PeerQuery struct {
	From graph.PackageID
	// Match is the specifier candidates are compared against: the
	// overriding or requested specifier, or just its range when aliased.
	Match string
	// Override is the overriding specifier when Overridden is set.
	Override   string
	Overridden bool
	// Range is the parsed overriding or requested specifier.
	Range      descriptor.Specifier
	Candidates []Candidate
}

// PeerRule is one step of the peer cascade. Pick reports a package only
// when the rule singles one out.
type PeerRule struct {
	Name string
	Pick func(r *Resolver, q *PeerQuery) (graph.PackageID, bool)
}

// PeerRules is the peer cascade in evaluation order. The first rule that
// picks a package wins; when none does the peer stays unresolved.
var PeerRules = []PeerRule{
	{"only-candidate", onlyCandidate},
	{"override-match", overrideMatch},
	{"sibling", sibling},
	{"same-specifier", sameSpecifier},
	{"self", self},
	{"semver", highestSatisfying},
}

func (r *Resolver) resolvePeer(q *PeerQuery) (graph.PackageID, string, bool) {
	if len(q.Candidates) == 0 {
		return 0, "", false
	}
	for _, rule := range PeerRules {
		if id, ok := rule.Pick(r, q); ok {
			return id, rule.Name, true
		}
	}
	return 0, "", false
}

func onlyCandidate(_ *Resolver, q *PeerQuery) (graph.PackageID, bool) {
	return single(uniqueIDs(q.Candidates))
}

// overrideMatch picks the candidate listed under the overriding specifier.
func overrideMatch(r *Resolver, q *PeerQuery) (graph.PackageID, bool) {
	if !q.Overridden {
		return 0, false
	}
	return single(r.matching(q.Candidates, q.Override))
}

// sibling picks the candidate the requester already depends on regularly;
// packages sometimes declare the same dependency as regular and peer.
func sibling(r *Resolver, q *PeerQuery) (graph.PackageID, bool) {
	var hits []graph.PackageID
	for _, child := range r.children[q.From] {
		if slices.Contains(hits, child) {
			continue
		}
		if slices.ContainsFunc(q.Candidates, func(c Candidate) bool { return c.ID == child }) {
			hits = append(hits, child)
		}
	}
	return single(hits)
}

// sameSpecifier picks the candidate requested elsewhere with the same
// specifier.
func sameSpecifier(r *Resolver, q *PeerQuery) (graph.PackageID, bool) {
	return single(r.matching(q.Candidates, q.Match))
}

// self resolves a peer dependency back onto its requester.
func self(_ *Resolver, q *PeerQuery) (graph.PackageID, bool) {
	for _, c := range q.Candidates {
		if c.ID == q.From {
			return q.From, true
		}
	}
	return 0, false
}

// highestSatisfying picks, among registry packages whose version satisfies
// the requested range, the one with the highest version.
func highestSatisfying(r *Resolver, q *PeerQuery) (graph.PackageID, bool) {
	rng, ok := q.Range.Range()
	if !ok {
		return 0, false
	}
	var best graph.PackageID
	var bestVersion *semver.Version
	for _, id := range uniqueIDs(q.Candidates) {
		p, ok := r.pkgs.Package(id)
		if !ok || p.Source.Kind != graph.SourceNpm {
			continue
		}
		v, ok := p.SemVer()
		if !ok || !rng.Check(v) {
			continue
		}
		if bestVersion == nil || !v.LessThan(bestVersion) {
			best, bestVersion = id, v
		}
	}
	return best, bestVersion != nil
}

func (r *Resolver) matching(cs []Candidate, spec string) []graph.PackageID {
	var ids []graph.PackageID
	for _, c := range cs {
		if r.same(spec, c.Specifier) && !slices.Contains(ids, c.ID) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func single(ids []graph.PackageID) (graph.PackageID, bool) {
	if len(ids) != 1 {
		return 0, false
	}
	return ids[0], true
}
