// Package audit flags packages in a dependency graph that cannot be
// verified or traced back to a known origin.
//
// The root package and workspace members are part of the project itself
// and are never flagged.
package audit

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/lockgraph/pkg/graph"
)

// DefaultAlgorithms are the hash algorithms accepted as secure.
var DefaultAlgorithms = []string{"sha512", "sha384", "sha256"}

// algorithmStrength orders the SRI algorithms; anything else is weaker.
var algorithmStrength = map[string]int{"sha256": 1, "sha384": 2, "sha512": 3}

// Options configures [Run].
type Options struct {
	// Algorithms lists accepted hash algorithms. Empty means
	// DefaultAlgorithms.
	Algorithms []string
	// Format and Version describe the lockfile in the report header.
	Format  string
	Version string
}

// Check is the outcome of one audit check.
type Check struct {
	Description string
	// Failed holds the display names of failing packages, sorted.
	Failed []string
}

// Passed reports whether no package failed the check.
func (c Check) Passed() bool { return len(c.Failed) == 0 }

// Report is the outcome of an audit.
type Report struct {
	Format   string
	Version  string
	Packages int
	Checks   []Check
}

// Run audits every package of g other than the root and workspace members.
func Run(g *graph.Graph, opts Options) *Report {
	allowed := opts.Algorithms
	if len(allowed) == 0 {
		allowed = DefaultAlgorithms
	}

	var checksumless, insecure, unknownSource []string
	for _, id := range g.PackageIDs() {
		if id == g.RootID() || g.IsWorkspaceMember(id) {
			continue
		}
		p, _ := g.Package(id)
		name := p.DisplayName()
		if algo, ok := strongestAlgorithm(p.Checksums); !ok {
			checksumless = append(checksumless, name)
		} else if !slices.Contains(allowed, algo) {
			insecure = append(insecure, name)
		}
		if !p.Source.IsKnown() {
			unknownSource = append(unknownSource, name)
		}
	}

	checks := []Check{
		{Description: "no checksums", Failed: checksumless},
		{Description: "insecure checksums", Failed: insecure},
		{Description: "unrecognized source", Failed: unknownSource},
	}
	for i := range checks {
		slices.Sort(checks[i].Failed)
	}
	return &Report{
		Format:   opts.Format,
		Version:  opts.Version,
		Packages: g.Len(),
		Checks:   checks,
	}
}

// strongestAlgorithm picks the algorithm a verifier would use: the
// strongest of all hashes listed.
func strongestAlgorithm(sums []graph.Checksum) (string, bool) {
	best, found := "", false
	for _, c := range sums {
		for _, algo := range c.Algorithms() {
			if !found || algorithmStrength[algo] > algorithmStrength[best] {
				best, found = algo, true
			}
		}
	}
	return best, found
}

// Failed returns the number of failed checks.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed() {
			n++
		}
	}
	return n
}

// Header returns the first line of the text report.
func (r *Report) Header() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Checked a %s ", r.Format)
	if r.Version != "" {
		fmt.Fprintf(&b, "(%s) ", r.Version)
	}
	b.WriteString("lockfile.")
	return b.String()
}

// WriteText writes the report in its plain text form: passing checks
// first, then each failing check with the packages that failed it.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString(r.Header())
	b.WriteByte('\n')
	if r.Failed() == 0 {
		b.WriteString("All good! ")
	}
	fmt.Fprintf(&b, "Out of %d dependencies:\n", r.Packages)
	for _, c := range r.Checks {
		if c.Passed() {
			fmt.Fprintf(&b, "✅ No packages with %s\n", c.Description)
		}
	}
	for _, c := range r.Checks {
		if c.Passed() {
			continue
		}
		plural := "s"
		if len(c.Failed) == 1 {
			plural = ""
		}
		fmt.Fprintf(&b, "❌ %d package%s with %s:\n\t%s\n", len(c.Failed), plural, c.Description, strings.Join(c.Failed, " "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
