package override

import "strings"

// SameSpecifier reports whether user, a specifier as written by the user,
// denotes the same thing as locked, the form a lockfile stores it in. The
// lockfile may add an "npm:" protocol or append "::key=value" parameters:
//
//	SameSpecifier("^4.20", "npm:^4.20")  // true
//	SameSpecifier("a@patch:a@0.1.0#./x.patch", "a@patch:a@0.1.0#./x.patch::locator=app") // true
func SameSpecifier(user, locked string) bool {
	if user == locked {
		return true
	}
	if s, ok := strings.CutPrefix(locked, "npm:"); ok && s == user {
		return true
	}
	if i := strings.LastIndex(locked, "::"); i >= 0 && locked[:i] == user {
		return true
	}
	return false
}

var (
	githubURLPrefixes          = []string{"https://github.com/", "http://github.com/", "ssh://git@github.com/"}
	githubAnyPrefixes          = []string{"https://github.com/", "http://github.com/", "ssh://git@github.com/", "github:"}
	githubLockedSemverPrefixes = []string{"github:", "ssh://git@github.com/"}
)

// SameSpecifierStrict is [SameSpecifier] extended with the rewrites newer
// yarn versions apply to GitHub references:
//
//	https://github.com/o/r.git#ref   ≡ github:o/r#ref
//	o/r                              ≡ github:o/r
//	o/r#semver:^1                    ≡ github:o/r#semver=^1
func SameSpecifierStrict(user, locked string) bool {
	if SameSpecifier(user, locked) {
		return true
	}

	if o, r, rest, ok := cutGitHubRef(user, githubURLPrefixes, true, true); ok {
		lo, lr, lrest, lok := cutGitHubRef(locked, []string{"github:"}, true, false)
		if lok && o == lo && r == lr && rest == lrest {
			return true
		}
	}

	if s, ok := strings.CutPrefix(locked, "github:"); ok && s == user {
		return true
	}

	if o, r, rest, ok := cutGitHubRef(user, githubAnyPrefixes, false, true); ok {
		if rng, ok := strings.CutPrefix(rest, "#semver:"); ok {
			lo, lr, lrest, lok := cutGitHubRef(locked, githubLockedSemverPrefixes, true, true)
			if lrng, ok := strings.CutPrefix(lrest, "#semver="); lok && ok {
				return o == lo && r == lr && rng == lrng
			}
		}
	}

	return false
}

// cutGitHubRef splits "[prefix]owner/repo[#rest]" into owner, repo and the
// remainder including its '#'. The first matching prefix is consumed; when
// none matches and requirePrefix is set the reference is rejected. With
// stripGit a ".git" suffix on repo is removed.
func cutGitHubRef(s string, prefixes []string, requirePrefix, stripGit bool) (owner, repo, rest string, ok bool) {
	matched := false
	for _, p := range prefixes {
		if after, found := strings.CutPrefix(s, p); found {
			s, matched = after, true
			break
		}
	}
	if requirePrefix && !matched {
		return "", "", "", false
	}

	slash := strings.IndexByte(s, '/')
	if slash <= 0 {
		return "", "", "", false
	}
	owner, s = s[:slash], s[slash+1:]

	end := strings.IndexByte(s, '#')
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return "", "", "", false
	}
	repo, rest = s[:end], s[end:]
	if stripGit {
		repo = strings.TrimSuffix(repo, ".git")
	}
	return owner, repo, rest, true
}
