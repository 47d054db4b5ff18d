package git

import (
	"path/filepath"
	"sort"
	"strings"
)

// PathSet is a set of repository-relative paths whose modification is
// relevant to a version or tag computation. Duplicates collapse and the
// stored order is canonical, so two sets built from the same paths in
// any order behave identically.
type PathSet struct {
	paths []string
}

// NewPathSet builds a PathSet from the given paths. Empty entries are
// dropped and the rest are cleaned and deduplicated.
func NewPathSet(paths ...string) PathSet {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.ToSlash(filepath.Clean(p))
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return PathSet{paths: out}
}

// Union returns the structural union of ps and others.
func (ps PathSet) Union(others ...PathSet) PathSet {
	all := append([]string(nil), ps.paths...)
	for _, o := range others {
		all = append(all, o.paths...)
	}
	return NewPathSet(all...)
}

// Paths returns the canonical path list.
func (ps PathSet) Paths() []string {
	return append([]string(nil), ps.paths...)
}

func (ps PathSet) Empty() bool {
	return len(ps.paths) == 0
}

// Key returns a stable string identifying this set, used as a
// memoization key within one run.
func (ps PathSet) Key() string {
	return strings.Join(ps.paths, "\x00")
}
