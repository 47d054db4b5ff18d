// Package git queries version-control history for the pieces chartmint
// needs: the nearest reachable tag, the commit distance since it, and
// the most recent commit touching a set of paths. All queries run the
// git binary against a local working copy and are memoized per run.
//
// Full (non-shallow) history is required for correct distances; a
// shallow checkout silently yields wrong results and is the caller's
// responsibility to avoid.
package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/chartmint/chartmint/internal/logs"
	"github.com/chartmint/chartmint/internal/runcache"
)

// ErrNotARepo is returned by Open when the given directory is not
// inside a git working copy.
var ErrNotARepo = errors.New("not a git repository")

// Description is the result of one consistent history query: the tag,
// distance and hash are all computed against the same reference commit.
type Description struct {
	// Tag is the nearest reachable tag with any leading "v" stripped,
	// or "" when no tag is reachable.
	Tag string

	// Distance counts commits between the tag and the most recent
	// commit touching the queried paths. With no reachable tag it is
	// the total commit count up to that commit.
	Distance int

	// Hash is the abbreviated hash of the most recent relevant commit.
	// When no queried path changed since the tag, it is the tagged
	// commit's own hash.
	Hash string
}

func (d Description) Tagged() bool {
	return d.Tag != ""
}

// Repo runs history queries against one working copy.
type Repo struct {
	root  string
	cache *runcache.Cache
}

// Open verifies root is a git working copy and binds a Repo to it.
// The cache must be scoped to the current run; pass nil to disable
// memoization (tests).
func Open(root string, cache *runcache.Cache) (*Repo, error) {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = root
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepo, root)
	}
	return &Repo{root: root, cache: cache}, nil
}

// Describe resolves the tag, distance and hash for the given paths in
// one call, so the three can never disagree about their reference.
func (r *Repo) Describe(ps PathSet) (Description, error) {
	return runcache.Memo(r.cache, "describe\x00"+ps.Key(), func() (Description, error) {
		return r.describe(ps)
	})
}

func (r *Repo) describe(ps PathSet) (Description, error) {
	relevant, err := r.latestRelevantCommit(ps)
	if err != nil {
		return Description{}, err
	}

	described, err := r.output("describe", "--tags", "--long", "--abbrev=8", relevant)
	if err != nil {
		// No tag reachable: distance is the full commit count.
		count, err := r.output("rev-list", "--count", relevant)
		if err != nil {
			return Description{}, err
		}
		distance, err := strconv.Atoi(count)
		if err != nil {
			return Description{}, fmt.Errorf("git rev-list --count returned %q: %w", count, err)
		}
		return Description{Tag: "", Distance: distance, Hash: relevant}, nil
	}

	tag, distance, hash, err := splitDescribe(described)
	if err != nil {
		return Description{}, err
	}
	return Description{Tag: stripLeadingV(tag), Distance: distance, Hash: hash}, nil
}

// latestRelevantCommit returns the newer of (a) the most recent commit
// modifying any of the paths and (b) the most recent tagged commit.
// A single combined log query covers the whole union; taking the max of
// per-path queries could pick commits on diverged lines of history.
func (r *Repo) latestRelevantCommit(ps PathSet) (string, error) {
	args := []string{"log", "--max-count=1", "--format=%h", "--abbrev=8"}
	if !ps.Empty() {
		args = append(args, "--")
		args = append(args, ps.Paths()...)
	}
	mod, err := r.output(args...)
	if err != nil {
		return "", err
	}
	if mod == "" {
		// Nothing in history touches these paths; fall back to HEAD.
		if !ps.Empty() {
			logs.Warnf("no commits touch %s, using HEAD", strings.Join(ps.Paths(), " "))
		}
		mod, err = r.output("rev-parse", "--short=8", "HEAD")
		if err != nil {
			return "", err
		}
	}

	described, err := r.output("describe", "--tags", "--abbrev=0")
	if err != nil {
		// No tags on this branch.
		return mod, nil
	}
	tagged, err := r.output("rev-list", "--abbrev-commit", "--abbrev=8", "-n", "1", described)
	if err != nil {
		return "", err
	}

	older, err := r.isAncestor(tagged, mod)
	if err != nil {
		return "", err
	}
	if older {
		return mod, nil
	}
	return tagged, nil
}

// isAncestor reports whether commit a is an ancestor of commit b.
func (r *Repo) isAncestor(a, b string) (bool, error) {
	cmd := exec.Command("git", "merge-base", "--is-ancestor", a, b)
	cmd.Dir = r.root
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("git merge-base --is-ancestor %s %s: %w", a, b, err)
}

func (r *Repo) output(args ...string) (string, error) {
	logs.Debugf("git %s", strings.Join(args, " "))
	cmd := exec.Command("git", args...)
	cmd.Dir = r.root
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("git %s: %w: %s",
				strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// splitDescribe parses "tag-N-ghash" from git describe --long. The tag
// itself may contain dashes, so the split runs from the right.
func splitDescribe(s string) (tag string, distance int, hash string, err error) {
	i := strings.LastIndex(s, "-")
	if i < 0 {
		return "", 0, "", fmt.Errorf("unexpected git describe output %q", s)
	}
	hash = strings.TrimPrefix(s[i+1:], "g")

	rest := s[:i]
	j := strings.LastIndex(rest, "-")
	if j < 0 {
		return "", 0, "", fmt.Errorf("unexpected git describe output %q", s)
	}
	distance, err = strconv.Atoi(rest[j+1:])
	if err != nil {
		return "", 0, "", fmt.Errorf("unexpected git describe output %q: %w", s, err)
	}

	return rest[:j], distance, hash, nil
}

// stripLeadingV removes a leading "v" from a tag name when the
// remainder is a valid SemVer2 string. Chart version fields must be
// SemVer2-pure, so "v1.2.3" is discovered as "1.2.3".
func stripLeadingV(tag string) string {
	rest, ok := strings.CutPrefix(tag, "v")
	if !ok {
		return tag
	}
	if _, err := semver.StrictNewVersion(rest); err != nil {
		return tag
	}
	return rest
}
