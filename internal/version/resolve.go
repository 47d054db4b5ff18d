// Package version composes SemVer2-compliant chart versions and image
// tags from a base version and commit distance/hash information.
//
// Development builds carry a "-0.dev" prerelease marker so they sort
// after the last real release and before the next one: a prerelease
// must describe the next release, not the last tag, because SemVer2
// orders prereleases before their base version.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Reserved baseVersion keywords. Instead of a literal version, the
// configuration may name the component to increment from the latest
// discovered tag.
const (
	KeywordMajor = "major"
	KeywordMinor = "minor"
	KeywordPatch = "patch"
)

// DefaultBase substitutes for the discovered tag when history carries
// no tag at all.
const DefaultBase = "0.0.1"

// IsKeyword reports whether base is one of the increment keywords.
func IsKeyword(base string) bool {
	switch base {
	case KeywordMajor, KeywordMinor, KeywordPatch:
		return true
	}
	return false
}

// devMarker is the fixed prerelease segment appended to development
// builds of a plain release base.
const devMarker = "-0.dev"

// ErrKeywordPrerelease is returned when a major/minor/patch baseVersion
// keyword meets a discovered tag that already carries a prerelease
// segment; the increment is not meaningfully defined there.
var ErrKeywordPrerelease = errors.New("baseVersion keyword is not defined for a prerelease tag")

// FormatError reports a composed or discovered version that fails
// SemVer2 validation. It indicates a logic or configuration defect and
// is never silently corrected.
type FormatError struct {
	Version string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Version, e.Reason)
}

// Spec is the resolver's input. Tag, Distance and Hash must come from
// one consistent history query (git.Description) so they share a
// reference commit.
type Spec struct {
	// Override is an explicit version supplied by the caller; when set
	// it is returned verbatim and everything else is ignored.
	Override string

	// BaseVersion is the configured base: a literal version string, one
	// of the Keyword* constants, or "" to use the discovered Tag.
	BaseVersion string

	// Tag is the discovered latest tag, "" when none exists.
	Tag string

	Distance int
	Hash     string
	Long     bool
}

// Resolve turns a Spec into the final version string.
//
// Resolution is deterministic: identical Specs produce byte-identical
// results.
func Resolve(s Spec) (string, error) {
	if s.Override != "" {
		return s.Override, nil
	}

	base, err := chooseBase(s)
	if err != nil {
		return "", err
	}

	suffixed := s.Distance > 0 || s.Long
	if suffixed && !strings.Contains(base, "-") {
		base += devMarker
	}

	out := base
	if suffixed {
		out = fmt.Sprintf("%s.git.%d.h%s", base, s.Distance, strings.ToLower(s.Hash))
	}

	if err := Validate(out); err != nil {
		return "", err
	}
	return out, nil
}

// chooseBase applies the base selection precedence: configured
// override, then discovered tag, then DefaultBase.
func chooseBase(s Spec) (string, error) {
	switch s.BaseVersion {
	case "":
		if s.Tag == "" {
			return DefaultBase, nil
		}
		return s.Tag, nil

	case KeywordMajor, KeywordMinor, KeywordPatch:
		tag := s.Tag
		if tag == "" {
			tag = DefaultBase
		}
		v, err := semver.StrictNewVersion(tag)
		if err != nil {
			return "", &FormatError{Version: tag, Reason: "discovered tag is not SemVer2: " + err.Error()}
		}
		if v.Prerelease() != "" {
			return "", fmt.Errorf("%w: %s on tag %s", ErrKeywordPrerelease, s.BaseVersion, tag)
		}

		var next semver.Version
		switch s.BaseVersion {
		case KeywordMajor:
			next = v.IncMajor()
		case KeywordMinor:
			next = v.IncMinor()
		case KeywordPatch:
			next = v.IncPatch()
		}
		// Incrementing always yields a plain release; mark it as the
		// development line toward that release.
		return next.String() + devMarker, nil

	default:
		return s.BaseVersion, nil
	}
}

// Validate checks that v satisfies SemVer2 and the narrower grammar the
// composed identifiers must obey: the result doubles as a docker image
// tag, so build metadata ("+") is not allowed, and a single "-" must
// introduce the whole prerelease tail.
func Validate(v string) error {
	if strings.Contains(v, "+") {
		return &FormatError{Version: v, Reason: "build metadata is not allowed in image tags"}
	}

	parsed, err := semver.StrictNewVersion(v)
	if err != nil {
		return &FormatError{Version: v, Reason: err.Error()}
	}

	if strings.Contains(v, "-") && parsed.Prerelease() == "" {
		return &FormatError{Version: v, Reason: "dash without a prerelease tail"}
	}

	// StrictNewVersion already rejects leading zeros in the numeric
	// core; cover the prerelease identifiers as well.
	for _, ident := range strings.Split(parsed.Prerelease(), ".") {
		if len(ident) > 1 && ident[0] == '0' && isNumeric(ident) {
			return &FormatError{Version: v, Reason: "leading zero in prerelease identifier " + ident}
		}
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
