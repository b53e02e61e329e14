// Package version computes semantic version transitions from tags and
// classified commit history.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jakreymyers/myrs-git-flow/commit"
)

// Version is a parsed semantic version. Prerelease is carried through
// parsing but dropped by bumps.
type Version struct {
	Major, Minor, Patch int
	Prerelease          string
}

// String renders the version with the canonical "v" prefix.
func (v Version) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare orders two versions by major, minor, patch. Prerelease is
// ignored; bump arithmetic never needs it.
func (v Version) Compare(o Version) int {
	for _, d := range []int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		if d != 0 {
			if d < 0 {
				return -1
			}
			return 1
		}
	}
	return 0
}

var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-([A-Za-z0-9.]+))?$`)

// Parse reads a version string, tolerating a leading "v" and an
// optional prerelease suffix.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch, Prerelease: m[4]}, nil
}

// Normalize validates a user-supplied version string and returns it
// with the "v" prefix attached.
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// Level is the granularity of a version increment.
type Level string

const (
	LevelMajor Level = "major"
	LevelMinor Level = "minor"
	LevelPatch Level = "patch"

	// LevelNone means no version change is recommended.
	LevelNone Level = "none"
)

// Bump increments the requested component, zeroing every lower one and
// dropping any prerelease suffix. LevelNone returns the version
// unchanged (minus prerelease).
func (v Version) Bump(level Level) Version {
	v.Prerelease = ""
	switch level {
	case LevelMajor:
		return Version{Major: v.Major + 1}
	case LevelMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case LevelPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}

// Documented defaults used when the current version cannot be
// determined. These are deliberate yields, not silent recoveries:
// Next surfaces a notice whenever one is used.
const (
	// FallbackUnknown is returned outright when the prior version
	// cannot be parsed.
	FallbackUnknown = "v1.0.0"

	// FallbackInitial is the first patch version in a repository
	// with no tags at all, counted from v0.0.0.
	FallbackInitial = "v0.0.1"
)

// Next computes the version after bumping current at the given level.
// An empty current means no prior tag exists; the bump then counts
// from v0.0.0, so a patch yields FallbackInitial. An unparsable
// current yields FallbackUnknown as-is, without a bump. The returned
// notice is non-empty whenever a fallback was applied and must be
// shown to the caller.
func Next(current string, level Level) (next string, notice string) {
	base, err := Parse(current)
	switch {
	case strings.TrimSpace(current) == "":
		base = Version{}
		notice = "no prior tag found, counting from v0.0.0"
	case err != nil:
		notice = fmt.Sprintf("cannot parse prior version %q, falling back to %s", current, FallbackUnknown)
		return FallbackUnknown, notice
	}
	return base.Bump(level).String(), notice
}

// InferLevel derives the bump level from classified commits. The
// priority is strict: any breaking change forces major, regardless of
// the types involved; otherwise a feat forces minor, a fix forces
// patch, and anything else recommends no bump. The returned reason is
// suitable for display.
func InferLevel(c commit.Classified) (Level, string) {
	switch {
	case c.HasBreaking():
		return LevelMajor, "breaking changes detected"
	case c.Has(commit.TypeFeat):
		return LevelMinor, "new features added"
	case c.Has(commit.TypeFix):
		return LevelPatch, "bug fixes only"
	default:
		return LevelNone, "no version bump needed (only maintenance changes)"
	}
}
