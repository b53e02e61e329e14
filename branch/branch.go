package branch

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies the role a branch plays in the branching model.
type Kind string

const (
	KindMain    Kind = "main"
	KindDevelop Kind = "develop"
	KindFeature Kind = "feature"
	KindRelease Kind = "release"
	KindHotfix  Kind = "hotfix"
	KindOther   Kind = "other"
)

// Description returns a human-readable label for the kind.
func (k Kind) Description() string {
	switch k {
	case KindMain:
		return "Production branch"
	case KindDevelop:
		return "Development branch"
	case KindFeature:
		return "Feature branch"
	case KindRelease:
		return "Release branch"
	case KindHotfix:
		return "Hotfix branch"
	default:
		return "Non-flow branch"
	}
}

// IsTopic reports whether the kind is a short-lived topic branch
// (feature, release, or hotfix).
func (k Kind) IsTopic() bool {
	return k == KindFeature || k == KindRelease || k == KindHotfix
}

// Branch is a classified branch name.
type Branch struct {
	Name string
	Kind Kind

	// Version holds the version encoded in a release branch name
	// (including the "v" prefix). Empty for every other kind.
	Version string
}

// MaxSlugLength is the longest slug accepted after the kind prefix.
const MaxSlugLength = 100

// releaseVersionPattern matches the suffix of a release branch name.
var releaseVersionPattern = regexp.MustCompile(`^v\d+\.\d+\.\d+(-[A-Za-z0-9.]+)?$`)

// disallowedTokens are sequences git refuses in ref names. Checked as
// substrings of the slug, in this order, so error messages name the
// first offending token.
var disallowedTokens = []string{" ", "..", "~", "^", ":", "?", "*", "[", "@{", `\`}

// ValidationError describes a rejected branch name.
type ValidationError struct {
	Name string // the candidate name
	Rule string // the violated rule
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid branch name %q: %s", e.Name, e.Rule)
}

// Classify maps a branch name to its kind. It is purely syntactic and
// never fails; names that fit no recognized pattern classify as other.
func Classify(name string) Kind {
	name = strings.TrimPrefix(name, "refs/heads/")
	switch {
	case name == "main":
		return KindMain
	case name == "develop":
		return KindDevelop
	case strings.HasPrefix(name, "feature/"):
		return KindFeature
	case strings.HasPrefix(name, "release/"):
		return KindRelease
	case strings.HasPrefix(name, "hotfix/"):
		return KindHotfix
	default:
		return KindOther
	}
}

// Parse classifies and validates a full branch name. Reserved names
// (main, develop) pass as-is. Topic branches must carry a valid slug,
// and release branches must encode a semantic version.
func Parse(name string) (Branch, error) {
	name = strings.TrimPrefix(name, "refs/heads/")
	kind := Classify(name)

	switch kind {
	case KindMain, KindDevelop:
		return Branch{Name: name, Kind: kind}, nil
	case KindOther:
		return Branch{}, &ValidationError{Name: name,
			Rule: "must be main, develop, or start with feature/, release/, or hotfix/"}
	}

	slug := name[strings.Index(name, "/")+1:]
	if err := ValidateSlug(slug); err != nil {
		return Branch{}, &ValidationError{Name: name, Rule: err.Error()}
	}

	b := Branch{Name: name, Kind: kind}
	if kind == KindRelease {
		if !releaseVersionPattern.MatchString(slug) {
			return Branch{}, &ValidationError{Name: name,
				Rule: "release suffix must be v<major>.<minor>.<patch> with an optional prerelease"}
		}
		b.Version = slug
	}
	return b, nil
}

// ValidateSlug checks the part of a topic branch name after the kind
// prefix against the naming rules shared by every create flow.
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("name is required")
	}
	for _, tok := range disallowedTokens {
		if strings.Contains(slug, tok) {
			return fmt.Errorf("contains disallowed %q", tok)
		}
	}
	if len(slug) > MaxSlugLength {
		return fmt.Errorf("too long (%d > %d characters)", len(slug), MaxSlugLength)
	}
	return nil
}

// Slugify converts free text to a name usable as a branch slug.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = regexp.MustCompile(`[^a-z0-9.\-/]`).ReplaceAllString(s, "")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Group buckets branch names by kind, preserving input order within
// each bucket. main and develop land in their own kinds.
func Group(names []string) map[Kind][]string {
	groups := make(map[Kind][]string)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		k := Classify(n)
		groups[k] = append(groups[k], n)
	}
	return groups
}
