// Package publish creates hosted releases on the forge behind the
// repository's remote after a version tag lands.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Publishing errors.
var (
	// ErrUnknownForge indicates the remote URL does not match a
	// supported hosting provider.
	ErrUnknownForge = errors.New("unknown git hosting provider")

	// ErrNoToken indicates no access token is available for the
	// detected provider.
	ErrNoToken = errors.New("no access token configured")
)

// Release describes a release to create from an existing tag.
type Release struct {
	// Tag is the annotated tag the release points at.
	Tag string

	// Name is the release title. Defaults to the tag when empty.
	Name string

	// Body is the release notes, typically the changelog section
	// for this version.
	Body string

	// Prerelease marks the release as a prerelease. Set for tags
	// with a prerelease suffix such as v1.2.0-beta.1.
	Prerelease bool
}

// Publisher creates releases on a hosting provider.
type Publisher interface {
	// CreateRelease creates a release for an existing tag and
	// returns its web URL.
	CreateRelease(ctx context.Context, rel Release) (string, error)
}

// DetectForge identifies the hosting provider from a remote URL.
func DetectForge(remoteURL string) (string, error) {
	lower := strings.ToLower(remoteURL)
	if strings.Contains(lower, "github.com") {
		return "github", nil
	}
	if strings.Contains(lower, "gitlab") {
		return "gitlab", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownForge, remoteURL)
}

// ParseRepoFromURL extracts owner and repo from an SSH or HTTPS
// remote URL.
func ParseRepoFromURL(remoteURL string) (owner, repo string, err error) {
	// SSH form: git@github.com:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.Split(remoteURL, ":")
		if len(parts) != 2 {
			return "", "", fmt.Errorf("invalid SSH URL format: %s", remoteURL)
		}
		path := strings.TrimSuffix(parts[1], ".git")
		pathParts := strings.Split(path, "/")
		if len(pathParts) != 2 {
			return "", "", fmt.Errorf("invalid repository path: %s", path)
		}
		return pathParts[0], pathParts[1], nil
	}

	// HTTPS form: https://github.com/owner/repo.git
	trimmed := strings.TrimPrefix(remoteURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimSuffix(trimmed, ".git")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("invalid URL format: %s", remoteURL)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// Tokens holds provider access tokens from configuration.
type Tokens struct {
	GitHub string
	GitLab string
}

// ForRemote picks and builds a publisher for the given remote URL.
func ForRemote(remoteURL string, tokens Tokens) (Publisher, error) {
	forge, err := DetectForge(remoteURL)
	if err != nil {
		return nil, err
	}

	switch forge {
	case "github":
		if tokens.GitHub == "" {
			return nil, fmt.Errorf("%w: set github_token or GITFLOW_GITHUB_TOKEN", ErrNoToken)
		}
		return NewGitHubPublisherFromURL(tokens.GitHub, remoteURL)
	case "gitlab":
		if tokens.GitLab == "" {
			return nil, fmt.Errorf("%w: set gitlab_token or GITFLOW_GITLAB_TOKEN", ErrNoToken)
		}
		return NewGitLabPublisherFromURL(tokens.GitLab, remoteURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownForge, forge)
	}
}
