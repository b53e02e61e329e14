package publish

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubPublisher creates releases on GitHub.
type GitHubPublisher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubPublisher creates a publisher for owner/repo.
// token is a personal access token or GitHub App token.
func NewGitHubPublisher(token, owner, repo string) (*GitHubPublisher, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubPublisher{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// NewGitHubPublisherFromURL creates a publisher from a remote URL.
// Example: "https://github.com/acme/shipper.git"
func NewGitHubPublisherFromURL(token, remoteURL string) (*GitHubPublisher, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return NewGitHubPublisher(token, owner, repo)
}

// CreateRelease implements Publisher.
func (p *GitHubPublisher) CreateRelease(ctx context.Context, rel Release) (string, error) {
	name := rel.Name
	if name == "" {
		name = rel.Tag
	}

	created, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName:    github.String(rel.Tag),
		Name:       github.String(name),
		Body:       github.String(rel.Body),
		Prerelease: github.Bool(rel.Prerelease),
	})
	if err != nil {
		return "", fmt.Errorf("create GitHub release for %s: %w", rel.Tag, err)
	}
	return created.GetHTMLURL(), nil
}
