package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/xanzy/go-gitlab"
)

// GitLabPublisher creates releases on GitLab.
type GitLabPublisher struct {
	client  *gitlab.Client
	baseURL string
	project string
}

// NewGitLabPublisher creates a publisher for a project.
// baseURL is the instance URL, empty for gitlab.com. project is
// "namespace/project".
func NewGitLabPublisher(token, baseURL, project string) (*GitLabPublisher, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if project == "" {
		return nil, fmt.Errorf("project path is required")
	}

	var client *gitlab.Client
	var err error
	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
		baseURL = "https://gitlab.com"
	}
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &GitLabPublisher{
		client:  client,
		baseURL: baseURL,
		project: project,
	}, nil
}

// NewGitLabPublisherFromURL creates a publisher from a remote URL,
// handling self-hosted instances.
func NewGitLabPublisherFromURL(token, remoteURL string) (*GitLabPublisher, error) {
	owner, repo, err := ParseRepoFromURL(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}

	var baseURL string
	if host := remoteHost(remoteURL); host != "" && host != "gitlab.com" {
		baseURL = "https://" + host
	}

	return NewGitLabPublisher(token, baseURL, owner+"/"+repo)
}

// remoteHost extracts the host from an HTTPS or SSH remote URL.
func remoteHost(remoteURL string) string {
	s := strings.TrimPrefix(remoteURL, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "ssh://")
	if _, rest, ok := strings.Cut(s, "@"); ok {
		s = rest
	}
	if host, _, ok := strings.Cut(s, ":"); ok {
		return host
	}
	host, _, _ := strings.Cut(s, "/")
	return host
}

// CreateRelease implements Publisher.
func (p *GitLabPublisher) CreateRelease(ctx context.Context, rel Release) (string, error) {
	name := rel.Name
	if name == "" {
		name = rel.Tag
	}

	_, _, err := p.client.Releases.CreateRelease(p.project, &gitlab.CreateReleaseOptions{
		Name:        gitlab.Ptr(name),
		TagName:     gitlab.Ptr(rel.Tag),
		Description: gitlab.Ptr(rel.Body),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("create GitLab release for %s: %w", rel.Tag, err)
	}
	return fmt.Sprintf("%s/%s/-/releases/%s", p.baseURL, p.project, rel.Tag), nil
}
