package publish

import (
	"errors"
	"testing"
)

func TestDetectForge(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://github.com/acme/shipper.git", "github", false},
		{"git@github.com:acme/shipper.git", "github", false},
		{"https://gitlab.com/acme/shipper.git", "gitlab", false},
		{"https://gitlab.internal.acme.io/tools/shipper.git", "gitlab", false},
		{"https://bitbucket.org/acme/shipper.git", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := DetectForge(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownForge) {
					t.Fatalf("expected ErrUnknownForge, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectForge: %v", err)
			}
			if got != tt.want {
				t.Errorf("forge = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRepoFromURL(t *testing.T) {
	tests := []struct {
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{"https://github.com/acme/shipper.git", "acme", "shipper", false},
		{"https://github.com/acme/shipper", "acme", "shipper", false},
		{"git@github.com:acme/shipper.git", "acme", "shipper", false},
		{"git@gitlab.com:acme/shipper", "acme", "shipper", false},
		{"not-a-url", "", "", true},
		{"git@github.com:acme/extra/shipper.git", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			owner, repo, err := ParseRepoFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoFromURL: %v", err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("got %s/%s, want %s/%s", owner, repo, tt.owner, tt.repo)
			}
		})
	}
}

func TestForRemoteRequiresToken(t *testing.T) {
	_, err := ForRemote("https://github.com/acme/shipper.git", Tokens{})
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}

	_, err = ForRemote("https://gitlab.com/acme/shipper.git", Tokens{GitHub: "x"})
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestForRemoteBuildsProvider(t *testing.T) {
	p, err := ForRemote("https://github.com/acme/shipper.git", Tokens{GitHub: "tok"})
	if err != nil {
		t.Fatalf("ForRemote: %v", err)
	}
	if _, ok := p.(*GitHubPublisher); !ok {
		t.Errorf("publisher = %T, want *GitHubPublisher", p)
	}
}

func TestRemoteHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://gitlab.com/grp/proj.git", "gitlab.com"},
		{"git@gitlab.com:grp/proj.git", "gitlab.com"},
		{"https://gitlab.example.com/grp/proj.git", "gitlab.example.com"},
		{"git@gitlab.example.com:grp/proj.git", "gitlab.example.com"},
		{"ssh://git@gitlab.example.com/grp/proj.git", "gitlab.example.com"},
	}
	for _, tt := range tests {
		if got := remoteHost(tt.url); got != tt.want {
			t.Errorf("remoteHost(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestGitLabPublisherSelfHostedBaseURL(t *testing.T) {
	p, err := NewGitLabPublisherFromURL("tok", "git@gitlab.example.com:grp/proj.git")
	if err != nil {
		t.Fatalf("NewGitLabPublisherFromURL: %v", err)
	}
	if p.baseURL != "https://gitlab.example.com" {
		t.Errorf("baseURL = %q, want https://gitlab.example.com", p.baseURL)
	}
	if p.project != "grp/proj" {
		t.Errorf("project = %q, want grp/proj", p.project)
	}

	p, err = NewGitLabPublisherFromURL("tok", "git@gitlab.com:grp/proj.git")
	if err != nil {
		t.Fatalf("NewGitLabPublisherFromURL: %v", err)
	}
	if p.baseURL != "https://gitlab.com" {
		t.Errorf("baseURL = %q, want https://gitlab.com", p.baseURL)
	}
}
