package flow

import (
	"testing"

	"github.com/jakreymyers/myrs-git-flow/branch"
	"github.com/jakreymyers/myrs-git-flow/prompt"
	"github.com/jakreymyers/myrs-git-flow/version"
)

func TestStatusReport(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.current = "feature/login"
	d.branches["feature/login"] = true
	d.branches["release/v1.2.0"] = true
	d.hasUpstream = true
	d.ahead = 2
	d.behind = 1
	d.latestTag = "v1.1.0"
	d.statusLines = []string{" M main.go", "?? notes.txt", " D old.go", "A  new.go"}
	f := newTestFlow(d, testSettings(), prompt.Default{})

	r, err := f.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if r.Branch != "feature/login" || r.Kind != branch.KindFeature {
		t.Errorf("branch = %s (%s)", r.Branch, r.Kind)
	}
	if r.Ahead != 2 || r.Behind != 1 {
		t.Errorf("ahead=%d behind=%d", r.Ahead, r.Behind)
	}
	if r.Modified != 1 || r.Added != 2 || r.Deleted != 1 {
		t.Errorf("modified=%d added=%d deleted=%d", r.Modified, r.Added, r.Deleted)
	}
	if r.LatestTag != "v1.1.0" {
		t.Errorf("latest tag = %q", r.LatestTag)
	}
	if len(r.Branches[branch.KindFeature]) != 1 || len(r.Branches[branch.KindRelease]) != 1 {
		t.Errorf("grouped branches = %v", r.Branches)
	}
	if r.MergeReady {
		t.Error("dirty out-of-sync branch must not be merge ready")
	}
}

func TestStatusMergeReady(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.current = "feature/login"
	d.branches["feature/login"] = true
	d.hasUpstream = true
	d.ancestors["develop..feature/login"] = true
	f := newTestFlow(d, testSettings(), prompt.Default{})

	r, err := f.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !r.MergeReady {
		t.Error("clean synced branch based on develop should be merge ready")
	}
	if !r.Clean() {
		t.Error("expected clean report")
	}
}

func TestStatusMergeReadyHotfix(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.current = "hotfix/crash"
	d.branches["hotfix/crash"] = true
	d.hasUpstream = true
	f := newTestFlow(d, testSettings(), prompt.Default{})

	r, err := f.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !r.MergeReady {
		t.Error("clean synced hotfix should be merge ready without a develop base")
	}
}

func TestStatusFeatureNotBasedOnDevelop(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.current = "feature/login"
	d.branches["feature/login"] = true
	d.hasUpstream = true
	f := newTestFlow(d, testSettings(), prompt.Default{})

	r, err := f.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if r.MergeReady {
		t.Error("feature behind develop must not be merge ready")
	}
}

func TestSuggestVersionNoPriorTag(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.log = conventional("feat: add login", "fix: typo")
	f := newTestFlow(d, testSettings(), prompt.Default{})

	s, err := f.SuggestVersion("")
	if err != nil {
		t.Fatalf("SuggestVersion: %v", err)
	}
	if s.Level != version.LevelMinor {
		t.Errorf("level = %s, want minor", s.Level)
	}
	if s.Next != "v0.1.0" {
		t.Errorf("next = %q, want v0.1.0", s.Next)
	}
	if len(s.Notices) == 0 {
		t.Error("fallback base must surface a notice")
	}
}

func TestSuggestVersionBreakingChange(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.latestTag = "v1.2.0"
	d.log = conventional("feat!: new auth", "fix: patch")
	f := newTestFlow(d, testSettings(), prompt.Default{})

	s, err := f.SuggestVersion("")
	if err != nil {
		t.Fatalf("SuggestVersion: %v", err)
	}
	if s.Level != version.LevelMajor {
		t.Errorf("level = %s, want major", s.Level)
	}
	if s.Next != "v2.0.0" {
		t.Errorf("next = %q, want v2.0.0", s.Next)
	}
	if s.Current != "v1.2.0" {
		t.Errorf("current = %q", s.Current)
	}
}

func TestSuggestVersionNoRelevantCommits(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.latestTag = "v1.2.0"
	d.log = conventional("docs: update readme", "chore: tidy")
	f := newTestFlow(d, testSettings(), prompt.Default{})

	s, err := f.SuggestVersion("")
	if err != nil {
		t.Fatalf("SuggestVersion: %v", err)
	}
	if s.Level != version.LevelNone {
		t.Errorf("level = %s, want none", s.Level)
	}
	if s.Next != "" {
		t.Errorf("next = %q, want empty", s.Next)
	}
}

func TestSuggestVersionExplicitFromTag(t *testing.T) {
	d := newFakeDriver(t.TempDir())
	d.latestTag = "v1.3.0"
	d.log = conventional("fix: boundary check")
	f := newTestFlow(d, testSettings(), prompt.Default{})

	s, err := f.SuggestVersion("v1.2.0")
	if err != nil {
		t.Fatalf("SuggestVersion: %v", err)
	}
	if s.Current != "v1.2.0" {
		t.Errorf("current = %q, want v1.2.0", s.Current)
	}
	if s.Next != "v1.2.1" {
		t.Errorf("next = %q, want v1.2.1", s.Next)
	}
}
