package version

import (
	"testing"

	"github.com/jakreymyers/myrs-git-flow/commit"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"v1.2.3", Version{1, 2, 3, ""}, false},
		{"1.2.3", Version{1, 2, 3, ""}, false},
		{"v1.0.0-beta.1", Version{1, 0, 0, "beta.1"}, false},
		{"v0.0.0", Version{}, false},
		{"v1.2", Version{}, true},
		{"v1.2.3.4", Version{}, true},
		{"abc", Version{}, true},
		{"", Version{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got, err := Normalize("1.2.0"); err != nil || got != "v1.2.0" {
		t.Errorf("Normalize(1.2.0) = %q, %v", got, err)
	}
	if _, err := Normalize("not-a-version"); err == nil {
		t.Error("Normalize accepted garbage")
	}
}

func TestBump(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Patch: 3, Prerelease: "rc.1"}

	if got := v.Bump(LevelMajor).String(); got != "v2.0.0" {
		t.Errorf("major bump = %q, want v2.0.0", got)
	}
	if got := v.Bump(LevelMinor).String(); got != "v1.3.0" {
		t.Errorf("minor bump = %q, want v1.3.0", got)
	}
	if got := v.Bump(LevelPatch).String(); got != "v1.2.4" {
		t.Errorf("patch bump = %q, want v1.2.4", got)
	}
	if got := v.Bump(LevelNone).String(); got != "v1.2.3" {
		t.Errorf("none bump = %q, want v1.2.3", got)
	}
}

func TestNextMonotonic(t *testing.T) {
	current := "v1.2.0"
	for i := 1; i <= 5; i++ {
		next, notice := Next(current, LevelPatch)
		if notice != "" {
			t.Fatalf("unexpected notice: %s", notice)
		}
		want := Version{Major: 1, Minor: 2, Patch: i}.String()
		if next != want {
			t.Fatalf("step %d: Next = %q, want %q", i, next, want)
		}
		cur, _ := Parse(current)
		nxt, _ := Parse(next)
		if nxt.Compare(cur) <= 0 {
			t.Fatalf("Next(%q) = %q is not greater", current, next)
		}
		current = next
	}
}

func TestNextFallbacks(t *testing.T) {
	next, notice := Next("", LevelMinor)
	if next != "v0.1.0" {
		t.Errorf("Next(empty, minor) = %q, want v0.1.0", next)
	}
	if notice == "" {
		t.Error("fallback for missing tag produced no notice")
	}

	next, notice = Next("", LevelPatch)
	if next != FallbackInitial {
		t.Errorf("Next(empty, patch) = %q, want %q", next, FallbackInitial)
	}
	if notice == "" {
		t.Error("fallback for missing tag produced no notice")
	}

	next, notice = Next("garbage", LevelPatch)
	if next != FallbackUnknown {
		t.Errorf("Next(garbage, patch) = %q, want %q", next, FallbackUnknown)
	}
	if notice == "" {
		t.Error("fallback for unparsable version produced no notice")
	}
}

func TestNextDropsPrerelease(t *testing.T) {
	next, _ := Next("v1.2.0-beta.1", LevelPatch)
	if next != "v1.2.1" {
		t.Errorf("Next(v1.2.0-beta.1, patch) = %q, want v1.2.1", next)
	}
}

func classify(subjects ...string) commit.Classified {
	parsed := make([]commit.Parsed, len(subjects))
	for i, s := range subjects {
		parsed[i] = commit.Parse(s, "")
	}
	return commit.Classify(parsed)
}

func TestInferLevelPriority(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		want     Level
	}{
		{"breaking fix still major", []string{"fix!: change format", "chore: tidy"}, LevelMajor},
		{"feat and fix is minor", []string{"feat: add login", "fix: typo"}, LevelMinor},
		{"fix among chores is patch", []string{"fix: typo", "chore: deps", "docs: readme"}, LevelPatch},
		{"maintenance only is none", []string{"chore: deps", "docs: readme", "style: fmt"}, LevelNone},
		{"empty is none", nil, LevelNone},
	}

	for _, tt := range tests {
		got, reason := InferLevel(classify(tt.subjects...))
		if got != tt.want {
			t.Errorf("%s: InferLevel = %q, want %q", tt.name, got, tt.want)
		}
		if reason == "" {
			t.Errorf("%s: empty reason", tt.name)
		}
	}
}

func TestInferLevelBreakingFromBody(t *testing.T) {
	parsed := []commit.Parsed{commit.Parse("fix: small thing", "BREAKING CHANGE: config key renamed")}
	level, _ := InferLevel(commit.Classify(parsed))
	if level != LevelMajor {
		t.Errorf("InferLevel = %q, want major from body marker", level)
	}
}
