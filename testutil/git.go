// Package testutil creates real git repositories for integration
// tests: a main/develop pair with a bare remote, plus helpers for
// commits, branches and tags.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// SetupTestRepo creates a temporary repository with main and develop
// branches and a bare origin remote both are pushed to. Returns the
// working tree path. Cleaned up when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test User")

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("# Test Repository\n"), 0o644); err != nil {
		t.Fatalf("write README: %v", err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "chore: initial commit")

	remote := t.TempDir()
	runGit(t, remote, "init", "--bare")
	runGit(t, dir, "remote", "add", "origin", remote)
	runGit(t, dir, "push", "-u", "origin", "main")

	runGit(t, dir, "checkout", "-b", "develop")
	runGit(t, dir, "push", "-u", "origin", "develop")

	return dir
}

// CommitFile writes a file and commits it with the given message.
func CommitFile(t *testing.T, dir, path, content, message string) {
	t.Helper()

	fullPath := filepath.Join(dir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	runGit(t, dir, "add", path)
	runGit(t, dir, "commit", "-m", message)
}

// CreateBranch creates and checks out a branch.
func CreateBranch(t *testing.T, dir, name string) {
	t.Helper()
	runGit(t, dir, "checkout", "-b", name)
}

// SwitchBranch checks out an existing branch.
func SwitchBranch(t *testing.T, dir, name string) {
	t.Helper()
	runGit(t, dir, "checkout", name)
}

// Tag creates an annotated tag at HEAD.
func Tag(t *testing.T, dir, name string) {
	t.Helper()
	runGit(t, dir, "tag", "-a", name, "-m", name)
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch(t *testing.T, dir string) string {
	t.Helper()
	return outputGit(t, dir, "branch", "--show-current")
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

func outputGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}
