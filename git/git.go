// Package git wraps the git command line behind a small driver with a
// mockable runner seam. Every operation the workflow needs lives here;
// higher layers never shell out themselves.
package git

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakreymyers/myrs-git-flow/commit"
)

// Field and record separators for log parsing. Commit bodies can
// contain anything printable, so we delimit with control characters.
const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// Context is a handle on one repository working tree.
type Context struct {
	workDir string
	runner  CommandRunner
}

// Option configures a Context.
type Option func(*Context)

// WithRunner overrides the command runner. Used by tests.
func WithRunner(r CommandRunner) Option {
	return func(c *Context) {
		c.runner = r
	}
}

// NewContext opens the repository containing dir. It fails with
// ErrNotGitRepo when dir is not inside a working tree.
func NewContext(dir string, opts ...Option) (*Context, error) {
	c := &Context{
		workDir: dir,
		runner:  NewExecRunner(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := c.run("rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotGitRepo, dir)
	}
	return c, nil
}

// WorkDir returns the directory the context operates in.
func (c *Context) WorkDir() string {
	return c.workDir
}

func (c *Context) run(args ...string) (string, error) {
	return c.runner.Run(c.workDir, "git", args...)
}

// CurrentBranch returns the checked-out branch name.
func (c *Context) CurrentBranch() (string, error) {
	out, err := c.run("branch", "--show-current")
	if err != nil {
		return "", opError("branch --show-current", err)
	}
	return out, nil
}

// Status returns porcelain status lines, one per changed path.
func (c *Context) Status() ([]string, error) {
	out, err := c.run("status", "--porcelain")
	if err != nil {
		return nil, opError("status", err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (c *Context) IsClean() (bool, error) {
	lines, err := c.Status()
	if err != nil {
		return false, err
	}
	return len(lines) == 0, nil
}

// LocalBranches lists local branch names.
func (c *Context) LocalBranches() ([]string, error) {
	out, err := c.run("branch", "--format", "%(refname:short)")
	if err != nil {
		return nil, opError("branch", err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// BranchExists reports whether a local branch exists.
func (c *Context) BranchExists(name string) (bool, error) {
	_, err := c.run("rev-parse", "--verify", "--quiet", "refs/heads/"+name)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// RemoteBranchExists reports whether remote has a branch by that name.
func (c *Context) RemoteBranchExists(remote, name string) (bool, error) {
	out, err := c.run("ls-remote", "--heads", remote, name)
	if err != nil {
		return false, opError("ls-remote", err)
	}
	return out != "", nil
}

// Checkout switches to an existing branch.
func (c *Context) Checkout(name string) error {
	_, err := c.run("checkout", name)
	return opError("checkout "+name, err)
}

// CheckoutNew creates a branch from start and switches to it.
func (c *Context) CheckoutNew(name, start string) error {
	_, err := c.run("checkout", "-b", name, start)
	if err != nil {
		if IsAlreadyExists(err) {
			return fmt.Errorf("%w: %s", ErrBranchExists, name)
		}
		return opError("checkout -b "+name, err)
	}
	return nil
}

// Pull updates the current branch from its upstream.
func (c *Context) Pull() error {
	_, err := c.run("pull")
	return opError("pull", err)
}

// Fetch updates remote tracking refs.
func (c *Context) Fetch(remote string) error {
	_, err := c.run("fetch", remote)
	return opError("fetch "+remote, err)
}

// MergeNoFF merges branch into the current branch with a merge commit.
func (c *Context) MergeNoFF(branch, message string) error {
	_, err := c.run("merge", "--no-ff", branch, "-m", message)
	return opError("merge --no-ff "+branch, err)
}

// Push pushes branch to remote, optionally setting the upstream.
func (c *Context) Push(remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	_, err := c.run(args...)
	if err != nil && IsUpToDate(err) {
		return nil
	}
	return opError("push "+branch, err)
}

// PushTag pushes a single tag to remote.
func (c *Context) PushTag(remote, tag string) error {
	_, err := c.run("push", remote, tag)
	if err != nil && IsUpToDate(err) {
		return nil
	}
	return opError("push "+tag, err)
}

// DeleteLocalBranch deletes a local branch. With force it uses -D.
func (c *Context) DeleteLocalBranch(name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := c.run("branch", flag, name)
	return opError("branch "+flag+" "+name, err)
}

// DeleteRemoteBranch deletes a branch on the remote.
func (c *Context) DeleteRemoteBranch(remote, name string) error {
	_, err := c.run("push", remote, "--delete", name)
	return opError("push --delete "+name, err)
}

// CreateAnnotatedTag creates an annotated tag at HEAD.
func (c *Context) CreateAnnotatedTag(name, message string) error {
	_, err := c.run("tag", "-a", name, "-m", message)
	return opError("tag -a "+name, err)
}

// TagExists reports whether a tag exists locally.
func (c *Context) TagExists(name string) (bool, error) {
	_, err := c.run("rev-parse", "--verify", "--quiet", "refs/tags/"+name)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// LatestTag returns the most recent tag reachable from HEAD, or
// ErrNoTags when the repository has none.
func (c *Context) LatestTag() (string, error) {
	out, err := c.run("describe", "--tags", "--abbrev=0")
	if err != nil {
		return "", ErrNoTags
	}
	return out, nil
}

// LatestTagOn returns the most recent tag reachable from ref.
func (c *Context) LatestTagOn(ref string) (string, error) {
	out, err := c.run("describe", "--tags", "--abbrev=0", ref)
	if err != nil {
		return "", ErrNoTags
	}
	return out, nil
}

// LogSince returns commits on HEAD newer than since, oldest last.
// With since empty it returns the whole history.
func (c *Context) LogSince(since string) ([]commit.Record, error) {
	format := strings.Join([]string{"%H", "%s", "%b", "%an", "%ad"}, fieldSep) + recordSep
	args := []string{"log", "--date=short", "--pretty=format:" + format}
	if since != "" {
		args = append(args, since+"..HEAD")
	}
	out, err := c.run(args...)
	if err != nil {
		return nil, opError("log", err)
	}
	return parseLog(out), nil
}

func parseLog(out string) []commit.Record {
	var records []commit.Record
	for _, chunk := range strings.Split(out, recordSep) {
		chunk = strings.TrimLeft(chunk, "\n")
		if chunk == "" {
			continue
		}
		fields := strings.SplitN(chunk, fieldSep, 5)
		if len(fields) < 5 {
			continue
		}
		records = append(records, commit.Record{
			Hash:    fields[0],
			Subject: fields[1],
			Body:    strings.TrimSpace(fields[2]),
			Author:  fields[3],
			Date:    fields[4],
		})
	}
	return records
}

// Upstream returns the upstream ref of the current branch, or
// ErrNoUpstream when none is configured.
func (c *Context) Upstream() (string, error) {
	out, err := c.run("rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if err != nil {
		return "", ErrNoUpstream
	}
	return out, nil
}

// AheadBehind returns how many commits the current branch is ahead of
// and behind its upstream.
func (c *Context) AheadBehind() (ahead, behind int, err error) {
	out, err := c.run("rev-list", "--left-right", "--count", "@{u}...HEAD")
	if err != nil {
		return 0, 0, ErrNoUpstream
	}
	parts := strings.Fields(out)
	if len(parts) != 2 {
		return 0, 0, opError("rev-list --count", fmt.Errorf("unexpected output %q", out))
	}
	behind, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, opError("rev-list --count", err)
	}
	ahead, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, opError("rev-list --count", err)
	}
	return ahead, behind, nil
}

// IsAncestor reports whether ancestor is reachable from ref.
func (c *Context) IsAncestor(ancestor, ref string) (bool, error) {
	_, err := c.run("merge-base", "--is-ancestor", ancestor, ref)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// StageAll stages every change in the working tree.
func (c *Context) StageAll() error {
	_, err := c.run("add", "-A")
	return opError("add -A", err)
}

// Stage stages the given paths.
func (c *Context) Stage(paths ...string) error {
	_, err := c.run(append([]string{"add", "--"}, paths...)...)
	return opError("add", err)
}

// Commit records staged changes with the given message.
func (c *Context) Commit(message string) error {
	_, err := c.run("commit", "-m", message)
	if err != nil {
		if containsAny(err, "nothing to commit", "nothing added to commit") {
			return ErrNothingToCommit
		}
		return opError("commit", err)
	}
	return nil
}

// RemoteURL returns the fetch URL of remote.
func (c *Context) RemoteURL(remote string) (string, error) {
	out, err := c.run("remote", "get-url", remote)
	if err != nil {
		return "", opError("remote get-url "+remote, err)
	}
	return out, nil
}

// RunTestCommand runs a shell command in the working tree, returning
// combined output and an error on non-zero exit.
func (c *Context) RunTestCommand(command string) (string, error) {
	out, err := c.runner.Run(c.workDir, "sh", "-c", command)
	return out, err
}
