package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jakreymyers/myrs-git-flow/commit"
	"github.com/jakreymyers/myrs-git-flow/git"
)

// fakeDriver simulates repository state in memory and records every
// mutating call in order.
type fakeDriver struct {
	current        string
	statusLines    []string
	branches       map[string]bool
	remoteBranches map[string]bool
	tags           map[string]bool
	latestTag      string
	latestTagOn    map[string]string
	log            []commit.Record
	hasUpstream    bool
	ahead, behind  int
	ancestors      map[string]bool
	remoteURL      string
	workDir        string

	testOut string
	testErr error

	mergeErr  map[string]error
	pushErr   error
	commitErr error

	deleteLocalErr  error
	deleteRemoteErr error

	calls []string
}

func newFakeDriver(workDir string) *fakeDriver {
	return &fakeDriver{
		current:        "develop",
		branches:       map[string]bool{"main": true, "develop": true},
		remoteBranches: map[string]bool{},
		tags:           map[string]bool{},
		latestTagOn:    map[string]string{},
		ancestors:      map[string]bool{},
		mergeErr:       map[string]error{},
		remoteURL:      "https://github.com/acme/shipper.git",
		workDir:        workDir,
	}
}

func (d *fakeDriver) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *fakeDriver) CurrentBranch() (string, error) { return d.current, nil }
func (d *fakeDriver) Status() ([]string, error)      { return d.statusLines, nil }
func (d *fakeDriver) IsClean() (bool, error)         { return len(d.statusLines) == 0, nil }

func (d *fakeDriver) LocalBranches() ([]string, error) {
	var names []string
	for name := range d.branches {
		names = append(names, name)
	}
	return names, nil
}

func (d *fakeDriver) BranchExists(name string) (bool, error) {
	return d.branches[name], nil
}

func (d *fakeDriver) RemoteBranchExists(remote, name string) (bool, error) {
	return d.remoteBranches[name], nil
}

func (d *fakeDriver) Checkout(name string) error {
	if !d.branches[name] {
		return errors.New("pathspec did not match")
	}
	d.record("checkout %s", name)
	d.current = name
	return nil
}

func (d *fakeDriver) CheckoutNew(name, start string) error {
	if d.branches[name] {
		return git.ErrBranchExists
	}
	d.record("checkout -b %s %s", name, start)
	d.branches[name] = true
	d.current = name
	return nil
}

func (d *fakeDriver) Pull() error {
	d.record("pull on %s", d.current)
	return nil
}

func (d *fakeDriver) Fetch(remote string) error {
	d.record("fetch %s", remote)
	return nil
}

func (d *fakeDriver) MergeNoFF(branch, message string) error {
	if err := d.mergeErr[d.current]; err != nil {
		return err
	}
	d.record("merge %s into %s msg=%q", branch, d.current, message)
	return nil
}

func (d *fakeDriver) Push(remote, branch string, setUpstream bool) error {
	if d.pushErr != nil {
		return d.pushErr
	}
	if setUpstream {
		d.record("push -u %s %s", remote, branch)
		d.hasUpstream = true
	} else {
		d.record("push %s %s", remote, branch)
	}
	d.remoteBranches[branch] = true
	return nil
}

func (d *fakeDriver) PushTag(remote, tag string) error {
	d.record("push tag %s", tag)
	return nil
}

func (d *fakeDriver) DeleteLocalBranch(name string, force bool) error {
	if d.deleteLocalErr != nil {
		return d.deleteLocalErr
	}
	d.record("delete local %s force=%v", name, force)
	delete(d.branches, name)
	return nil
}

func (d *fakeDriver) DeleteRemoteBranch(remote, name string) error {
	if d.deleteRemoteErr != nil {
		return d.deleteRemoteErr
	}
	d.record("delete remote %s", name)
	delete(d.remoteBranches, name)
	return nil
}

func (d *fakeDriver) CreateAnnotatedTag(name, message string) error {
	if d.tags[name] {
		return errors.New("fatal: tag '" + name + "' already exists")
	}
	d.record("tag %s msg=%q", name, message)
	d.tags[name] = true
	return nil
}

func (d *fakeDriver) LatestTag() (string, error) {
	if d.latestTag == "" {
		return "", git.ErrNoTags
	}
	return d.latestTag, nil
}

func (d *fakeDriver) LatestTagOn(ref string) (string, error) {
	if tag, ok := d.latestTagOn[ref]; ok {
		return tag, nil
	}
	return "", git.ErrNoTags
}

func (d *fakeDriver) LogSince(since string) ([]commit.Record, error) {
	return d.log, nil
}

func (d *fakeDriver) Upstream() (string, error) {
	if !d.hasUpstream {
		return "", git.ErrNoUpstream
	}
	return "origin/" + d.current, nil
}

func (d *fakeDriver) AheadBehind() (int, int, error) {
	if !d.hasUpstream {
		return 0, 0, git.ErrNoUpstream
	}
	return d.ahead, d.behind, nil
}

func (d *fakeDriver) IsAncestor(ancestor, ref string) (bool, error) {
	return d.ancestors[ancestor+".."+ref], nil
}

func (d *fakeDriver) Stage(paths ...string) error {
	d.record("stage %s", strings.Join(paths, " "))
	return nil
}

func (d *fakeDriver) Commit(message string) error {
	if d.commitErr != nil {
		return d.commitErr
	}
	d.record("commit %q", message)
	return nil
}

func (d *fakeDriver) RemoteURL(remote string) (string, error) {
	return d.remoteURL, nil
}

func (d *fakeDriver) RunTestCommand(command string) (string, error) {
	d.record("test %s", command)
	return d.testOut, d.testErr
}

func (d *fakeDriver) WorkDir() string { return d.workDir }

// hasCall reports whether any recorded call contains the substring.
func (d *fakeDriver) hasCall(substr string) bool {
	return d.callIndex(substr) >= 0
}

func (d *fakeDriver) callIndex(substr string) int {
	for i, call := range d.calls {
		if strings.Contains(call, substr) {
			return i
		}
	}
	return -1
}

func conventional(subjects ...string) []commit.Record {
	records := make([]commit.Record, len(subjects))
	for i, subject := range subjects {
		records[i] = commit.Record{
			Hash:    fmt.Sprintf("%040d", i),
			Subject: subject,
			Author:  "Test Author",
			Date:    "2026-08-20",
		}
	}
	return records
}
