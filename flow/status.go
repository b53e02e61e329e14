package flow

import (
	"errors"
	"strings"

	"github.com/jakreymyers/myrs-git-flow/branch"
	"github.com/jakreymyers/myrs-git-flow/git"
)

// Report is a read-only snapshot of repository state. Building it
// never mutates anything.
type Report struct {
	Branch      string
	Kind        branch.Kind
	HasUpstream bool
	Ahead       int
	Behind      int

	Modified int
	Added    int
	Deleted  int

	Branches  map[branch.Kind][]string
	LatestTag string

	// MergeReady is set for topic branches: clean tree and in sync
	// with upstream. Features additionally require being based on
	// the current develop.
	MergeReady bool
}

// Clean reports whether the working tree has no changes.
func (r *Report) Clean() bool {
	return r.Modified == 0 && r.Added == 0 && r.Deleted == 0
}

// Status aggregates the current repository state.
func (f *Flow) Status() (*Report, error) {
	snapshot, err := f.snapshot()
	if err != nil {
		return nil, &StepError{Step: "status", Message: "could not read repository state", Err: err}
	}

	r := &Report{
		Branch: snapshot.Branch.Name,
		Kind:   snapshot.Branch.Kind,
	}
	countChanges(snapshot.StatusLines, r)

	if _, err := f.git.Upstream(); err == nil {
		r.HasUpstream = true
		ahead, behind, err := f.git.AheadBehind()
		if err != nil && !errors.Is(err, git.ErrNoUpstream) {
			return nil, &StepError{Step: "status", Message: "could not compare with upstream", Err: err}
		}
		r.Ahead, r.Behind = ahead, behind
	}

	locals, err := f.git.LocalBranches()
	if err != nil {
		return nil, &StepError{Step: "status", Message: "could not list branches", Err: err}
	}
	r.Branches = branch.Group(locals)

	if tag, err := f.git.LatestTag(); err == nil {
		r.LatestTag = tag
	}

	if snapshot.Branch.Kind.IsTopic() {
		r.MergeReady = snapshot.Clean && r.HasUpstream && r.Ahead == 0 && r.Behind == 0
		if snapshot.Branch.Kind == branch.KindFeature {
			// Hotfixes base on main and releases may trail develop,
			// so only features require a current develop ancestor.
			based, _ := f.git.IsAncestor(f.cfg.DevelopBranch, snapshot.Branch.Name)
			r.MergeReady = r.MergeReady && based
		}
	}
	return r, nil
}

// countChanges tallies porcelain status lines by category. Untracked
// files count as additions.
func countChanges(lines []string, r *Report) {
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		code := line[:2]
		switch {
		case code == "??" || strings.ContainsRune(code, 'A'):
			r.Added++
		case strings.ContainsRune(code, 'D'):
			r.Deleted++
		default:
			r.Modified++
		}
	}
}
