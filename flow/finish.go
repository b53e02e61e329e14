package flow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jakreymyers/myrs-git-flow/branch"
	"github.com/jakreymyers/myrs-git-flow/changelog"
	"github.com/jakreymyers/myrs-git-flow/git"
	"github.com/jakreymyers/myrs-git-flow/notify"
	"github.com/jakreymyers/myrs-git-flow/publish"
	"github.com/jakreymyers/myrs-git-flow/version"
)

// FinishOptions configures the finish flow.
type FinishOptions struct {
	// KeepBranch skips local and remote branch deletion.
	KeepBranch bool

	// NoTag suppresses tag creation for release and hotfix.
	NoTag bool
}

// Plan is the resolved merge plan for finishing one branch.
type Plan struct {
	Source  string
	Targets []string
	// Tag is empty when no tag will be created.
	Tag string
	// Primary is the target the tag is created on.
	Primary string
}

// MergeTargets is the merge-plan table: the ordered merge targets and
// whether a tag is created, as a pure function of branch kind.
func MergeTargets(kind branch.Kind, main, develop string) (targets []string, tagged bool) {
	switch kind {
	case branch.KindFeature:
		return []string{develop}, false
	case branch.KindRelease, branch.KindHotfix:
		return []string{main, develop}, true
	default:
		return nil, false
	}
}

// buildPlan resolves the full plan for the given branch, including
// the tag value for hotfixes.
func (f *Flow) buildPlan(b branch.Branch, noTag bool) (Plan, error) {
	targets, tagged := MergeTargets(b.Kind, f.cfg.MainBranch, f.cfg.DevelopBranch)
	if targets == nil {
		return Plan{}, stepErr("plan", "branch %s is not a feature, release or hotfix branch", b.Name)
	}

	plan := Plan{Source: b.Name, Targets: targets, Primary: targets[0]}
	if !tagged || noTag {
		return plan, nil
	}

	switch b.Kind {
	case branch.KindRelease:
		if b.Version == "" {
			return Plan{}, stepErr("plan", "release branch %s does not encode a valid version", b.Name)
		}
		plan.Tag = b.Version
	case branch.KindHotfix:
		tag, err := f.hotfixTag()
		if err != nil {
			return Plan{}, err
		}
		plan.Tag = tag
	}
	return plan, nil
}

// hotfixTag computes the patch-incremented tag from the latest tag on
// the remote main branch.
func (f *Flow) hotfixTag() (string, error) {
	if err := f.git.Fetch(f.cfg.Remote); err != nil {
		if !git.IsHostUnreachable(err) {
			return "", &StepError{Step: "plan", Message: "could not fetch " + f.cfg.Remote, Err: err}
		}
		f.warnf("could not reach %s, computing tag from local state", f.cfg.Remote)
	}

	ref := f.cfg.Remote + "/" + f.cfg.MainBranch
	latest, err := f.git.LatestTagOn(ref)
	if err != nil && !errors.Is(err, git.ErrNoTags) {
		return "", &StepError{Step: "plan", Message: "could not determine latest tag on " + ref, Err: err}
	}

	next, notice := version.Next(latest, version.LevelPatch)
	if notice != "" {
		f.warnf("%s", notice)
	}
	return next, nil
}

// Finish merges the current branch per the merge plan for its kind,
// tags when the plan calls for it, and cleans the branch up.
func (f *Flow) Finish(ctx context.Context, opts FinishOptions) error {
	snapshot, err := f.snapshot()
	if err != nil {
		return &StepError{Step: "check", Message: "could not read repository state", Err: err}
	}
	b := snapshot.Branch
	if !b.Kind.IsTopic() {
		return &StepError{
			Step:       "check",
			Message:    fmt.Sprintf("current branch %s is not a feature, release or hotfix branch", b.Name),
			Suggestion: "Switch to the branch you want to finish first.",
		}
	}

	if !snapshot.Clean {
		return &StepError{
			Step:       "check",
			Message:    fmt.Sprintf("working tree has %d uncommitted change(s)", len(snapshot.StatusLines)),
			Suggestion: "Commit or stash your changes before finishing.",
		}
	}

	if err := f.pushPending(b.Name); err != nil {
		return err
	}

	if f.cfg.TestCommand != "" {
		if err := f.runTests(); err != nil {
			return err
		}
	}

	plan, err := f.buildPlan(b, opts.NoTag)
	if err != nil {
		return err
	}

	f.printPlan(plan, opts)
	ok, err := f.confirm.Confirm("Proceed with this plan?", true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}

	for _, target := range plan.Targets {
		if err := f.mergeInto(b, plan, target); err != nil {
			return err
		}
		if target == plan.Primary && plan.Tag != "" {
			if err := f.createTag(b, plan.Tag); err != nil {
				return err
			}
		}
	}

	if opts.KeepBranch {
		f.stepf("Keeping branch %s", b.Name)
	} else {
		f.cleanup(b.Name)
	}

	f.notifyFinish(ctx, b, plan)
	if plan.Tag != "" && f.cfg.PublishReleases {
		f.publishRelease(ctx, b, plan.Tag)
	}

	f.successf("Finished %s", b.Name)
	return nil
}

// pushPending pushes unpushed commits before planning so the remote
// branch reflects what will be merged.
func (f *Flow) pushPending(name string) error {
	if _, err := f.git.Upstream(); err != nil {
		f.stepf("Publishing %s to %s", name, f.cfg.Remote)
		if err := f.git.Push(f.cfg.Remote, name, true); err != nil {
			if git.IsHostUnreachable(err) {
				f.warnf("could not push %s, continuing with local state", name)
				return nil
			}
			return &StepError{Step: "push", Message: fmt.Sprintf("could not push %s", name), Details: err.Error(), Err: err}
		}
		return nil
	}

	ahead, _, err := f.git.AheadBehind()
	if err != nil || ahead == 0 {
		return nil
	}
	f.stepf("Pushing %d unpushed commit(s)", ahead)
	if err := f.git.Push(f.cfg.Remote, name, false); err != nil {
		if git.IsHostUnreachable(err) {
			f.warnf("could not push %s, continuing with local state", name)
			return nil
		}
		return &StepError{Step: "push", Message: fmt.Sprintf("could not push %s", name), Details: err.Error(), Err: err}
	}
	return nil
}

// runTests invokes the configured test command. A failing suite
// aborts unless the user explicitly opts in to continue.
func (f *Flow) runTests() error {
	f.stepf("Running tests: %s", f.cfg.TestCommand)
	out, err := f.git.RunTestCommand(f.cfg.TestCommand)
	if err == nil {
		f.successf("Tests passed")
		return nil
	}

	f.warnf("Tests failed")
	if out != "" {
		f.printf("%s", out)
	}
	ok, cerr := f.confirm.Confirm("Tests failed. Continue anyway?", false)
	if cerr != nil {
		return cerr
	}
	if !ok {
		return &StepError{
			Step:       "test",
			Message:    "test suite failed",
			Details:    err.Error(),
			Suggestion: "Fix the failing tests and re-run, or opt in explicitly to continue despite them.",
			Err:        err,
		}
	}
	f.warnf("Continuing despite failing tests")
	return nil
}

func (f *Flow) printPlan(plan Plan, opts FinishOptions) {
	f.printf("")
	boldColor.Fprintln(f.out, "Merge plan")
	f.printf("  source:  %s", plan.Source)
	f.printf("  targets: %s", strings.Join(plan.Targets, ", "))
	if plan.Tag != "" {
		f.printf("  tag:     %s (on %s)", plan.Tag, plan.Primary)
	} else {
		f.printf("  tag:     none")
	}
	if opts.KeepBranch {
		f.printf("  cleanup: keep branch")
	} else {
		f.printf("  cleanup: delete local and remote branch")
	}
	f.printf("")
}

// mergeInto merges the source branch into one target and pushes it.
// Any merge failure halts the remaining targets.
func (f *Flow) mergeInto(b branch.Branch, plan Plan, target string) error {
	f.stepf("Merging %s into %s", b.Name, target)

	if err := f.git.Checkout(target); err != nil {
		return &StepError{Step: "merge", Message: fmt.Sprintf("could not switch to %s", target), Details: err.Error(), Err: err}
	}
	if err := f.git.Pull(); err != nil {
		if git.IsHostUnreachable(err) || errors.Is(err, git.ErrNoUpstream) {
			f.warnf("could not update %s, merging onto local state", target)
		} else {
			return &StepError{Step: "merge", Message: fmt.Sprintf("could not update %s", target), Details: err.Error(), Err: err}
		}
	}

	if err := f.git.MergeNoFF(b.Name, mergeMessage(b, plan, target)); err != nil {
		suggestion := "Resolve the failure and re-run 'gitflow finish'."
		if git.IsMergeConflict(err) {
			suggestion = fmt.Sprintf("Resolve the conflicts on %s, commit the merge, then re-run 'gitflow finish'.", target)
		}
		return &StepError{
			Step:       "merge",
			Message:    fmt.Sprintf("merge of %s into %s failed", b.Name, target),
			Details:    err.Error(),
			Suggestion: suggestion,
			Err:        err,
		}
	}

	if err := f.git.Push(f.cfg.Remote, target, false); err != nil {
		if git.IsHostUnreachable(err) {
			f.warnf("could not push %s, push manually once %s is reachable", target, f.cfg.Remote)
		} else {
			return &StepError{Step: "merge", Message: fmt.Sprintf("could not push %s", target), Details: err.Error(), Err: err}
		}
	}
	f.successf("Merged into %s", target)
	return nil
}

// createTag creates and pushes the annotated tag. Creation failure is
// fatal; an unreachable host only delays the push.
func (f *Flow) createTag(b branch.Branch, tag string) error {
	if err := f.git.CreateAnnotatedTag(tag, tagMessage(b, tag)); err != nil {
		suggestion := "Resolve the failure and re-run 'gitflow finish'."
		if git.IsAlreadyExists(err) {
			suggestion = fmt.Sprintf("Tag %s already exists. Delete it or finish with --no-tag.", tag)
		}
		return &StepError{
			Step:       "tag",
			Message:    fmt.Sprintf("could not create tag %s", tag),
			Details:    err.Error(),
			Suggestion: suggestion,
			Err:        err,
		}
	}
	if err := f.git.PushTag(f.cfg.Remote, tag); err != nil {
		if git.IsHostUnreachable(err) {
			f.warnf("could not push tag %s, push manually once %s is reachable", tag, f.cfg.Remote)
		} else {
			return &StepError{Step: "tag", Message: fmt.Sprintf("could not push tag %s", tag), Details: err.Error(), Err: err}
		}
	}
	f.successf("Tagged %s", tag)
	return nil
}

// cleanup deletes the finished branch locally and remotely. Failures
// here are warnings; the finish already succeeded.
func (f *Flow) cleanup(name string) {
	if err := f.git.Checkout(f.cfg.DevelopBranch); err != nil {
		f.warnf("could not switch to %s: %v", f.cfg.DevelopBranch, err)
	}
	if err := f.git.DeleteLocalBranch(name, false); err != nil {
		if err := f.git.DeleteLocalBranch(name, true); err != nil {
			f.warnf("could not delete local branch %s: %v", name, err)
		}
	}
	if err := f.git.DeleteRemoteBranch(f.cfg.Remote, name); err != nil {
		f.warnf("could not delete remote branch %s: %v", name, err)
	}
}

func (f *Flow) notifyFinish(ctx context.Context, b branch.Branch, plan Plan) {
	typ := notify.EventBranchFinished
	msg := fmt.Sprintf("finished %s branch %s", b.Kind, b.Name)
	if plan.Tag != "" {
		typ = notify.EventReleaseTagged
		msg = fmt.Sprintf("finished %s branch %s, tagged %s", b.Kind, b.Name, plan.Tag)
	}
	ev := notify.NewEvent(typ, b.Name, msg)
	ev.Kind = string(b.Kind)
	ev.Tag = plan.Tag
	f.notifyEvent(ctx, ev)
}

// publishRelease creates a hosted release for the new tag, using the
// changelog section as the body. Failures are warnings.
func (f *Flow) publishRelease(ctx context.Context, b branch.Branch, tag string) {
	pub := f.publisher
	if pub == nil {
		remoteURL, err := f.git.RemoteURL(f.cfg.Remote)
		if err != nil {
			f.warnf("could not resolve remote URL for release publishing: %v", err)
			return
		}
		pub, err = publish.ForRemote(remoteURL, publish.Tokens{
			GitHub: f.cfg.GitHubToken,
			GitLab: f.cfg.GitLabToken,
		})
		if err != nil {
			f.warnf("release publishing skipped: %v", err)
			return
		}
	}

	body := ""
	if data, err := os.ReadFile(filepath.Join(f.git.WorkDir(), f.cfg.ChangelogFile)); err == nil {
		body = changelog.ExtractSection(string(data), tag)
	}

	prerelease := false
	if v, err := version.Parse(tag); err == nil {
		prerelease = v.Prerelease != ""
	}

	url, err := pub.CreateRelease(ctx, publish.Release{
		Tag:        tag,
		Body:       body,
		Prerelease: prerelease,
	})
	if err != nil {
		f.warnf("could not publish release %s: %v", tag, err)
		return
	}
	f.successf("Published release %s (%s)", tag, url)
}

// mergeMessage is the no-ff commit message for one merge step.
func mergeMessage(b branch.Branch, plan Plan, target string) string {
	msg := fmt.Sprintf("Merge %s into %s", b.Name, target)
	if plan.Tag == "" {
		return msg
	}
	switch b.Kind {
	case branch.KindRelease:
		return msg + " - Release " + plan.Tag
	case branch.KindHotfix:
		return msg + " - Hotfix " + plan.Tag
	}
	return msg
}

func tagMessage(b branch.Branch, tag string) string {
	if b.Kind == branch.KindHotfix {
		return "Hotfix " + tag
	}
	return "Release " + tag
}
