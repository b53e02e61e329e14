package flow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jakreymyers/myrs-git-flow/branch"
	"github.com/jakreymyers/myrs-git-flow/changelog"
	"github.com/jakreymyers/myrs-git-flow/commit"
	"github.com/jakreymyers/myrs-git-flow/git"
	"github.com/jakreymyers/myrs-git-flow/notify"
	"github.com/jakreymyers/myrs-git-flow/version"
)

// CreateFeature starts a feature branch off develop. name may be a
// raw description; it is slugified first.
func (f *Flow) CreateFeature(ctx context.Context, name string) error {
	slug := branch.Slugify(name)
	b, err := branch.Parse("feature/" + slug)
	if err != nil {
		return &StepError{Step: "validate", Message: err.Error(), Err: err}
	}
	return f.createTopic(ctx, b, f.cfg.DevelopBranch, true)
}

// CreateRelease starts a release branch off develop for the given
// version. The version is normalized to its canonical v-prefixed
// form before it names the branch.
func (f *Flow) CreateRelease(ctx context.Context, ver string) error {
	normalized, err := version.Normalize(ver)
	if err != nil {
		return &StepError{
			Step:       "validate",
			Message:    fmt.Sprintf("invalid release version %q", ver),
			Suggestion: "Use a semantic version such as v1.2.0 or v1.2.0-beta.1.",
			Err:        err,
		}
	}
	b, err := branch.Parse("release/" + normalized)
	if err != nil {
		return &StepError{Step: "validate", Message: err.Error(), Err: err}
	}
	return f.createTopic(ctx, b, f.cfg.DevelopBranch, true)
}

// CreateHotfix starts a hotfix branch off main. Hotfixes demand a
// clean production base, so the dirty-tree prompt defaults to abort.
func (f *Flow) CreateHotfix(ctx context.Context, name string) error {
	slug := branch.Slugify(name)
	b, err := branch.Parse("hotfix/" + slug)
	if err != nil {
		return &StepError{Step: "validate", Message: err.Error(), Err: err}
	}
	return f.createTopic(ctx, b, f.cfg.MainBranch, false)
}

// createTopic is the shared create skeleton. dirtyDefaultContinue
// selects the default answer when the working tree is dirty.
func (f *Flow) createTopic(ctx context.Context, b branch.Branch, base string, dirtyDefaultContinue bool) error {
	f.stepf("Creating %s branch %s from %s", b.Kind, b.Name, base)

	exists, err := f.git.BranchExists(b.Name)
	if err != nil {
		return &StepError{Step: "check", Message: "could not check local branches", Err: err}
	}
	if exists {
		return stepErr("check", "branch %s already exists locally", b.Name)
	}
	remoteExists, err := f.git.RemoteBranchExists(f.cfg.Remote, b.Name)
	if err != nil {
		if git.IsHostUnreachable(err) {
			f.warnf("could not reach %s, skipping remote branch check", f.cfg.Remote)
		} else {
			return &StepError{Step: "check", Message: "could not check remote branches", Err: err}
		}
	}
	if remoteExists {
		return stepErr("check", "branch %s already exists on %s", b.Name, f.cfg.Remote)
	}

	snapshot, err := f.snapshot()
	if err != nil {
		return &StepError{Step: "check", Message: "could not read repository state", Err: err}
	}
	if snapshot.Branch.Name != base {
		f.stepf("Switching to %s", base)
		if err := f.git.Checkout(base); err != nil {
			return &StepError{
				Step:       "base",
				Message:    fmt.Sprintf("could not switch to %s", base),
				Details:    err.Error(),
				Suggestion: "Resolve the checkout failure and re-run.",
				Err:        err,
			}
		}
	}

	if err := f.git.Pull(); err != nil {
		if git.IsHostUnreachable(err) || errors.Is(err, git.ErrNoUpstream) {
			f.warnf("could not update %s from %s, continuing with local state", base, f.cfg.Remote)
		} else {
			return &StepError{Step: "base", Message: fmt.Sprintf("could not update %s", base), Details: err.Error(), Err: err}
		}
	}

	if !snapshot.Clean {
		question := fmt.Sprintf("Working tree has %d uncommitted change(s). Continue and carry them onto %s?", len(snapshot.StatusLines), b.Name)
		if !dirtyDefaultContinue {
			question = fmt.Sprintf("Working tree has %d uncommitted change(s); a hotfix should start from a clean %s. Continue anyway?", len(snapshot.StatusLines), base)
		}
		ok, err := f.confirm.Confirm(question, dirtyDefaultContinue)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	if err := f.git.CheckoutNew(b.Name, base); err != nil {
		return &StepError{Step: "create", Message: fmt.Sprintf("could not create %s", b.Name), Details: err.Error(), Err: err}
	}
	f.successf("Created %s", b.Name)

	if b.Kind == branch.KindRelease {
		if err := f.prepareRelease(b.Version); err != nil {
			return err
		}
	}

	if err := f.git.Push(f.cfg.Remote, b.Name, true); err != nil {
		if git.IsHostUnreachable(err) {
			f.warnf("could not push %s, push manually once %s is reachable", b.Name, f.cfg.Remote)
		} else {
			return &StepError{Step: "push", Message: fmt.Sprintf("could not push %s", b.Name), Details: err.Error(), Err: err}
		}
	} else {
		f.successf("Pushed %s with upstream tracking", b.Name)
	}

	ev := notify.NewEvent(notify.EventBranchCreated, b.Name, fmt.Sprintf("created %s branch %s", b.Kind, b.Name))
	ev.Kind = string(b.Kind)
	f.notifyEvent(ctx, ev)

	f.printGuidance(b)
	return nil
}

// prepareRelease bumps the version marker file and drafts the
// changelog section for the release, committing each if it changes.
func (f *Flow) prepareRelease(ver string) error {
	if f.cfg.VersionFile != "" {
		if err := f.bumpVersionFile(ver); err != nil {
			return err
		}
	}
	return f.draftChangelog(ver)
}

// bumpVersionFile rewrites the configured version marker and commits
// it. JSON markers (package.json and friends) get their "version"
// field updated in place; anything else is replaced with the bare
// version number.
func (f *Flow) bumpVersionFile(ver string) error {
	path := filepath.Join(f.git.WorkDir(), f.cfg.VersionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		f.warnf("version file %s not found, skipping bump", f.cfg.VersionFile)
		return nil
	}

	bare := strings.TrimPrefix(ver, "v")
	content := bare + "\n"
	if filepath.Ext(path) == ".json" {
		updated, jsonErr := setJSONVersion(data, bare)
		if jsonErr != nil {
			return &StepError{
				Step:    "version-file",
				Message: fmt.Sprintf("could not update version in %s", f.cfg.VersionFile),
				Details: jsonErr.Error(),
				Err:     jsonErr,
			}
		}
		content = updated
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return &StepError{Step: "version-file", Message: fmt.Sprintf("could not write %s", f.cfg.VersionFile), Err: err}
	}
	if err := f.git.Stage(f.cfg.VersionFile); err != nil {
		return &StepError{Step: "version-file", Message: "could not stage version file", Err: err}
	}

	msg := commit.NewMessage(commit.TypeChore, fmt.Sprintf("bump version to %s", ver)).
		WithScope("release").
		String()
	if err := f.git.Commit(msg); err != nil && !errors.Is(err, git.ErrNothingToCommit) {
		return &StepError{Step: "version-file", Message: "could not commit version bump", Details: err.Error(), Err: err}
	}
	f.successf("Bumped %s to %s", f.cfg.VersionFile, strings.TrimPrefix(ver, "v"))
	return nil
}

var jsonVersionField = regexp.MustCompile(`("version"\s*:\s*)"[^"]*"`)

// setJSONVersion rewrites the "version" field of a JSON marker
// in place, preserving the rest of the file byte for byte.
func setJSONVersion(data []byte, bare string) (string, error) {
	if !jsonVersionField.Match(data) {
		return "", fmt.Errorf("no \"version\" field found")
	}
	return string(jsonVersionField.ReplaceAll(data, []byte(`$1"`+bare+`"`))), nil
}

// draftChangelog renders the section for commits since the last tag
// and merges it into the changelog file.
func (f *Flow) draftChangelog(ver string) error {
	latest, err := f.git.LatestTag()
	if err != nil && !errors.Is(err, git.ErrNoTags) {
		return &StepError{Step: "changelog", Message: "could not determine latest tag", Err: err}
	}

	records, err := f.git.LogSince(latest)
	if err != nil {
		return &StepError{Step: "changelog", Message: "could not read commit history", Err: err}
	}
	classified := commit.ClassifyRecords(records)
	if classified.Total() == 0 {
		f.warnf("no commits since %s, skipping changelog section", displayTag(latest))
		return nil
	}

	section := changelog.RenderSection(ver, time.Now(), classified)
	path := filepath.Join(f.git.WorkDir(), f.cfg.ChangelogFile)
	doc := ""
	if data, readErr := os.ReadFile(path); readErr == nil {
		doc = string(data)
	}

	merged, err := changelog.Merge(doc, section, ver, func(q string) (bool, error) {
		return f.confirm.Confirm(q, false)
	})
	if err != nil {
		if errors.Is(err, changelog.ErrDeclined) {
			f.warnf("kept existing changelog section for %s", ver)
			return nil
		}
		return &StepError{Step: "changelog", Message: "could not update changelog", Err: err}
	}

	if err := os.WriteFile(path, []byte(merged), 0o644); err != nil {
		return &StepError{Step: "changelog", Message: fmt.Sprintf("could not write %s", f.cfg.ChangelogFile), Err: err}
	}
	if err := f.git.Stage(f.cfg.ChangelogFile); err != nil {
		return &StepError{Step: "changelog", Message: "could not stage changelog", Err: err}
	}

	msg := commit.NewMessage(commit.TypeDocs, fmt.Sprintf("update changelog for %s", ver)).
		WithScope("release").
		String()
	if err := f.git.Commit(msg); err != nil && !errors.Is(err, git.ErrNothingToCommit) {
		return &StepError{Step: "changelog", Message: "could not commit changelog", Details: err.Error(), Err: err}
	}
	f.successf("Drafted changelog section for %s (%s)", ver, releaseStats(classified))
	return nil
}

// releaseStats renders a one-line commit breakdown for a drafted
// release, such as "5 commits: 2 features, 1 fix, 1 breaking".
func releaseStats(c commit.Classified) string {
	parts := []string{fmt.Sprintf("%d commit%s", c.Total(), plural(c.Total()))}
	if n := len(c.Of(commit.TypeFeat)); n > 0 {
		parts = append(parts, fmt.Sprintf("%d feature%s", n, plural(n)))
	}
	if n := len(c.Of(commit.TypeFix)); n > 0 {
		parts = append(parts, fmt.Sprintf("%d fix%s", n, pluralEs(n)))
	}
	if n := len(c.Breaking); n > 0 {
		parts = append(parts, fmt.Sprintf("%d breaking", n))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ": " + strings.Join(parts[1:], ", ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralEs(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}

// printGuidance shows role-specific next steps after branch creation.
func (f *Flow) printGuidance(b branch.Branch) {
	f.printf("")
	boldColor.Fprintf(f.out, "%s branch ready.\n", f.kindTitle(b.Kind))
	switch b.Kind {
	case branch.KindFeature:
		f.printf("Commit work with conventional messages, then run 'gitflow finish' to merge into %s.", f.cfg.DevelopBranch)
	case branch.KindRelease:
		f.printf("Review the changelog, land final fixes, then run 'gitflow finish' to merge into %s and %s and tag %s.", f.cfg.MainBranch, f.cfg.DevelopBranch, b.Version)
	case branch.KindHotfix:
		f.printf("Apply the fix, then run 'gitflow finish' to merge into %s and %s with a patch tag.", f.cfg.MainBranch, f.cfg.DevelopBranch)
	}
}

func displayTag(tag string) string {
	if tag == "" {
		return "the beginning"
	}
	return tag
}
