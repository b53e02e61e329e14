package flow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jakreymyers/myrs-git-flow/changelog"
	"github.com/jakreymyers/myrs-git-flow/commit"
	"github.com/jakreymyers/myrs-git-flow/git"
	"github.com/jakreymyers/myrs-git-flow/version"
)

// Suggestion is the outcome of version inference over recent commits.
type Suggestion struct {
	// Current is the tag the suggestion is based on, empty when the
	// repository has no tags yet.
	Current string

	// Level is the inferred bump granularity.
	Level version.Level

	// Next is the suggested version, empty when Level is none.
	Next string

	// Reason explains the inference.
	Reason string

	// Notices carries fallback warnings that must be shown.
	Notices []string

	// Commits is the number of classified commits.
	Commits int
}

// SuggestVersion infers the next version from commits since fromTag.
// An empty fromTag uses the latest tag, or the whole history when no
// tag exists.
func (f *Flow) SuggestVersion(fromTag string) (*Suggestion, error) {
	current, err := f.resolveBaseTag(fromTag)
	if err != nil {
		return nil, err
	}

	records, err := f.git.LogSince(current)
	if err != nil {
		return nil, &StepError{Step: "suggest", Message: "could not read commit history", Err: err}
	}
	classified := commit.ClassifyRecords(records)

	s := &Suggestion{Current: current, Commits: classified.Total()}
	s.Level, s.Reason = version.InferLevel(classified)
	if s.Level == version.LevelNone {
		return s, nil
	}

	next, notice := version.Next(current, s.Level)
	s.Next = next
	if notice != "" {
		s.Notices = append(s.Notices, notice)
	}
	return s, nil
}

// GenerateChangelog renders the section for ver from commits since
// fromTag and merges it into the changelog file. Declining the
// overwrite prompt leaves the document untouched and is not an error.
func (f *Flow) GenerateChangelog(ver, fromTag string) error {
	normalized, err := version.Normalize(ver)
	if err != nil {
		return &StepError{
			Step:       "changelog",
			Message:    fmt.Sprintf("invalid version %q", ver),
			Suggestion: "Use a semantic version such as v1.2.0.",
			Err:        err,
		}
	}

	base, err := f.resolveBaseTag(fromTag)
	if err != nil {
		return err
	}
	records, err := f.git.LogSince(base)
	if err != nil {
		return &StepError{Step: "changelog", Message: "could not read commit history", Err: err}
	}
	classified := commit.ClassifyRecords(records)
	if classified.Total() == 0 {
		f.warnf("no commits since %s, nothing to generate", displayTag(base))
		return nil
	}

	section := changelog.RenderSection(normalized, time.Now(), classified)
	path := filepath.Join(f.git.WorkDir(), f.cfg.ChangelogFile)
	doc := ""
	if data, readErr := os.ReadFile(path); readErr == nil {
		doc = string(data)
	}

	merged, err := changelog.Merge(doc, section, normalized, func(q string) (bool, error) {
		return f.confirm.Confirm(q, false)
	})
	if err != nil {
		if errors.Is(err, changelog.ErrDeclined) {
			f.warnf("kept existing changelog section for %s", normalized)
			return nil
		}
		return &StepError{Step: "changelog", Message: "could not update changelog", Err: err}
	}

	if err := os.WriteFile(path, []byte(merged), 0o644); err != nil {
		return &StepError{Step: "changelog", Message: fmt.Sprintf("could not write %s", f.cfg.ChangelogFile), Err: err}
	}
	f.successf("Updated %s with section for %s (%d commits)", f.cfg.ChangelogFile, normalized, classified.Total())
	return nil
}

// RecentCommits returns the newest n commits on the current branch.
func (f *Flow) RecentCommits(n int) ([]commit.Record, error) {
	records, err := f.git.LogSince("")
	if err != nil {
		return nil, &StepError{Step: "history", Message: "could not read commit history", Err: err}
	}
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

// resolveBaseTag picks the tag history starts from: the explicit tag
// when given, otherwise the latest tag, otherwise empty for the whole
// history.
func (f *Flow) resolveBaseTag(fromTag string) (string, error) {
	if fromTag != "" {
		return fromTag, nil
	}
	latest, err := f.git.LatestTag()
	if err != nil {
		if errors.Is(err, git.ErrNoTags) {
			return "", nil
		}
		return "", &StepError{Step: "history", Message: "could not determine latest tag", Err: err}
	}
	return latest, nil
}
