// Package flow orchestrates the branch lifecycle: creating feature,
// release and hotfix branches, finishing them through ordered no-ff
// merges, and reporting repository status. All VCS access goes
// through the injected Driver and all questions through the injected
// Confirmer, so every flow is testable without a repository or a
// terminal.
package flow

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jakreymyers/myrs-git-flow/branch"
	"github.com/jakreymyers/myrs-git-flow/config"
	"github.com/jakreymyers/myrs-git-flow/notify"
	"github.com/jakreymyers/myrs-git-flow/prompt"
	"github.com/jakreymyers/myrs-git-flow/publish"
)

// Flow drives the branch lifecycle for one repository.
type Flow struct {
	git       Driver
	cfg       *config.Settings
	confirm   prompt.Confirmer
	out       io.Writer
	notifier  notify.Notifier
	publisher publish.Publisher
	logger    *slog.Logger

	titler cases.Caser
}

// Options configures optional collaborators.
type Options struct {
	// Confirm answers interactive questions. Defaults to answering
	// every question with its default.
	Confirm prompt.Confirmer

	// Out receives user-facing progress output. Defaults to stdout.
	Out io.Writer

	// Notifier receives lifecycle events. Defaults to a no-op.
	Notifier notify.Notifier

	// Publisher creates hosted releases after tagging. When nil and
	// publishing is enabled, one is detected from the remote URL.
	Publisher publish.Publisher

	// Logger receives structured diagnostics. Defaults to slog's
	// default logger.
	Logger *slog.Logger
}

// New creates a Flow over the given driver and settings.
func New(d Driver, cfg *config.Settings, opts Options) *Flow {
	f := &Flow{
		git:       d,
		cfg:       cfg,
		confirm:   opts.Confirm,
		out:       opts.Out,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		titler:    cases.Title(language.English),
	}
	if f.confirm == nil {
		f.confirm = prompt.Default{}
	}
	if f.out == nil {
		f.out = os.Stdout
	}
	if f.notifier == nil {
		f.notifier = notify.NopNotifier{}
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// RepoContext is a snapshot of repository state, refreshed only at
// defined points so no step reads state lazily mid-operation.
type RepoContext struct {
	Branch      branch.Branch
	Clean       bool
	StatusLines []string
}

// snapshot reads the current branch and working tree state.
func (f *Flow) snapshot() (RepoContext, error) {
	name, err := f.git.CurrentBranch()
	if err != nil {
		return RepoContext{}, err
	}
	lines, err := f.git.Status()
	if err != nil {
		return RepoContext{}, err
	}
	b := branch.Branch{Name: name, Kind: branch.Classify(name)}
	if b.Kind == branch.KindRelease {
		if parsed, perr := branch.Parse(name); perr == nil {
			b = parsed
		}
	}
	return RepoContext{Branch: b, Clean: len(lines) == 0, StatusLines: lines}, nil
}

// kindTitle renders a branch kind for display, e.g. "Feature".
func (f *Flow) kindTitle(k branch.Kind) string {
	return f.titler.String(string(k))
}

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	stepColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

func (f *Flow) successf(format string, args ...any) {
	successColor.Fprintf(f.out, "✓ "+format+"\n", args...)
}

func (f *Flow) warnf(format string, args ...any) {
	warnColor.Fprintf(f.out, "⚠ "+format+"\n", args...)
}

func (f *Flow) stepf(format string, args ...any) {
	stepColor.Fprintf(f.out, "→ "+format+"\n", args...)
}

func (f *Flow) printf(format string, args ...any) {
	color.New().Fprintf(f.out, format+"\n", args...)
}

// notifyEvent fires a lifecycle event; delivery failures are logged,
// never surfaced.
func (f *Flow) notifyEvent(ctx context.Context, ev notify.Event) {
	if err := f.notifier.Notify(ctx, ev); err != nil {
		f.logger.Warn("notification failed", "error", err, "event_type", ev.Type)
	}
}
