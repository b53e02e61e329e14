package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/config"
	"github.com/jakreymyers/myrs-git-flow/flow"
	"github.com/jakreymyers/myrs-git-flow/git"
	"github.com/jakreymyers/myrs-git-flow/notify"
	"github.com/jakreymyers/myrs-git-flow/prompt"
)

var (
	repoPath  string
	assumeYes bool
)

var rootCmd = &cobra.Command{
	Use:   "gitflow",
	Short: "Git-flow branch lifecycle automation",
	Long: `gitflow drives a git-flow branching workflow: feature branches off
develop, release and hotfix branches merged back into main and develop
with annotated version tags, changelogs generated from conventional
commits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "path to the repository")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to every confirmation")
}

// buildFlow wires a Flow for the target repository.
func buildFlow() (*flow.Flow, *config.Settings, error) {
	gitCtx, err := git.NewContext(repoPath)
	if err != nil {
		return nil, nil, err
	}

	cfg := config.NewLoader(gitCtx.WorkDir()).Load()

	var confirm prompt.Confirmer = prompt.Terminal{}
	if assumeYes {
		confirm = prompt.Auto{Answer: true}
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.WebhookURL, nil)
	}

	f := flow.New(gitCtx, cfg, flow.Options{
		Confirm:  confirm,
		Notifier: notifier,
	})
	return f, cfg, nil
}

// finishRun maps flow results to CLI behavior: a user abort is a
// clean no-op, everything else surfaces as a failure.
func finishRun(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, flow.ErrAborted) {
		fmt.Println("Aborted.")
		return nil
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
