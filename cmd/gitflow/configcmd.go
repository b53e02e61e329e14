package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/config"
	"github.com/jakreymyers/myrs-git-flow/git"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change gitflow settings",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all settings and where each value comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		values := map[string]string{
			"main_branch":      cfg.MainBranch,
			"develop_branch":   cfg.DevelopBranch,
			"remote":           cfg.Remote,
			"test_command":     cfg.TestCommand,
			"changelog_file":   cfg.ChangelogFile,
			"version_file":     cfg.VersionFile,
			"webhook_url":      cfg.WebhookURL,
			"publish_releases": fmt.Sprintf("%v", cfg.PublishReleases),
			"github_token":     redact(cfg.GitHubToken),
			"gitlab_token":     redact(cfg.GitLabToken),
		}
		for _, key := range config.Keys {
			fmt.Printf("%-17s %-20q (%s)\n", key, values[key], cfg.Source(key))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key in the local .gitflow.yaml (or --global)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if configGlobal {
			return finishRun(config.SaveGlobal(key, value))
		}
		gitCtx, err := git.NewContext(repoPath)
		if err != nil {
			return finishRun(err)
		}
		return finishRun(config.SaveLocal(gitCtx.WorkDir(), key, value))
	},
}

func redact(token string) string {
	if token == "" {
		return ""
	}
	return "<set>"
}

func init() {
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to ~/.config/gitflow/config.yaml")
	configCmd.AddCommand(configListCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
