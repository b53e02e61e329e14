package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/config"
	"github.com/jakreymyers/myrs-git-flow/hook"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Evaluate a tool-call guard request from stdin",
	Long: `Read a JSON request {"tool_name": ..., "tool_input": {"command": ...}}
from stdin and write an allow/deny decision to stdout. Commit messages
are linted, new branch names are validated, and direct pushes to main
or develop are denied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewLoader(repoPath).Load()
		guard := hook.NewGuard(cfg.MainBranch, cfg.DevelopBranch)
		return finishRun(guard.Run(os.Stdin, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
