package main

import "github.com/spf13/cobra"

var hotfixCmd = &cobra.Command{
	Use:   "hotfix <name>",
	Short: "Start a hotfix branch off main",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		return finishRun(f.CreateHotfix(cmd.Context(), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(hotfixCmd)
}
