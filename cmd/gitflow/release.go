package main

import "github.com/spf13/cobra"

var releaseCmd = &cobra.Command{
	Use:   "release <version>",
	Short: "Start a release branch off develop",
	Long: `Start a release branch for the given semantic version. The branch is
named release/v<version>; a configured version marker file is bumped
and a changelog section is drafted from commits since the last tag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		return finishRun(f.CreateRelease(cmd.Context(), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}
