package main

import "github.com/spf13/cobra"

var featureCmd = &cobra.Command{
	Use:   "feature <name>",
	Short: "Start a feature branch off develop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		return finishRun(f.CreateFeature(cmd.Context(), args[0]))
	},
}

func init() {
	rootCmd.AddCommand(featureCmd)
}
