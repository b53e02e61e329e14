package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/version"
)

var suggestFromTag string

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest the next version from commits since the last tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		s, err := f.SuggestVersion(suggestFromTag)
		if err != nil {
			return finishRun(err)
		}

		for _, notice := range s.Notices {
			color.Yellow("⚠ %s", notice)
		}
		fmt.Printf("Commits considered: %d (since %s)\n", s.Commits, sinceLabel(s.Current))
		if s.Level == version.LevelNone {
			fmt.Println("No version change recommended: no feat, fix or breaking commits.")
			return nil
		}
		fmt.Printf("Bump: %s (%s)\n", s.Level, s.Reason)
		color.Green("Suggested version: %s", s.Next)
		return nil
	},
}

func sinceLabel(tag string) string {
	if tag == "" {
		return "the beginning"
	}
	return tag
}

func init() {
	suggestCmd.Flags().StringVar(&suggestFromTag, "from-tag", "", "base tag to diff against (default: latest)")
	rootCmd.AddCommand(suggestCmd)
}
