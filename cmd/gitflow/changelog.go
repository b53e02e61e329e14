package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/version"
)

var (
	changelogVersion string
	changelogFromTag string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Generate a changelog section from conventional commits",
	Long: `Render a changelog section for a version from the commits since the
last tag (or --from-tag) and merge it into the changelog file. Without
--version, the version is inferred from the commits. Regenerating an
existing section prompts before replacing it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}

		ver := changelogVersion
		if ver == "" {
			s, err := f.SuggestVersion(changelogFromTag)
			if err != nil {
				return finishRun(err)
			}
			if s.Level == version.LevelNone {
				fmt.Println("No release-worthy commits found; pass --version to generate anyway.")
				return nil
			}
			ver = s.Next
		}
		return finishRun(f.GenerateChangelog(ver, changelogFromTag))
	},
}

func init() {
	changelogCmd.Flags().StringVar(&changelogVersion, "version", "", "version for the new section (default: inferred)")
	changelogCmd.Flags().StringVar(&changelogFromTag, "from-tag", "", "base tag to diff against (default: latest)")
	rootCmd.AddCommand(changelogCmd)
}
