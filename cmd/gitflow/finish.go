package main

import (
	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/flow"
)

var (
	finishNoDelete bool
	finishNoTag    bool
)

var finishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Merge the current branch per its kind and clean it up",
	Long: `Finish the current feature, release or hotfix branch. Features merge
into develop; releases and hotfixes merge into main and develop and
create an annotated version tag. The full merge plan is shown and
confirmed before anything runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		return finishRun(f.Finish(cmd.Context(), flow.FinishOptions{
			KeepBranch: finishNoDelete,
			NoTag:      finishNoTag,
		}))
	},
}

func init() {
	finishCmd.Flags().BoolVar(&finishNoDelete, "no-delete", false, "keep the branch after merging")
	finishCmd.Flags().BoolVar(&finishNoTag, "no-tag", false, "skip tag creation")
	rootCmd.AddCommand(finishCmd)
}
