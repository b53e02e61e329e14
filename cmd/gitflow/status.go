package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/branch"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show branch, sync and working-tree state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, _, err := buildFlow()
		if err != nil {
			return finishRun(err)
		}
		r, err := f.Status()
		if err != nil {
			return finishRun(err)
		}

		bold := color.New(color.Bold)
		bold.Printf("On branch %s", r.Branch)
		fmt.Printf(" (%s)\n", r.Kind.Description())

		if r.HasUpstream {
			fmt.Printf("  ahead %d, behind %d\n", r.Ahead, r.Behind)
		} else {
			fmt.Println("  no upstream configured")
		}

		if r.Clean() {
			color.Green("  working tree clean")
		} else {
			color.Yellow("  %d modified, %d added, %d deleted", r.Modified, r.Added, r.Deleted)
		}

		if r.LatestTag != "" {
			fmt.Printf("  latest tag: %s\n", r.LatestTag)
		} else {
			fmt.Println("  no tags yet")
		}

		if r.Kind.IsTopic() {
			if r.MergeReady {
				color.Green("  ready to finish")
			} else {
				color.Yellow("  not ready to finish")
			}
		}

		fmt.Println()
		bold.Println("Branches")
		for _, kind := range []branch.Kind{branch.KindMain, branch.KindDevelop, branch.KindFeature, branch.KindRelease, branch.KindHotfix, branch.KindOther} {
			names := r.Branches[kind]
			if len(names) == 0 {
				continue
			}
			sort.Strings(names)
			fmt.Printf("  %s:\n", kind)
			for _, name := range names {
				marker := "  "
				if name == r.Branch {
					marker = "* "
				}
				fmt.Printf("    %s%s\n", marker, name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
