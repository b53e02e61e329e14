// gitflow automates a git-flow branching workflow: feature, release
// and hotfix branches with conventional-commit-driven versioning and
// changelog generation.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
