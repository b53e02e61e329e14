package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jakreymyers/myrs-git-flow/commit"
)

var (
	validateFile string
	validateLast int
)

var validateCmd = &cobra.Command{
	Use:   "validate [message]",
	Short: "Check commit messages against the conventional format",
	Long: `Validate a commit message given as an argument, read from a file
(--file, e.g. a commit-msg hook argument), or taken from the last n
commits (--last). Exits 1 when any message fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		messages, err := collectMessages(args)
		if err != nil {
			return finishRun(err)
		}
		if len(messages) == 0 {
			return finishRun(fmt.Errorf("nothing to validate: pass a message, --file or --last"))
		}

		failed := 0
		for _, msg := range messages {
			subject := strings.SplitN(msg, "\n", 2)[0]
			if err := commit.Lint(msg); err != nil {
				failed++
				color.Red("✗ %s", subject)
				fmt.Printf("  %v\n", err)
			} else {
				color.Green("✓ %s", subject)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d message(s) failed validation", failed, len(messages))
		}
		return nil
	},
}

// collectMessages gathers messages from the argument, file or recent
// history, in that priority order.
func collectMessages(args []string) ([]string, error) {
	if len(args) == 1 {
		return []string{args[0]}, nil
	}
	if validateFile != "" {
		data, err := os.ReadFile(validateFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", validateFile, err)
		}
		return []string{strings.TrimRight(string(data), "\n")}, nil
	}
	if validateLast > 0 {
		f, _, err := buildFlow()
		if err != nil {
			return nil, err
		}
		records, err := f.RecentCommits(validateLast)
		if err != nil {
			return nil, err
		}
		messages := make([]string, 0, len(records))
		for _, r := range records {
			if commit.IsMerge(r.Subject) {
				continue
			}
			msg := r.Subject
			if r.Body != "" {
				msg += "\n\n" + r.Body
			}
			messages = append(messages, msg)
		}
		return messages, nil
	}
	return nil, nil
}

func init() {
	validateCmd.Flags().StringVar(&validateFile, "file", "", "read the message from a file")
	validateCmd.Flags().IntVar(&validateLast, "last", 0, "validate the last n commits")
	rootCmd.AddCommand(validateCmd)
}
