package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonewx/softskills/pkg/game"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or change saved progress",
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercises and completed IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		summary := game.CatalogProgress(state.Exercises, state.Progress)
		fmt.Fprintf(out, "Exercises: %d/%d completed (%d%%)\n", summary.Completed, summary.Total, summary.Percent)
		for _, ex := range state.Exercises.All() {
			mark := " "
			if state.Progress.IsCompleted(ex.CompletionKey()) {
				mark = "x"
			}
			fmt.Fprintf(out, "  [%s] %-28s %s\n", mark, ex.CompletionKey(), ex.Title)
		}

		fmt.Fprintln(out, "Completed IDs:")
		for _, id := range state.Progress.Completed() {
			fmt.Fprintf(out, "  %s\n", id)
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all completed exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return err
		}
		if err := state.Progress.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

var progressMarkCmd = &cobra.Command{
	Use:   "mark ID",
	Short: "Mark an exercise or scenario ID as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := loadState()
		if err != nil {
			return err
		}
		id := args[0]
		state.Progress.MarkCompleted(id)

		// 多场景练习的最后一个场景被标记时，练习本身也随之完成
		for _, ex := range state.DialogueExercises() {
			state.MarkExerciseIfDone(&ex)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as completed.\n", id)
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressListCmd, progressResetCmd, progressMarkCmd)
	rootCmd.AddCommand(progressCmd)
}
