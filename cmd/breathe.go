package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/console"
)

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Run the 4-7-8 breathing exercise in the terminal",
	Long: `Guides you through inhale, hold and exhale phases with a countdown.
Finishing every breath marks the breathing exercise as completed.
With --fast the exercise runs on simulated time and progress is not saved.`,
	RunE: runBreathe,
}

func init() {
	breatheCmd.Flags().Int("breaths", 0, "number of breaths (default: breathing.breaths from the config)")
	breatheCmd.Flags().Bool("fast", false, "run on simulated time without saving progress")
	rootCmd.AddCommand(breatheCmd)
}

func runBreathe(cmd *cobra.Command, args []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}

	pattern := state.Config.Breathing
	if cmd.Flags().Changed("breaths") {
		pattern.Breaths, _ = cmd.Flags().GetInt("breaths")
	}
	if err := pattern.Validate(); err != nil {
		return err
	}
	fast, _ := cmd.Flags().GetBool("fast")

	key := config.BreathingProgressKey
	if exercise, ok := state.BreathingExercise(); ok {
		key = exercise.CompletionKey()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	opts := console.BreathingOptions{
		Out:     out,
		Pattern: pattern,
		Logger:  state.Logger,
		Tick:    1.0,
	}
	if !fast {
		opts.Countdown = console.NewBarCountdown(cmd.ErrOrStderr())
		opts.Progress = state.Progress
		opts.Tick = 1.0 / float64(state.Config.TickRate)
		opts.Realtime = true
	}

	res, err := console.NewBreathingRunner(opts).Run(ctx, key)
	if err != nil {
		return err
	}
	if fast {
		fmt.Fprintf(out, "-- %d breaths, %.0fs simulated\n", res.BreathsDone, res.Elapsed)
	}
	return nil
}
