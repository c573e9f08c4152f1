package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/console"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run scenarios headless and print the transcript",
	Long: `Plays scenarios with scripted answers on simulated time. Saved progress
is not touched.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().String("scenario", "", "scenario ID (default: every scenario in catalog order)")
	simulateCmd.Flags().Bool("wrong-first", false, "pick a wrong answer before the correct one at every decision point")
	simulateCmd.Flags().Float64("tick", console.DefaultTick, "simulated seconds per tick")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}

	scenarioID, _ := cmd.Flags().GetString("scenario")
	wrongFirst, _ := cmd.Flags().GetBool("wrong-first")
	tick, _ := cmd.Flags().GetFloat64("tick")

	var scenarios []*config.Scenario
	if scenarioID != "" {
		s, ok := state.Scenarios.Find(scenarioID)
		if !ok {
			return fmt.Errorf("%w %q", config.ErrUnknownScenario, scenarioID)
		}
		scenarios = append(scenarios, s)
	} else {
		for i := range state.Scenarios.Scenarios {
			scenarios = append(scenarios, &state.Scenarios.Scenarios[i])
		}
	}

	out := cmd.OutOrStdout()
	player := console.NewPlayer(console.Options{
		Out:     out,
		Chooser: &console.ScriptedChooser{WrongFirst: wrongFirst},
		Pacing:  state.Config.Pacing,
		Logger:  state.Logger,
		Tick:    tick,
		Width:   consoleWidth,
	})

	for i, s := range scenarios {
		if i > 0 {
			fmt.Fprintln(out)
		}
		res, err := player.Play(cmd.Context(), s, "")
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.ID, err)
		}
		fmt.Fprintf(out, "-- %s: %d/%d correct, %.1fs simulated\n",
			res.ScenarioID, res.CorrectAnswers, res.TotalAttempts, res.Elapsed)
	}
	return nil
}
