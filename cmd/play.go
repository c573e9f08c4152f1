package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/console"
	"github.com/gonewx/softskills/pkg/game"
)

// 终端输出换行宽度
const consoleWidth = 80

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice a scenario in the terminal",
	Long: `Runs the dialogue in the terminal with the same pacing as the window.
Without flags a picker lists the chat exercises.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().String("scenario", "", "scenario ID to play")
	playCmd.Flags().String("exercise", "", "chat exercise ID to play")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	player := console.NewPlayer(console.Options{
		Out:       out,
		Chooser:   console.PromptChooser{},
		Countdown: console.NewBarCountdown(cmd.ErrOrStderr()),
		Progress:  state.Progress,
		Pacing:    state.Config.Pacing,
		Logger:    state.Logger,
		Tick:      1.0 / float64(state.Config.TickRate),
		Realtime:  true,
		Width:     consoleWidth,
	})

	scenarioID, _ := cmd.Flags().GetString("scenario")
	exerciseID, _ := cmd.Flags().GetString("exercise")

	switch {
	case scenarioID != "":
		scenario, ok := state.Scenarios.Find(scenarioID)
		if !ok {
			return fmt.Errorf("%w %q", config.ErrUnknownScenario, scenarioID)
		}
		_, err := player.Play(ctx, scenario, "")
		return err
	case exerciseID != "":
		exercise, err := findDialogueExercise(state, exerciseID)
		if err != nil {
			return err
		}
		return playExercise(ctx, state, player, exercise, out)
	}

	exercise, err := pickExercise(state)
	if err != nil {
		return err
	}
	if exercise == nil {
		return playNext(ctx, state, player, out)
	}
	return playExercise(ctx, state, player, exercise, out)
}

func findDialogueExercise(state *game.TrainerState, id string) (*config.Exercise, error) {
	exercise, ok := state.Exercises.Find(id)
	if !ok {
		return nil, fmt.Errorf("unknown exercise %q", id)
	}
	if exercise.IsBreathing() {
		return nil, fmt.Errorf("exercise %q is a breathing exercise, run the breathe command", id)
	}
	if !exercise.IsDialogue() {
		return nil, fmt.Errorf("exercise %q is a %s exercise and has no dialogue", id, exercise.Type)
	}
	return exercise, nil
}

// pickExercise 终端选择练习；返回 nil 表示按场景目录继续训练
func pickExercise(state *game.TrainerState) (*config.Exercise, error) {
	exercises := state.DialogueExercises()
	items := []string{"Continue training (next incomplete scenario)"}
	for _, ex := range exercises {
		mark := " "
		if state.Progress.IsCompleted(ex.CompletionKey()) {
			mark = "x"
		}
		items = append(items, fmt.Sprintf("[%s] %s (%s, %s)", mark, ex.Title, ex.Difficulty, ex.Duration))
	}

	sel := promptui.Select{
		Label: "Select an exercise",
		Items: items,
		Size:  len(items),
	}
	idx, _, err := sel.Run()
	if err != nil {
		return nil, fmt.Errorf("exercise selection: %w", err)
	}
	if idx == 0 {
		return nil, nil
	}
	return &exercises[idx-1], nil
}

// playNext 播放整个场景目录中下一个未完成的场景
func playNext(ctx context.Context, state *game.TrainerState, player *console.Player, out io.Writer) error {
	scenario, err := game.NextScenario(state.Scenarios, state.Progress)
	if errors.Is(err, game.ErrAllComplete) {
		fmt.Fprintln(out, "All scenarios completed.")
		return nil
	}
	if err != nil {
		return err
	}
	_, err = player.Play(ctx, scenario, "")
	return err
}

// playExercise 依次播放练习中未完成的场景，全部完成后标记练习
func playExercise(ctx context.Context, state *game.TrainerState, player *console.Player, exercise *config.Exercise, out io.Writer) error {
	for {
		scenario, err := game.NextExerciseScenario(state.Scenarios, exercise, state.Progress)
		if errors.Is(err, game.ErrAllComplete) {
			fmt.Fprintf(out, "Exercise %q completed.\n", exercise.Title)
			return nil
		}
		if err != nil {
			return err
		}

		res, err := player.Play(ctx, scenario, game.ExerciseScenarioKey(exercise, scenario.ID))
		if err != nil {
			return err
		}
		if !res.Completed {
			return nil
		}
		state.MarkExerciseIfDone(exercise)
	}
}
