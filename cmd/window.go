package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gonewx/softskills/pkg/app"
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the trainer window",
	Long: `Opens the exercise catalog. Number keys open a chat or breathing exercise, Enter
continues with the next incomplete scenario, F11 toggles fullscreen.`,
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().String("exercise", "", "open an exercise directly")
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	state, err := loadState()
	if err != nil {
		return err
	}
	exercise, _ := cmd.Flags().GetString("exercise")

	a, err := app.NewApp(app.Config{
		AppConfig: state.Config,
		Exercise:  exercise,
		Logger:    state.Logger,
		State:     state,
	})
	if err != nil {
		return err
	}
	return a.Run()
}
