package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gonewx/softskills/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the scenario and exercise catalogs",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("file", "", "scenario catalog to check (default from config)")
	validateCmd.Flags().String("exercises", "", "exercise catalog to check (default from config)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadRuntime()
	if err != nil {
		return err
	}

	scenarioFile, _ := cmd.Flags().GetString("file")
	if scenarioFile == "" {
		scenarioFile = cfg.ScenarioFile
	}
	exerciseFile, _ := cmd.Flags().GetString("exercises")
	if exerciseFile == "" {
		exerciseFile = cfg.ExerciseFile
	}

	scenarios, err := config.LoadScenarioCatalog(scenarioFile)
	if err != nil {
		return err
	}
	steps := 0
	for _, s := range scenarios.Scenarios {
		steps += len(s.Steps)
	}

	exercises, err := config.LoadExerciseCatalog(exerciseFile, scenarios)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scenarios, %d steps\n", scenarioFile, len(scenarios.Scenarios), steps)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d exercises\n", exerciseFile, len(exercises.All()))
	return nil
}
