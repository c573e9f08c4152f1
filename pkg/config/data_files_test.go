package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 仓库自带的数据文件（相对于本包目录）
const (
	bundledScenarioFile = "../../data/scenarios.yaml"
	bundledExerciseFile = "../../data/exercises.yaml"
)

func TestBundledCatalogs(t *testing.T) {
	scenarios, err := LoadScenarioCatalog(bundledScenarioFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, scenarios.IDs())

	exercises, err := LoadExerciseCatalog(bundledExerciseFile, scenarios)
	require.NoError(t, err)

	tests := []struct {
		exercise      string
		wantScenarios []string
		wantKey       string
		wantSteps     int
		wantWrapUp    bool
	}{
		{"salary-negotiation", []string{"1", "2"}, "salary-negotiation", 0, false},
		{"difficult-conversations", []string{"2"}, "difficult-conversations", 3, false},
		{"conflict-resolution", []string{"3"}, "conflict-resolution", 4, true},
		{"team-motivation", []string{"4"}, "team-motivation", 4, true},
		{"feedback-skills", []string{"4"}, "feedback-skills", 4, true},
		{"performance-review", []string{"5"}, "performance-review", 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.exercise, func(t *testing.T) {
			ex, ok := exercises.Find(tt.exercise)
			require.True(t, ok)
			assert.True(t, ex.IsDialogue())
			assert.Equal(t, tt.wantScenarios, ex.Scenarios)
			assert.Equal(t, tt.wantKey, ex.CompletionKey())

			if tt.wantSteps > 0 {
				s, ok := scenarios.Find(ex.Scenarios[0])
				require.True(t, ok)
				assert.Len(t, s.Steps, tt.wantSteps)
				assert.Equal(t, tt.wantWrapUp, !s.Steps[len(s.Steps)-1].HasChoices(), "最后一步是否为总结")
			}
		})
	}

	breathing, ok := exercises.Find("stress-management")
	require.True(t, ok)
	assert.True(t, breathing.IsBreathing())
	assert.True(t, breathing.IsPlayable())
	assert.False(t, breathing.IsDialogue())
}

func TestBundledScenarios_FeedbackSituations(t *testing.T) {
	scenarios, err := LoadScenarioCatalog(bundledScenarioFile)
	require.NoError(t, err)

	feedback, ok := scenarios.Find("4")
	require.True(t, ok)

	for _, step := range feedback.Steps[:3] {
		require.Len(t, step.Messages, 1, step.ID)
		assert.Equal(t, SpeakerOther, step.Messages[0].Speaker)
		require.Len(t, step.Choices, 3, step.ID)

		correct := 0
		for _, c := range step.Choices {
			assert.NotEmpty(t, c.Feedback)
			if c.IsCorrect {
				correct++
			}
		}
		assert.Equal(t, 1, correct, step.ID)
	}
}
