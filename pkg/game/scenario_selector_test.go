package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gonewx/softskills/pkg/config"
)

type completedSet map[string]bool

func (c completedSet) IsCompleted(id string) bool { return c[id] }

func testCatalog() *config.ScenarioCatalog {
	step := config.DialogueStep{ID: "s", Choices: []config.Choice{{ID: "a", IsCorrect: true}}}
	return &config.ScenarioCatalog{Scenarios: []config.Scenario{
		{ID: "1", Steps: []config.DialogueStep{step}},
		{ID: "2", Steps: []config.DialogueStep{step}},
		{ID: "3", Steps: []config.DialogueStep{step}},
	}}
}

func TestNextScenario(t *testing.T) {
	tests := []struct {
		name      string
		completed completedSet
		wantID    string
		wantErr   error
	}{
		{name: "全新会话选第一个", completed: completedSet{}, wantID: "1"},
		{name: "跳过已完成", completed: completedSet{"1": true}, wantID: "2"},
		{name: "按目录顺序而不是完成顺序", completed: completedSet{"2": true}, wantID: "1"},
		{name: "全部完成", completed: completedSet{"1": true, "2": true, "3": true}, wantErr: ErrAllComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario, err := NextScenario(testCatalog(), tt.completed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, scenario)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, scenario.ID)
		})
	}
}

func TestNextScenario_EmptyCatalog(t *testing.T) {
	_, err := NextScenario(&config.ScenarioCatalog{}, completedSet{})
	assert.ErrorIs(t, err, ErrAllComplete)

	_, err = NextScenario(nil, nil)
	assert.ErrorIs(t, err, ErrAllComplete)
}

func TestNextScenarioOf(t *testing.T) {
	scenario, err := NextScenarioOf(testCatalog(), []string{"missing", "3", "1"}, completedSet{"3": true})
	require.NoError(t, err)
	assert.Equal(t, "1", scenario.ID)
}

func TestExerciseKeysAndDone(t *testing.T) {
	single := &config.Exercise{ID: "conflict", Scenarios: []string{"3"}, ProgressKey: "conflict-resolution"}
	multi := &config.Exercise{ID: "salary", Scenarios: []string{"1", "2"}}

	assert.Equal(t, "conflict-resolution", ExerciseScenarioKey(single, "3"))
	assert.Equal(t, "2", ExerciseScenarioKey(multi, "2"))

	assert.False(t, ExerciseDone(single, completedSet{"3": true}))
	assert.True(t, ExerciseDone(single, completedSet{"conflict-resolution": true}))
	assert.False(t, ExerciseDone(multi, completedSet{"1": true}))
	assert.True(t, ExerciseDone(multi, completedSet{"1": true, "2": true}))
}

func TestCatalogProgress(t *testing.T) {
	catalog := &config.ExerciseCatalog{Categories: []config.ExerciseCategory{
		{ID: "a", Exercises: []config.Exercise{{ID: "x"}, {ID: "y", ProgressKey: "y-key"}}},
		{ID: "b", Exercises: []config.Exercise{{ID: "z"}}},
	}}

	summary := CatalogProgress(catalog, completedSet{"x": true, "y-key": true})
	assert.Equal(t, ProgressSummary{Completed: 2, Total: 3, Percent: 67}, summary)

	assert.Equal(t, ProgressSummary{}, CatalogProgress(nil, completedSet{}))
}

func TestNextExerciseScenario(t *testing.T) {
	single := &config.Exercise{ID: "conflict", Scenarios: []string{"3"}, ProgressKey: "conflict-resolution"}
	multi := &config.Exercise{ID: "salary", Scenarios: []string{"1", "2"}}

	// 场景 3 在目录训练中完成过，但练习自己的键还没写入
	scenario, err := NextExerciseScenario(testCatalog(), single, completedSet{"3": true})
	require.NoError(t, err)
	assert.Equal(t, "3", scenario.ID)

	_, err = NextExerciseScenario(testCatalog(), single, completedSet{"conflict-resolution": true})
	assert.ErrorIs(t, err, ErrAllComplete)

	scenario, err = NextExerciseScenario(testCatalog(), multi, completedSet{"1": true})
	require.NoError(t, err)
	assert.Equal(t, "2", scenario.ID)

	_, err = NextExerciseScenario(testCatalog(), multi, completedSet{"1": true, "2": true})
	assert.ErrorIs(t, err, ErrAllComplete)
}

func TestNextExerciseScenario_SharedScenario(t *testing.T) {
	catalog := &config.ScenarioCatalog{Scenarios: []config.Scenario{
		{ID: "4", Steps: []config.DialogueStep{{ID: "s", Choices: []config.Choice{{ID: "a", IsCorrect: true}}}}},
	}}
	motivation := &config.Exercise{ID: "team-motivation", Type: config.ExerciseTypeChat,
		Scenarios: []string{"4"}, ProgressKey: "team-motivation"}
	feedback := &config.Exercise{ID: "feedback-skills", Type: config.ExerciseTypeChat,
		Scenarios: []string{"4"}, ProgressKey: "feedback-skills"}

	progress := completedSet{}
	for _, ex := range []*config.Exercise{motivation, feedback} {
		scenario, err := NextExerciseScenario(catalog, ex, progress)
		require.NoError(t, err)
		assert.Equal(t, "4", scenario.ID)
		assert.Equal(t, ex.ProgressKey, ExerciseScenarioKey(ex, "4"))
	}

	// 两个练习共用同一个场景，但各自记录完成
	progress["team-motivation"] = true
	_, err := NextExerciseScenario(catalog, motivation, progress)
	assert.ErrorIs(t, err, ErrAllComplete)

	scenario, err := NextExerciseScenario(catalog, feedback, progress)
	require.NoError(t, err)
	assert.Equal(t, "4", scenario.ID)
}

func TestNextExerciseScenario_BundledData(t *testing.T) {
	scenarios, err := config.LoadScenarioCatalog("../../data/scenarios.yaml")
	require.NoError(t, err)
	exercises, err := config.LoadExerciseCatalog("../../data/exercises.yaml", scenarios)
	require.NoError(t, err)

	tests := []struct {
		exercise string
		wantID   string
	}{
		{"team-motivation", "4"},
		{"feedback-skills", "4"},
		{"performance-review", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.exercise, func(t *testing.T) {
			ex, ok := exercises.Find(tt.exercise)
			require.True(t, ok)
			scenario, err := NextExerciseScenario(scenarios, ex, completedSet{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, scenario.ID)
		})
	}
}
