package scenes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/game"
)

func oneStep(id string) config.Scenario {
	return config.Scenario{
		ID:    id,
		Title: "Scenario " + id,
		Steps: []config.DialogueStep{{
			ID: "step1",
			Messages: []config.Message{
				{ID: "m1", Speaker: config.SpeakerOther, Text: "Hello"},
			},
			Prompt: "Reply?",
			Choices: []config.Choice{
				{ID: "a", Text: "Hi", IsCorrect: true, Feedback: "Good"},
			},
		}},
	}
}

// newTestState 构建仅内存进度的训练状态
func newTestState(t *testing.T) *game.TrainerState {
	t.Helper()
	scenarios := &config.ScenarioCatalog{
		Scenarios: []config.Scenario{oneStep("1"), oneStep("2"), oneStep("3")},
	}
	exercises := &config.ExerciseCatalog{
		Categories: []config.ExerciseCategory{
			{
				ID:    "management",
				Title: "Management",
				Exercises: []config.Exercise{
					{ID: "negotiation", Title: "Negotiation", Difficulty: config.DifficultyBeginner,
						Duration: "10 min", Type: config.ExerciseTypeChat, Scenarios: []string{"1", "2"}},
					{ID: "feedback", Title: "Feedback", Difficulty: config.DifficultyIntermediate,
						Duration: "5 min", Type: config.ExerciseTypeQuiz},
				},
			},
			{
				ID:    "leadership",
				Title: "Leadership",
				Exercises: []config.Exercise{
					{ID: "conflict", Title: "Conflict", Difficulty: config.DifficultyAdvanced,
						Duration: "15 min", Type: config.ExerciseTypeChat, Scenarios: []string{"3"},
						ProgressKey: "conflict-resolution"},
				},
			},
		},
	}
	return game.NewTrainerStateWithStore(config.DefaultAppConfig(), scenarios, exercises, nil, zap.NewNop())
}

func TestSceneFactory(t *testing.T) {
	state := newTestState(t)
	sm := game.NewSceneManager(nil)
	factory := NewSceneFactory(state, sm)

	tests := []struct {
		name     string
		id       string
		wantType string
	}{
		{"空 ID 为目录", "", "catalog"},
		{"整体训练", SessionSceneID, "dialogue"},
		{"对话练习", "negotiation", "dialogue"},
		{"非对话练习", "feedback", "nil"},
		{"未知练习", "missing", "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := factory(tt.id)
			switch tt.wantType {
			case "catalog":
				assert.IsType(t, &CatalogScene{}, scene)
			case "dialogue":
				assert.IsType(t, &DialogueScene{}, scene)
			default:
				assert.Nil(t, scene)
			}
			if exitable, ok := scene.(game.Exitable); ok {
				exitable.OnExit()
			}
		})
	}
}

func TestCatalogLines(t *testing.T) {
	state := newTestState(t)
	state.Progress.MarkCompleted("conflict-resolution")

	lines := CatalogLines(state.Exercises, state.DialogueExercises(), state.Progress)
	text := strings.Join(lines, "\n")

	assert.Contains(t, text, "Progress: 1/3 exercises (33%)")
	assert.Contains(t, text, " 1) [ ] Negotiation  (beginner, 10 min, chat)")
	assert.Contains(t, text, "    [ ] Feedback  (intermediate, 5 min, quiz)")
	assert.Contains(t, text, " 2) [x] Conflict  (advanced, 15 min, chat)")
	assert.Equal(t, "1-9: open exercise   Enter: continue training", lines[len(lines)-1])
}

func TestCatalogScene_RefreshesOnProgress(t *testing.T) {
	state := newTestState(t)
	scene := NewCatalogScene(state, game.NewSceneManager(nil))

	assert.Contains(t, strings.Join(scene.Lines(), "\n"), "Progress: 0/3")

	state.Progress.MarkCompleted("negotiation")
	assert.Contains(t, strings.Join(scene.Lines(), "\n"), "Progress: 1/3")

	// 退出后不再刷新
	scene.OnExit()
	state.Progress.MarkCompleted("feedback")
	assert.Contains(t, strings.Join(scene.Lines(), "\n"), "Progress: 1/3")
}

func TestCatalogScene_Select(t *testing.T) {
	state := newTestState(t)
	sm := game.NewSceneManager(nil)
	sm.SetSceneFactory(NewSceneFactory(state, sm))

	catalog := NewCatalogScene(state, sm)
	sm.SwitchTo(catalog)

	assert.False(t, catalog.Select(0))
	assert.False(t, catalog.Select(3), "只有两个对话练习")
	assert.Same(t, catalog, sm.GetCurrentScene())

	require.True(t, catalog.Select(2))
	dialogue, ok := sm.GetCurrentScene().(*DialogueScene)
	require.True(t, ok)
	assert.Equal(t, "conflict", dialogue.exercise.ID)
	sm.Shutdown()
}

func TestDialogueScene_StartsFirstIncomplete(t *testing.T) {
	state := newTestState(t)
	state.Progress.MarkCompleted("1")

	scene := NewDialogueScene(state, game.NewSceneManager(nil), nil)
	defer scene.OnExit()

	require.False(t, scene.AllComplete())
	assert.Equal(t, components.DialoguePhaseRevealing, scene.Phase())

	snap, ok := scene.dialogueSystem.Snapshot(scene.dialogueEntity)
	require.True(t, ok)
	assert.Equal(t, "2", snap.ScenarioID)
	assert.Equal(t, "2", snap.ProgressKey)
}

func TestDialogueScene_ExerciseKeys(t *testing.T) {
	state := newTestState(t)
	exercise, ok := state.Exercises.Find("conflict")
	require.True(t, ok)

	scene := NewDialogueScene(state, game.NewSceneManager(nil), exercise)
	defer scene.OnExit()

	snap, ok := scene.dialogueSystem.Snapshot(scene.dialogueEntity)
	require.True(t, ok)
	assert.Equal(t, "3", snap.ScenarioID)
	assert.Equal(t, "conflict-resolution", snap.ProgressKey, "单场景练习使用练习自己的进度键")
}

func TestDialogueScene_AllComplete(t *testing.T) {
	state := newTestState(t)
	state.Progress.MarkCompleted("1")
	state.Progress.MarkCompleted("2")

	exercise, ok := state.Exercises.Find("negotiation")
	require.True(t, ok)

	scene := NewDialogueScene(state, game.NewSceneManager(nil), exercise)
	assert.True(t, scene.AllComplete())
	assert.Equal(t, components.DialoguePhaseIdle, scene.Phase())
	assert.Equal(t, `Exercise "Negotiation" completed.`, scene.completeLines()[0])
	scene.OnExit()
}

func TestDialogueScene_CompletingLastScenarioMarksExercise(t *testing.T) {
	state := newTestState(t)
	state.Progress.MarkCompleted("1")

	exercise, ok := state.Exercises.Find("negotiation")
	require.True(t, ok)

	scene := NewDialogueScene(state, game.NewSceneManager(nil), exercise)
	defer scene.OnExit()

	// 1s 显示消息，1s 阅读停顿后出现选项
	for i := 0; i < 4; i++ {
		scene.dialogueSystem.Update(0.5)
	}
	require.Equal(t, components.DialoguePhaseAwaitingChoice, scene.Phase())

	scene.dialogueSystem.SelectChoice(scene.dialogueEntity, "a")
	for i := 0; i < 6; i++ {
		scene.dialogueSystem.Update(0.5)
	}

	assert.Equal(t, components.DialoguePhaseComplete, scene.Phase())
	assert.True(t, state.Progress.IsCompleted("2"))
	assert.True(t, state.Progress.IsCompleted("negotiation"))
}

// withBreathing 在 Leadership 分类追加一个呼吸练习
func withBreathing(state *game.TrainerState) *game.TrainerState {
	cat := &state.Exercises.Categories[1]
	cat.Exercises = append(cat.Exercises, config.Exercise{
		ID: "calm", Title: "Calm down", Difficulty: config.DifficultyBeginner,
		Duration: "2 min", Type: config.ExerciseTypeBreathing, ProgressKey: "stress-management",
	})
	return state
}

func TestSceneFactory_Breathing(t *testing.T) {
	state := withBreathing(newTestState(t))
	factory := NewSceneFactory(state, game.NewSceneManager(nil))

	scene := factory("calm")
	require.IsType(t, &BreathingScene{}, scene)
	scene.(*BreathingScene).OnExit()
}

func TestCatalogScene_SelectBreathing(t *testing.T) {
	state := withBreathing(newTestState(t))
	sm := game.NewSceneManager(nil)
	sm.SetSceneFactory(NewSceneFactory(state, sm))

	catalog := NewCatalogScene(state, sm)
	sm.SwitchTo(catalog)
	assert.Contains(t, strings.Join(catalog.Lines(), "\n"), " 3) [ ] Calm down  (beginner, 2 min, breathing)")

	require.True(t, catalog.Select(3))
	breathing, ok := sm.GetCurrentScene().(*BreathingScene)
	require.True(t, ok)
	assert.Equal(t, "calm", breathing.exercise.ID)
	sm.Shutdown()
}

func TestBreathingScene_MarksProgressWhenFinished(t *testing.T) {
	state := withBreathing(newTestState(t))
	exercise, ok := state.Exercises.Find("calm")
	require.True(t, ok)

	scene := NewBreathingScene(state, game.NewSceneManager(nil), exercise)
	defer scene.OnExit()

	snap, ok := scene.Snapshot()
	require.True(t, ok)
	assert.Equal(t, components.BreathingPhaseRest, snap.Phase)
	assert.Equal(t, "stress-management", snap.ProgressKey)

	scene.Start()
	cycle := state.Config.Breathing.CycleSeconds() * state.Config.Breathing.Breaths
	for i := 0; i < cycle-1; i++ {
		scene.breathingSystem.Update(1.0)
	}
	assert.False(t, state.Progress.IsCompleted("stress-management"))

	scene.breathingSystem.Update(1.0)
	snap, _ = scene.Snapshot()
	assert.True(t, snap.Finished())
	assert.True(t, state.Progress.IsCompleted("stress-management"))
}

func TestBreathingScene_ExitDiscardsRun(t *testing.T) {
	state := withBreathing(newTestState(t))
	exercise, _ := state.Exercises.Find("calm")

	scene := NewBreathingScene(state, game.NewSceneManager(nil), exercise)
	scene.Start()
	scene.breathingSystem.Update(1.0)
	scene.OnExit()

	for i := 0; i < 200; i++ {
		scene.breathingSystem.Update(1.0)
	}
	_, ok := scene.Snapshot()
	assert.False(t, ok)
	assert.False(t, state.Progress.IsCompleted("stress-management"))
}
