package scenes

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/entities"
	"github.com/gonewx/softskills/pkg/game"
	"github.com/gonewx/softskills/pkg/systems"
	"github.com/gonewx/softskills/pkg/utils"
)

var dialogueBackground = color.RGBA{R: 24, G: 28, B: 38, A: 255}

// DialogueScene 对话训练场景
//
// exercise 为 nil 时按整个场景目录选择下一个未完成的场景；
// 否则只在该练习绑定的场景中选择。全部完成时显示完成视图而不启动引擎。
type DialogueScene struct {
	state        *game.TrainerState
	sceneManager *game.SceneManager
	exercise     *config.Exercise
	logger       *zap.Logger

	entityManager  *ecs.EntityManager
	timerSystem    *systems.TimerSystem
	dialogueSystem *systems.DialogueSystem
	inputSystem    *systems.DialogueInputSystem
	renderSystem   *systems.DialogueRenderSystem

	dialogueEntity ecs.EntityID
	allComplete    bool
}

// NewDialogueScene 创建对话场景并载入第一个未完成的场景
func NewDialogueScene(state *game.TrainerState, sm *game.SceneManager, exercise *config.Exercise) *DialogueScene {
	em := ecs.NewEntityManager()
	timers := systems.NewTimerSystem(em, state.Logger)
	dialogue := systems.NewDialogueSystem(em, timers, state.Progress, state.Config.Pacing, state.Logger)

	s := &DialogueScene{
		state:          state,
		sceneManager:   sm,
		exercise:       exercise,
		logger:         state.Logger.Named("DialogueScene"),
		entityManager:  em,
		timerSystem:    timers,
		dialogueSystem: dialogue,
		inputSystem:    systems.NewDialogueInputSystem(em, dialogue),
		renderSystem:   systems.NewDialogueRenderSystem(em, dialogue),
	}
	s.startNext()
	return s
}

// startNext 卸载当前对话并载入下一个未完成的场景
func (s *DialogueScene) startNext() {
	if s.dialogueEntity != ecs.InvalidEntity {
		s.dialogueSystem.Unmount(s.dialogueEntity)
		s.dialogueEntity = ecs.InvalidEntity
	}

	scenario, err := s.nextScenario()
	if errors.Is(err, game.ErrAllComplete) {
		s.allComplete = true
		s.logger.Info("all scenarios complete")
		return
	}

	key := ""
	if s.exercise != nil {
		key = game.ExerciseScenarioKey(s.exercise, scenario.ID)
	}

	entityID, err := entities.NewDialogueEntity(s.entityManager, entities.DialogueOptions{
		ProgressKey: key,
		OnComplete:  s.onScenarioComplete,
	})
	if err != nil {
		s.logger.Error("failed to create dialogue entity", zap.Error(err))
		return
	}
	s.dialogueEntity = entityID
	s.dialogueSystem.Initialize(entityID, scenario)
}

func (s *DialogueScene) nextScenario() (*config.Scenario, error) {
	if s.exercise == nil {
		return game.NextScenario(s.state.Scenarios, s.state.Progress)
	}
	return game.NextExerciseScenario(s.state.Scenarios, s.exercise, s.state.Progress)
}

func (s *DialogueScene) onScenarioComplete(progressKey string) {
	if s.state.MarkExerciseIfDone(s.exercise) {
		s.logger.Info("exercise complete", zap.String("exercise", s.exercise.ID))
	}
}

// Update 处理输入并推进对话
func (s *DialogueScene) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.sceneManager.LoadExercise("")
		return
	}

	if s.allComplete {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			s.sceneManager.LoadExercise("")
		}
		return
	}

	// 先记录本帧开始时是否已完成，避免同一次 Enter 既结束展示步骤又跳到下一个场景
	wasComplete := s.Phase() == components.DialoguePhaseComplete

	s.inputSystem.Update(deltaTime)
	s.dialogueSystem.Update(deltaTime)

	if wasComplete && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.startNext()
	}
}

// Phase 当前对话阶段；没有对话时为 Idle
func (s *DialogueScene) Phase() components.DialoguePhase {
	snap, ok := s.dialogueSystem.Snapshot(s.dialogueEntity)
	if !ok {
		return components.DialoguePhaseIdle
	}
	return snap.Phase
}

// AllComplete 是否处于全部完成视图
func (s *DialogueScene) AllComplete() bool {
	return s.allComplete
}

// Draw 绘制对话或完成视图
func (s *DialogueScene) Draw(screen *ebiten.Image) {
	screen.Fill(dialogueBackground)

	bounds := screen.Bounds()
	footerY := bounds.Dy() - utils.DebugLineHeight - 4

	if s.allComplete {
		for i, line := range s.completeLines() {
			ebitenutil.DebugPrintAt(screen, line, 16, 12+i*utils.DebugLineHeight)
		}
		ebitenutil.DebugPrintAt(screen, "Enter: back to catalog", 16, footerY)
		return
	}

	s.renderSystem.Draw(screen)

	footer := "1-9: choose   Enter: continue   R: restart   Esc: catalog"
	if s.Phase() == components.DialoguePhaseComplete {
		footer = "Enter: next scenario   Esc: catalog"
	}
	ebitenutil.DebugPrintAt(screen, footer, 16, footerY)
}

func (s *DialogueScene) completeLines() []string {
	summary := game.CatalogProgress(s.state.Exercises, s.state.Progress)
	title := "All scenarios completed."
	if s.exercise != nil {
		title = fmt.Sprintf("Exercise %q completed.", s.exercise.Title)
	}
	return []string{
		title,
		"",
		fmt.Sprintf("Catalog progress: %d/%d exercises (%d%%)", summary.Completed, summary.Total, summary.Percent),
	}
}

// OnExit 场景被切走时卸载对话，取消所有待触发任务
func (s *DialogueScene) OnExit() {
	if s.dialogueEntity == ecs.InvalidEntity {
		return
	}
	s.dialogueSystem.Unmount(s.dialogueEntity)
	s.dialogueEntity = ecs.InvalidEntity
	s.entityManager.RemoveMarkedEntities()
}
