package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/entities"
	"github.com/gonewx/softskills/pkg/game"
	"github.com/gonewx/softskills/pkg/systems"
	"github.com/gonewx/softskills/pkg/utils"
)

var breathingBackground = color.RGBA{R: 22, G: 40, B: 48, A: 255}

// BreathingScene 呼吸练习场景
// Enter 开始（或完成后重来），S 停止，Esc 返回目录
type BreathingScene struct {
	state        *game.TrainerState
	sceneManager *game.SceneManager
	exercise     *config.Exercise
	logger       *zap.Logger

	entityManager   *ecs.EntityManager
	breathingSystem *systems.BreathingSystem
	entity          ecs.EntityID
}

// NewBreathingScene 创建处于 Rest 的呼吸练习
func NewBreathingScene(state *game.TrainerState, sm *game.SceneManager, exercise *config.Exercise) *BreathingScene {
	em := ecs.NewEntityManager()
	timers := systems.NewTimerSystem(em, state.Logger)

	s := &BreathingScene{
		state:           state,
		sceneManager:    sm,
		exercise:        exercise,
		logger:          state.Logger.Named("BreathingScene"),
		entityManager:   em,
		breathingSystem: systems.NewBreathingSystem(em, timers, state.Progress, state.Config.Breathing, state.Logger),
	}

	entityID, err := entities.NewBreathingEntity(em, entities.BreathingOptions{
		ProgressKey: exercise.CompletionKey(),
		OnComplete:  s.onComplete,
	})
	if err != nil {
		s.logger.Error("failed to create breathing entity", zap.Error(err))
		return s
	}
	s.entity = entityID
	return s
}

func (s *BreathingScene) onComplete(progressKey string) {
	s.logger.Info("exercise complete", zap.String("exercise", s.exercise.ID), zap.String("progress_key", progressKey))
}

// Start 开始练习
func (s *BreathingScene) Start() {
	s.breathingSystem.Start(s.entity)
}

// Snapshot 当前练习状态
func (s *BreathingScene) Snapshot() (systems.BreathingSnapshot, bool) {
	return s.breathingSystem.Snapshot(s.entity)
}

// Update 处理按键并推进秒表
func (s *BreathingScene) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.sceneManager.LoadExercise("")
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.Start()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		s.breathingSystem.Stop(s.entity)
	}
	s.breathingSystem.Update(deltaTime)
}

// Draw 绘制阶段提示与倒数
func (s *BreathingScene) Draw(screen *ebiten.Image) {
	screen.Fill(breathingBackground)

	ebitenutil.DebugPrintAt(screen, s.exercise.Title, 16, 12)
	if snap, ok := s.Snapshot(); ok {
		for i, line := range systems.BreathingLines(snap) {
			ebitenutil.DebugPrintAt(screen, line, 16, 12+(i+2)*utils.DebugLineHeight)
		}
	}

	footerY := screen.Bounds().Dy() - utils.DebugLineHeight - 4
	ebitenutil.DebugPrintAt(screen, "Enter: start   S: stop   Esc: catalog", 16, footerY)
}

// OnExit 卸载练习，未完成的呼吸不计入进度
func (s *BreathingScene) OnExit() {
	if s.entity == ecs.InvalidEntity {
		return
	}
	s.breathingSystem.Unmount(s.entity)
	s.entity = ecs.InvalidEntity
	s.entityManager.RemoveMarkedEntities()
}
