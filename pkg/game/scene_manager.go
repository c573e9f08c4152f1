package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/utils"
)

// SceneFactory 场景工厂函数类型
// 按练习 ID 创建场景，空 ID 表示练习目录；避免 game 与 scenes 循环依赖
type SceneFactory func(exerciseID string) Scene

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
	logger       *zap.Logger
}

// NewSceneManager creates a SceneManager with no active scene.
func NewSceneManager(logger *zap.Logger) *SceneManager {
	return &SceneManager{
		logger: utils.OrNop(logger).Named("SceneManager"),
	}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene.
// 旧场景实现 Exitable 时先调用 OnExit
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.exitCurrent()
	sm.currentScene = scene
}

// Shutdown 程序退出时调用，卸载当前场景
func (sm *SceneManager) Shutdown() {
	sm.exitCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) exitCurrent() {
	if exitable, ok := sm.currentScene.(Exitable); ok {
		exitable.OnExit()
	}
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadExercise 通过工厂切换到指定练习（空 ID 为目录）
func (sm *SceneManager) LoadExercise(exerciseID string) {
	sm.logger.Debug("loading exercise", zap.String("exercise", exerciseID))

	if sm.sceneFactory == nil {
		sm.logger.Error("scene factory not set")
		return
	}

	newScene := sm.sceneFactory(exerciseID)
	if newScene == nil {
		sm.logger.Error("cannot create scene", zap.String("exercise", exerciseID))
		return
	}
	sm.SwitchTo(newScene)
}

// Update updates the currently active scene.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
