package scenes

import (
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

// SessionSceneID 工厂使用的特殊 ID：按整个场景目录顺序训练
const SessionSceneID = ":session"

// NewSceneFactory 返回按练习 ID 创建场景的工厂
//   - 空 ID：练习目录
//   - SessionSceneID：整个场景目录的下一个未完成场景
//   - 其他：对应的对话或呼吸练习，未知或无法在窗口中进行的练习返回 nil
func NewSceneFactory(state *game.TrainerState, sm *game.SceneManager) game.SceneFactory {
	return func(exerciseID string) game.Scene {
		switch exerciseID {
		case "":
			return NewCatalogScene(state, sm)
		case SessionSceneID:
			return NewDialogueScene(state, sm, nil)
		}

		exercise, ok := state.Exercises.Find(exerciseID)
		switch {
		case ok && exercise.IsDialogue():
			return NewDialogueScene(state, sm, exercise)
		case ok && exercise.IsBreathing():
			return NewBreathingScene(state, sm, exercise)
		}
		state.Logger.Warn("exercise has no playable scene", zap.String("exercise", exerciseID))
		return nil
	}
}
