package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one screen of the trainer (catalog, dialogue, summary).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Exitable 可选接口：场景被切走或程序退出时调用
//
// 对话场景借此取消所有待触发的定时任务，避免旧任务改写已卸载的状态。
type Exitable interface {
	OnExit()
}
