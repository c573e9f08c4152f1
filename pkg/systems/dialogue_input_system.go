package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/ecs"
)

// DialogueInputSystem 对话键盘输入
//
// 职责：
//   - 数字键 1-9（含小键盘）选择当前第 N 个选项
//   - Enter / Space 关闭错误反馈，或结束展示步骤
//   - R 从头重来
//
// 阶段判断全部交给 DialogueSystem，这里只做按键映射。
type DialogueInputSystem struct {
	entityManager *ecs.EntityManager
	dialogue      *DialogueSystem
	keys          []ebiten.Key
}

// NewDialogueInputSystem 创建输入系统
func NewDialogueInputSystem(em *ecs.EntityManager, dialogue *DialogueSystem) *DialogueInputSystem {
	return &DialogueInputSystem{
		entityManager: em,
		dialogue:      dialogue,
	}
}

// Update 读取本帧刚按下的键
func (s *DialogueInputSystem) Update(deltaTime float64) {
	s.keys = inpututil.AppendJustPressedKeys(s.keys[:0])
	for _, key := range s.keys {
		s.HandleKey(key)
	}
}

// HandleKey 把一个按键分发给所有对话实体
func (s *DialogueInputSystem) HandleKey(key ebiten.Key) {
	for _, entityID := range ecs.GetEntitiesWith1[*components.DialogueComponent](s.entityManager) {
		if !s.entityManager.IsAlive(entityID) {
			continue
		}
		if n, ok := digitOf(key); ok {
			s.dialogue.PressDigit(entityID, n)
			continue
		}
		switch key {
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter, ebiten.KeySpace:
			// 两个操作各自检查阶段，最多只有一个生效
			s.dialogue.ContinueAfterIncorrect(entityID)
			s.dialogue.FinishInformational(entityID)
		case ebiten.KeyR:
			s.dialogue.Restart(entityID)
		}
	}
}

var digitKeys = map[ebiten.Key]int{
	ebiten.KeyDigit1: 1, ebiten.KeyNumpad1: 1,
	ebiten.KeyDigit2: 2, ebiten.KeyNumpad2: 2,
	ebiten.KeyDigit3: 3, ebiten.KeyNumpad3: 3,
	ebiten.KeyDigit4: 4, ebiten.KeyNumpad4: 4,
	ebiten.KeyDigit5: 5, ebiten.KeyNumpad5: 5,
	ebiten.KeyDigit6: 6, ebiten.KeyNumpad6: 6,
	ebiten.KeyDigit7: 7, ebiten.KeyNumpad7: 7,
	ebiten.KeyDigit8: 8, ebiten.KeyNumpad8: 8,
	ebiten.KeyDigit9: 9, ebiten.KeyNumpad9: 9,
}

// digitOf 数字键 → 1-9
func digitOf(key ebiten.Key) (int, bool) {
	n, ok := digitKeys[key]
	return n, ok
}
