package systems

import (
	"fmt"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
)

// BreathingSnapshot 呼吸练习的只读视图
type BreathingSnapshot struct {
	Phase       components.BreathingPhase
	SecondsLeft int
	BreathsDone int
	Breaths     int
	ProgressKey string
	Generation  uint64
}

// Finished 是否已完成全部呼吸
func (s BreathingSnapshot) Finished() bool {
	return s.Phase == components.BreathingPhaseFinished
}

// CurrentBreath 正在进行的呼吸序号（从 1 开始），未进行时为 0
func (s BreathingSnapshot) CurrentBreath() int {
	if !s.Phase.Active() {
		return 0
	}
	return s.BreathsDone + 1
}

// Snapshot 返回呼吸练习的当前状态
func (s *BreathingSystem) Snapshot(entityID ecs.EntityID) (BreathingSnapshot, bool) {
	comp, ok := s.component(entityID)
	if !ok {
		return BreathingSnapshot{}, false
	}
	snap := BreathingSnapshot{
		Phase:       comp.Phase,
		SecondsLeft: comp.SecondsLeft,
		BreathsDone: comp.BreathsDone,
		Breaths:     s.pattern.Breaths,
		ProgressKey: comp.ProgressKey,
		Generation:  comp.Generation,
	}
	if snap.ProgressKey == "" {
		snap.ProgressKey = config.BreathingProgressKey
	}
	return snap, true
}

// BreathingInstruction 阶段提示语
func BreathingInstruction(phase components.BreathingPhase) string {
	switch phase {
	case components.BreathingPhaseInhale:
		return "Breathe in..."
	case components.BreathingPhaseHold:
		return "Hold your breath..."
	case components.BreathingPhaseExhale:
		return "Breathe out..."
	case components.BreathingPhaseFinished:
		return "Well done."
	default:
		return "Get ready..."
	}
}

// BreathingLines 排版呼吸练习（窗口与终端共用）
func BreathingLines(snap BreathingSnapshot) []string {
	switch {
	case snap.Finished():
		return []string{
			BreathingInstruction(snap.Phase),
			fmt.Sprintf("You completed all %d breathing cycles.", snap.Breaths),
		}
	case snap.Phase.Active():
		return []string{
			fmt.Sprintf("Breath %d of %d", snap.CurrentBreath(), snap.Breaths),
			fmt.Sprintf("%s (%ds)", BreathingInstruction(snap.Phase), snap.SecondsLeft),
		}
	default:
		return []string{
			BreathingInstruction(snap.Phase),
			fmt.Sprintf("%d breaths: inhale, hold, exhale.", snap.Breaths),
		}
	}
}
