package components

import "github.com/gonewx/softskills/pkg/ecs"

// TimerComponent 一次性延迟任务
// 用于对话节奏：逐条显示消息、选项出现前的阅读停顿、选对后的自动推进
//
// 每个待触发的任务是一个独立实体，触发或取消后实体即被销毁。
type TimerComponent struct {
	Name        string       // 任务名称，如 "reveal"、"answers"、"advance"
	Owner       ecs.EntityID // 所属对话实体，取消时按 Owner 批量清理
	Generation  uint64       // 创建时所属对话的代数，代数变化后任务作废
	TargetTime  float64      // 目标时间（秒）
	CurrentTime float64      // 当前已过时间（秒）
	IsReady     bool         // 是否已触发
	OnFire      func()       // 到时回调，只调用一次
}
