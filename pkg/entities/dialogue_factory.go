package entities

import (
	"fmt"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/ecs"
)

// DialogueOptions 创建对话实体的参数
type DialogueOptions struct {
	// ProgressKey 完成时写入进度的键，为空时使用场景 ID
	ProgressKey string

	// OnComplete 场景完成回调（进度写入之后调用）
	OnComplete func(progressKey string)
}

// NewDialogueEntity 创建对话实体
// 实体处于 Idle 状态，由 DialogueSystem.Initialize 载入场景
//
// 返回:
//   - ecs.EntityID: 创建的实体 ID
//   - error: em 为 nil 时返回错误
func NewDialogueEntity(em *ecs.EntityManager, opts DialogueOptions) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.DialogueComponent{
		ProgressKey: opts.ProgressKey,
		OnComplete:  opts.OnComplete,
	})
	return entityID, nil
}
