package entities

import (
	"fmt"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/ecs"
)

// BreathingOptions 创建呼吸练习实体的参数
type BreathingOptions struct {
	// ProgressKey 完成时写入进度的键，为空时使用 config.BreathingProgressKey
	ProgressKey string

	OnComplete func(progressKey string)
}

// NewBreathingEntity 创建处于 Rest 的呼吸练习实体，由 BreathingSystem.Start 开始
func NewBreathingEntity(em *ecs.EntityManager, opts BreathingOptions) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.BreathingComponent{
		ProgressKey: opts.ProgressKey,
		OnComplete:  opts.OnComplete,
	})
	return entityID, nil
}
