package systems

import (
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/utils"
)

// timerEpsilon 吸收 dt 累加的浮点误差（60 × 1/60 可能略小于 1.0）
const timerEpsilon = 1e-9

// TimerSystem 协作式单线程调度器
//
// 每个延迟任务都是一个带 TimerComponent 的实体。Update 按实体 ID 升序推进，
// 同一帧内到期的任务按创建顺序触发。触发过程中新建的任务从下一帧开始计时。
type TimerSystem struct {
	entityManager *ecs.EntityManager
	logger        *zap.Logger
}

// NewTimerSystem 创建调度器
func NewTimerSystem(em *ecs.EntityManager, logger *zap.Logger) *TimerSystem {
	return &TimerSystem{
		entityManager: em,
		logger:        utils.OrNop(logger).Named("TimerSystem"),
	}
}

// Schedule 安排一个 delay 秒后触发的任务，返回任务实体 ID
func (s *TimerSystem) Schedule(owner ecs.EntityID, name string, generation uint64, delay float64, fn func()) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.TimerComponent{
		Name:       name,
		Owner:      owner,
		Generation: generation,
		TargetTime: delay,
		OnFire:     fn,
	})
	s.logger.Debug("scheduled",
		zap.Uint64("owner", uint64(owner)),
		zap.String("name", name),
		zap.Uint64("generation", generation),
		zap.Float64("delay", delay))
	return id
}

// Cancel 取消 owner 的所有待触发任务，返回取消数量
func (s *TimerSystem) Cancel(owner ecs.EntityID) int {
	cancelled := 0
	for _, id := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		timer, _ := ecs.GetComponent[*components.TimerComponent](s.entityManager, id)
		if timer.Owner != owner || timer.IsReady || !s.entityManager.IsAlive(id) {
			continue
		}
		timer.IsReady = true
		timer.OnFire = nil
		s.entityManager.DestroyEntity(id)
		cancelled++
	}
	if cancelled > 0 {
		s.logger.Debug("cancelled", zap.Uint64("owner", uint64(owner)), zap.Int("count", cancelled))
	}
	return cancelled
}

// CancelNamed 取消 owner 名为 name 的待触发任务
func (s *TimerSystem) CancelNamed(owner ecs.EntityID, name string) int {
	cancelled := 0
	for _, id := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		timer, _ := ecs.GetComponent[*components.TimerComponent](s.entityManager, id)
		if timer.Owner != owner || timer.Name != name || timer.IsReady || !s.entityManager.IsAlive(id) {
			continue
		}
		timer.IsReady = true
		timer.OnFire = nil
		s.entityManager.DestroyEntity(id)
		cancelled++
	}
	return cancelled
}

// Pending 返回 owner 尚未触发的任务数
func (s *TimerSystem) Pending(owner ecs.EntityID) int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		timer, _ := ecs.GetComponent[*components.TimerComponent](s.entityManager, id)
		if timer.Owner == owner && !timer.IsReady && s.entityManager.IsAlive(id) {
			count++
		}
	}
	return count
}

// Update 推进所有任务的计时并触发到期任务
// 帧末清理已触发和已取消的任务实体
func (s *TimerSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		timer, _ := ecs.GetComponent[*components.TimerComponent](s.entityManager, id)
		// 本帧较早触发的回调可能已经取消了它
		if timer.IsReady || !s.entityManager.IsAlive(id) {
			continue
		}

		timer.CurrentTime += dt
		if timer.CurrentTime+timerEpsilon < timer.TargetTime {
			continue
		}

		timer.IsReady = true
		s.entityManager.DestroyEntity(id)
		if timer.OnFire != nil {
			fn := timer.OnFire
			timer.OnFire = nil
			fn()
		}
	}

	s.entityManager.RemoveMarkedEntities()
}
