package systems

import (
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/utils"
)

const (
	timerBreathTick = "breath-tick"

	// breathTickSeconds 秒表步长
	breathTickSeconds = 1.0
)

// BreathingSystem 4-7-8 呼吸练习
//
// 吸气 → 屏息 → 呼气 为一次呼吸，每个阶段按整秒倒数。
// 每秒一个 TimerSystem 任务，完成指定次数后写入进度并进入 Finished。
type BreathingSystem struct {
	entityManager *ecs.EntityManager
	timers        *TimerSystem
	progress      ProgressMarker
	pattern       config.BreathingConfig
	logger        *zap.Logger
}

// NewBreathingSystem 创建呼吸练习系统
// progress 可以为 nil（不记录进度）
func NewBreathingSystem(
	em *ecs.EntityManager,
	timers *TimerSystem,
	progress ProgressMarker,
	pattern config.BreathingConfig,
	logger *zap.Logger,
) *BreathingSystem {
	return &BreathingSystem{
		entityManager: em,
		timers:        timers,
		progress:      progress,
		pattern:       pattern,
		logger:        utils.OrNop(logger).Named("BreathingSystem"),
	}
}

// Pattern 当前使用的节奏
func (s *BreathingSystem) Pattern() config.BreathingConfig {
	return s.pattern
}

// Update 推进调度器
func (s *BreathingSystem) Update(dt float64) {
	s.timers.Update(dt)
}

func (s *BreathingSystem) component(entityID ecs.EntityID) (*components.BreathingComponent, bool) {
	if !s.entityManager.IsAlive(entityID) {
		return nil, false
	}
	return ecs.GetComponent[*components.BreathingComponent](s.entityManager, entityID)
}

// Start 从第一次吸气开始
// 练习进行中时忽略；Rest 或 Finished 时从头开始
func (s *BreathingSystem) Start(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok || comp.Phase.Active() {
		return
	}

	s.timers.Cancel(entityID)
	comp.Generation++
	comp.BreathsDone = 0
	s.enterPhase(comp, components.BreathingPhaseInhale)
	s.scheduleTick(entityID, comp)

	s.logger.Info("breathing started",
		zap.Uint64("entity", uint64(entityID)),
		zap.String("progress_key", comp.ProgressKey),
		zap.Int("breaths", s.pattern.Breaths))
}

// Stop 中止练习并回到 Rest，不写入进度
func (s *BreathingSystem) Stop(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok || !comp.Phase.Active() {
		return
	}
	s.timers.Cancel(entityID)
	comp.Generation++
	comp.Phase = components.BreathingPhaseRest
	comp.SecondsLeft = 0
	comp.BreathsDone = 0
	s.logger.Debug("breathing stopped", zap.Uint64("entity", uint64(entityID)))
}

// Unmount 取消秒表、作废当前代数并销毁实体
func (s *BreathingSystem) Unmount(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok {
		return
	}
	s.timers.Cancel(entityID)
	comp.Generation++
	s.entityManager.DestroyEntity(entityID)
}

func (s *BreathingSystem) enterPhase(comp *components.BreathingComponent, phase components.BreathingPhase) {
	comp.Phase = phase
	switch phase {
	case components.BreathingPhaseInhale:
		comp.SecondsLeft = s.pattern.Inhale
	case components.BreathingPhaseHold:
		comp.SecondsLeft = s.pattern.Hold
	case components.BreathingPhaseExhale:
		comp.SecondsLeft = s.pattern.Exhale
	default:
		comp.SecondsLeft = 0
	}
}

func (s *BreathingSystem) scheduleTick(entityID ecs.EntityID, comp *components.BreathingComponent) {
	generation := comp.Generation
	s.timers.Schedule(entityID, timerBreathTick, generation, breathTickSeconds, func() {
		s.onTick(entityID, generation)
	})
}

// onTick 每秒倒数一次，倒数到 0 时切换阶段
func (s *BreathingSystem) onTick(entityID ecs.EntityID, generation uint64) {
	comp, ok := s.component(entityID)
	if !ok || comp.Generation != generation || !comp.Phase.Active() {
		return
	}

	comp.SecondsLeft--
	if comp.SecondsLeft > 0 {
		s.scheduleTick(entityID, comp)
		return
	}

	switch comp.Phase {
	case components.BreathingPhaseInhale:
		s.enterPhase(comp, components.BreathingPhaseHold)
	case components.BreathingPhaseHold:
		s.enterPhase(comp, components.BreathingPhaseExhale)
	case components.BreathingPhaseExhale:
		comp.BreathsDone++
		if comp.BreathsDone >= s.pattern.Breaths {
			s.finish(entityID, comp)
			return
		}
		s.enterPhase(comp, components.BreathingPhaseInhale)
	}
	s.scheduleTick(entityID, comp)
}

func (s *BreathingSystem) finish(entityID ecs.EntityID, comp *components.BreathingComponent) {
	s.enterPhase(comp, components.BreathingPhaseFinished)

	key := comp.ProgressKey
	if key == "" {
		key = config.BreathingProgressKey
	}
	if s.progress != nil {
		s.progress.MarkCompleted(key)
	}
	s.logger.Info("breathing finished",
		zap.Uint64("entity", uint64(entityID)),
		zap.String("progress_key", key),
		zap.Int("breaths", comp.BreathsDone))

	if comp.OnComplete != nil {
		comp.OnComplete(key)
	}
}
