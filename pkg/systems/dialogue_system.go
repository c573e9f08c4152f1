package systems

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/utils"
)

// 定时任务名称
const (
	timerReveal  = "reveal"
	timerAnswers = "answers"
	timerAdvance = "advance"
)

// ProgressMarker 场景完成时写入进度的一方
type ProgressMarker interface {
	MarkCompleted(id string)
}

// DialogueSystem 分支对话引擎
//
// 状态机：Revealing → AwaitingChoice → ShowingFeedback →
// （选错）AwaitingChoice / （选对）下一步 Revealing → ... → Complete
//
// 所有时间都来自 Update(dt)，所有延迟都通过 TimerSystem 安排。
// 对外操作在前置条件不满足时静默忽略，不返回错误。
type DialogueSystem struct {
	entityManager *ecs.EntityManager
	timers        *TimerSystem
	progress      ProgressMarker
	pacing        config.PacingConfig
	logger        *zap.Logger
}

// NewDialogueSystem 创建对话引擎
// progress 可以为 nil（不记录进度）
func NewDialogueSystem(
	em *ecs.EntityManager,
	timers *TimerSystem,
	progress ProgressMarker,
	pacing config.PacingConfig,
	logger *zap.Logger,
) *DialogueSystem {
	return &DialogueSystem{
		entityManager: em,
		timers:        timers,
		progress:      progress,
		pacing:        pacing,
		logger:        utils.OrNop(logger).Named("DialogueSystem"),
	}
}

// Update 推进调度器
func (s *DialogueSystem) Update(dt float64) {
	s.timers.Update(dt)
}

func (s *DialogueSystem) component(entityID ecs.EntityID) (*components.DialogueComponent, bool) {
	if !s.entityManager.IsAlive(entityID) {
		return nil, false
	}
	return ecs.GetComponent[*components.DialogueComponent](s.entityManager, entityID)
}

// Initialize 载入场景并从第 0 步开始
// 旧会话的所有待触发任务被取消，代数 +1
func (s *DialogueSystem) Initialize(entityID ecs.EntityID, scenario *config.Scenario) {
	comp, ok := s.component(entityID)
	if !ok {
		s.logger.Warn("initialize on unknown dialogue entity", zap.Uint64("entity", uint64(entityID)))
		return
	}

	s.timers.Cancel(entityID)

	comp.Generation++
	comp.RunID = uuid.NewString()
	comp.Scenario = scenario
	comp.CurrentStepIndex = 0
	comp.Transcript = nil
	comp.VisibleCount = 0
	comp.StepTranscriptEnd = 0
	comp.SelectedChoiceID = ""
	comp.FeedbackVisible = false
	comp.AnswersRevealed = false
	comp.Completed = false
	comp.CorrectAnswers = 0
	comp.TotalAttempts = 0

	if scenario == nil || len(scenario.Steps) == 0 {
		// 没有步骤的场景无法推进，保持空闲
		s.logger.Warn("scenario has no steps, dialogue stays idle",
			zap.Uint64("entity", uint64(entityID)))
		return
	}

	s.logger.Info("dialogue initialized",
		zap.Uint64("entity", uint64(entityID)),
		zap.String("scenario", scenario.ID),
		zap.String("run_id", comp.RunID),
		zap.Uint64("generation", comp.Generation),
		zap.Int("steps", len(scenario.Steps)))

	s.enterStep(entityID, comp, 0)
}

// Restart 用当前场景重新开始
func (s *DialogueSystem) Restart(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok || comp.Scenario == nil {
		return
	}
	s.Initialize(entityID, comp.Scenario)
}

// Unmount 视图卸载：取消所有任务、作废当前代数并销毁实体
func (s *DialogueSystem) Unmount(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok {
		return
	}
	s.timers.Cancel(entityID)
	comp.Generation++
	s.entityManager.DestroyEntity(entityID)
	s.logger.Debug("dialogue unmounted", zap.Uint64("entity", uint64(entityID)))
}

// SelectChoice 选择当前步骤的选项
// 仅在 AwaitingChoice 阶段且 choiceID 属于当前步骤时生效
func (s *DialogueSystem) SelectChoice(entityID ecs.EntityID, choiceID string) {
	comp, ok := s.component(entityID)
	if !ok {
		return
	}
	if phase := DerivePhase(comp); phase != components.DialoguePhaseAwaitingChoice {
		s.logger.Debug("select ignored", zap.String("phase", phase.String()), zap.String("choice", choiceID))
		return
	}

	step := &comp.Scenario.Steps[comp.CurrentStepIndex]
	choice, _, found := step.FindChoice(choiceID)
	if !found {
		s.logger.Debug("select ignored: unknown choice", zap.String("choice", choiceID))
		return
	}

	comp.SelectedChoiceID = choice.ID
	comp.FeedbackVisible = true
	comp.TotalAttempts++

	if !choice.IsCorrect {
		s.logger.Debug("incorrect choice",
			zap.String("run_id", comp.RunID),
			zap.String("step", step.ID),
			zap.String("choice", choice.ID))
		return
	}

	comp.CorrectAnswers++
	// 用户自己的回答立即显示，不参与逐条节奏
	comp.Transcript = append(comp.Transcript, config.Message{
		ID:      config.UserAnswerIDPrefix + choice.ID,
		Speaker: config.SpeakerUser,
		Text:    choice.Text,
		Emotion: config.EmotionNeutral,
	})
	comp.VisibleCount = len(comp.Transcript)

	s.logger.Debug("correct choice",
		zap.String("run_id", comp.RunID),
		zap.String("step", step.ID),
		zap.String("choice", choice.ID))

	generation := comp.Generation
	s.timers.Schedule(entityID, timerAdvance, generation, s.pacing.FeedbackDelay, func() {
		if c, ok := s.component(entityID); ok && c.Generation == generation {
			s.AdvanceStep(entityID)
		}
	})
}

// PressDigit 数字键快捷选择，n 从 1 开始对应当前选项
// 仅在 AwaitingChoice 阶段生效
func (s *DialogueSystem) PressDigit(entityID ecs.EntityID, n int) {
	comp, ok := s.component(entityID)
	if !ok || DerivePhase(comp) != components.DialoguePhaseAwaitingChoice {
		return
	}
	choices := comp.Scenario.Steps[comp.CurrentStepIndex].Choices
	if n < 1 || n > len(choices) {
		return
	}
	s.SelectChoice(entityID, choices[n-1].ID)
}

// ContinueAfterIncorrect 关闭错误反馈，回到同一步骤的选择
func (s *DialogueSystem) ContinueAfterIncorrect(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok || DerivePhase(comp) != components.DialoguePhaseShowingFeedback {
		return
	}
	choice, _, found := comp.Scenario.Steps[comp.CurrentStepIndex].FindChoice(comp.SelectedChoiceID)
	if !found || choice.IsCorrect {
		return
	}
	comp.SelectedChoiceID = ""
	comp.FeedbackVisible = false
}

// AdvanceStep 选对后的推进，通常由调度器在反馈时长结束后调用
// 最后一步时标记完成，否则进入下一步并继续逐条显示
func (s *DialogueSystem) AdvanceStep(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok || comp.Completed || !comp.FeedbackVisible || comp.Scenario == nil {
		return
	}
	choice, _, found := comp.Scenario.Steps[comp.CurrentStepIndex].FindChoice(comp.SelectedChoiceID)
	if !found || !choice.IsCorrect {
		return
	}
	// 外部提前推进时，丢弃还在等待的推进任务
	s.timers.CancelNamed(entityID, timerAdvance)
	s.nextStepOrComplete(entityID, comp)
}

// FinishInformational 无选项步骤的继续操作
// 最后一步时标记完成，否则进入下一步
func (s *DialogueSystem) FinishInformational(entityID ecs.EntityID) {
	comp, ok := s.component(entityID)
	if !ok || DerivePhase(comp) != components.DialoguePhaseInformational {
		return
	}
	s.nextStepOrComplete(entityID, comp)
}

func (s *DialogueSystem) nextStepOrComplete(entityID ecs.EntityID, comp *components.DialogueComponent) {
	if comp.CurrentStepIndex >= comp.Scenario.LastStepIndex() {
		s.complete(entityID, comp)
		return
	}
	s.enterStep(entityID, comp, comp.CurrentStepIndex+1)
}

func (s *DialogueSystem) complete(entityID ecs.EntityID, comp *components.DialogueComponent) {
	if comp.Completed {
		return
	}
	comp.Completed = true

	key := comp.ProgressKey
	if key == "" {
		key = comp.Scenario.ID
	}

	s.logger.Info("scenario completed",
		zap.Uint64("entity", uint64(entityID)),
		zap.String("scenario", comp.Scenario.ID),
		zap.String("progress_key", key),
		zap.String("run_id", comp.RunID),
		zap.Int("correct", comp.CorrectAnswers),
		zap.Int("attempts", comp.TotalAttempts))

	if s.progress != nil {
		s.progress.MarkCompleted(key)
	}
	if comp.OnComplete != nil {
		comp.OnComplete(key)
	}
}

// enterStep 进入步骤 index：清空选择状态，追加该步骤的消息并开始逐条显示
// 追加之前的所有消息视为已显示
func (s *DialogueSystem) enterStep(entityID ecs.EntityID, comp *components.DialogueComponent, index int) {
	comp.CurrentStepIndex = index
	comp.SelectedChoiceID = ""
	comp.FeedbackVisible = false
	comp.AnswersRevealed = false

	comp.VisibleCount = len(comp.Transcript)
	comp.Transcript = append(comp.Transcript, comp.Scenario.Steps[index].Messages...)
	comp.StepTranscriptEnd = len(comp.Transcript)

	s.logger.Debug("entered step",
		zap.String("run_id", comp.RunID),
		zap.Int("step", index),
		zap.Int("messages", len(comp.Scenario.Steps[index].Messages)))

	s.scheduleReveal(entityID, comp)
}

// scheduleReveal 安排下一条消息的显示
// 下标总是由 VisibleCount 推导，不预先为每条消息安排任务
func (s *DialogueSystem) scheduleReveal(entityID ecs.EntityID, comp *components.DialogueComponent) {
	if comp.VisibleCount >= comp.StepTranscriptEnd {
		// 没有消息的步骤：直接进入选项阶段
		s.onStepRevealed(entityID, comp)
		return
	}

	generation := comp.Generation
	s.timers.Schedule(entityID, timerReveal, generation, s.pacing.RevealInterval, func() {
		c, ok := s.component(entityID)
		if !ok || c.Generation != generation {
			return
		}
		s.revealNext(entityID, c)
	})
}

func (s *DialogueSystem) revealNext(entityID ecs.EntityID, comp *components.DialogueComponent) {
	if comp.VisibleCount >= len(comp.Transcript) {
		return
	}
	comp.VisibleCount++

	if comp.VisibleCount < comp.StepTranscriptEnd {
		s.scheduleReveal(entityID, comp)
		return
	}
	s.onStepRevealed(entityID, comp)
}

// onStepRevealed 当前步骤的消息已全部显示
func (s *DialogueSystem) onStepRevealed(entityID ecs.EntityID, comp *components.DialogueComponent) {
	step := &comp.Scenario.Steps[comp.CurrentStepIndex]
	if !step.HasChoices() {
		// 展示步骤没有选择阶段，由宿主视图调用 FinishInformational
		return
	}

	last := len(step.Messages) - 1
	if last < 0 || step.Messages[last].Speaker != config.SpeakerOther {
		// 最后一条是用户自己说的（或没有消息），无需阅读停顿
		comp.AnswersRevealed = true
		return
	}

	generation := comp.Generation
	stepIndex := comp.CurrentStepIndex
	s.timers.Schedule(entityID, timerAnswers, generation, s.pacing.AnswersDelay, func() {
		c, ok := s.component(entityID)
		if !ok || c.Generation != generation || c.CurrentStepIndex != stepIndex {
			return
		}
		c.AnswersRevealed = true
	})
}

// DerivePhase 由状态字段推导当前阶段
func DerivePhase(comp *components.DialogueComponent) components.DialoguePhase {
	switch {
	case comp.Scenario == nil || len(comp.Scenario.Steps) == 0:
		return components.DialoguePhaseIdle
	case comp.Completed:
		return components.DialoguePhaseComplete
	case comp.FeedbackVisible:
		return components.DialoguePhaseShowingFeedback
	case comp.VisibleCount < len(comp.Transcript):
		return components.DialoguePhaseRevealing
	case !comp.Scenario.Steps[comp.CurrentStepIndex].HasChoices():
		return components.DialoguePhaseInformational
	case comp.AnswersRevealed:
		return components.DialoguePhaseAwaitingChoice
	default:
		return components.DialoguePhaseRevealing
	}
}
