package systems

import (
	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
)

// DialogueSnapshot 对话状态的只读副本，供渲染层使用
// 修改副本不会影响引擎
type DialogueSnapshot struct {
	RunID      string
	Generation uint64
	Phase      components.DialoguePhase

	ScenarioID    string
	ScenarioTitle string
	Context       string
	ProgressKey   string

	StepIndex int
	StepCount int
	// Step 当前步骤的副本，Idle 时为 nil
	Step *config.DialogueStep

	Transcript   []config.Message
	VisibleCount int

	SelectedChoiceID string
	FeedbackVisible  bool
	AnswersRevealed  bool
	Completed        bool

	CorrectAnswers int
	TotalAttempts  int
}

// VisibleMessages 已显示的消息
func (s DialogueSnapshot) VisibleMessages() []config.Message {
	return s.Transcript[:s.VisibleCount]
}

// AvailableChoices 当前可选的选项，仅在选项已显示时非空
func (s DialogueSnapshot) AvailableChoices() []config.Choice {
	if s.Step == nil || !s.AnswersRevealed {
		return nil
	}
	return s.Step.Choices
}

// SelectedChoice 当前选中的选项
func (s DialogueSnapshot) SelectedChoice() (config.Choice, bool) {
	if s.Step == nil || s.SelectedChoiceID == "" {
		return config.Choice{}, false
	}
	choice, _, ok := s.Step.FindChoice(s.SelectedChoiceID)
	return choice, ok
}

// Snapshot 返回对话实体当前状态的深拷贝
func (s *DialogueSystem) Snapshot(entityID ecs.EntityID) (DialogueSnapshot, bool) {
	comp, ok := s.component(entityID)
	if !ok {
		return DialogueSnapshot{}, false
	}

	snap := DialogueSnapshot{
		RunID:            comp.RunID,
		Generation:       comp.Generation,
		Phase:            DerivePhase(comp),
		ProgressKey:      comp.ProgressKey,
		StepIndex:        comp.CurrentStepIndex,
		Transcript:       append([]config.Message(nil), comp.Transcript...),
		VisibleCount:     comp.VisibleCount,
		SelectedChoiceID: comp.SelectedChoiceID,
		FeedbackVisible:  comp.FeedbackVisible,
		AnswersRevealed:  comp.AnswersRevealed,
		Completed:        comp.Completed,
		CorrectAnswers:   comp.CorrectAnswers,
		TotalAttempts:    comp.TotalAttempts,
	}

	if comp.Scenario == nil {
		return snap, true
	}
	snap.ScenarioID = comp.Scenario.ID
	snap.ScenarioTitle = comp.Scenario.Title
	snap.Context = comp.Scenario.Context
	snap.StepCount = len(comp.Scenario.Steps)
	if snap.ProgressKey == "" {
		snap.ProgressKey = comp.Scenario.ID
	}

	if comp.CurrentStepIndex < len(comp.Scenario.Steps) {
		step := comp.Scenario.Steps[comp.CurrentStepIndex]
		step.Messages = append([]config.Message(nil), step.Messages...)
		step.Choices = append([]config.Choice(nil), step.Choices...)
		snap.Step = &step
	}
	return snap, true
}
