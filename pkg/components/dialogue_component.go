package components

import "github.com/gonewx/softskills/pkg/config"

// DialoguePhase 对话引擎的阶段
// 阶段不单独存储，由 DialogueComponent 的字段推导（见 systems.DerivePhase）
type DialoguePhase int

const (
	// DialoguePhaseIdle 尚未加载场景（或场景没有任何步骤）
	DialoguePhaseIdle DialoguePhase = iota

	// DialoguePhaseRevealing 消息逐条显示中，或选项出现前的阅读停顿
	DialoguePhaseRevealing

	// DialoguePhaseAwaitingChoice 当前步骤的选项已显示，等待选择
	DialoguePhaseAwaitingChoice

	// DialoguePhaseShowingFeedback 已选择，正在显示反馈
	DialoguePhaseShowingFeedback

	// DialoguePhaseInformational 当前步骤没有选项，消息已全部显示
	DialoguePhaseInformational

	// DialoguePhaseComplete 场景完成（终态）
	DialoguePhaseComplete
)

// String 返回 DialoguePhase 的字符串表示
func (p DialoguePhase) String() string {
	switch p {
	case DialoguePhaseIdle:
		return "Idle"
	case DialoguePhaseRevealing:
		return "Revealing"
	case DialoguePhaseAwaitingChoice:
		return "AwaitingChoice"
	case DialoguePhaseShowingFeedback:
		return "ShowingFeedback"
	case DialoguePhaseInformational:
		return "Informational"
	case DialoguePhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}

// DialogueComponent 对话引擎的运行状态（纯数据）
//
// 只有 DialogueSystem 可以修改这些字段；渲染层通过 Snapshot 拿到只读副本。
//
// 生命周期:
//  1. entities.NewDialogueEntity 创建实体时添加此组件（Idle）
//  2. DialogueSystem.Initialize 载入场景，每次载入代数 +1
//  3. 完成后触发 OnComplete；Unmount 时实体被销毁
type DialogueComponent struct {
	// ==========================================================================
	// 场景与会话 (Scenario & Session)
	// ==========================================================================

	// Scenario 当前场景（只读引用）
	Scenario *config.Scenario

	// ProgressKey 完成时写入进度的键，为空时使用 Scenario.ID
	ProgressKey string

	// RunID 本次运行的唯一标识（每次 Initialize 重新生成）
	RunID string

	// Generation 会话代数
	// 定时任务创建时记录代数，触发时代数不一致则直接丢弃
	Generation uint64

	// ==========================================================================
	// 对话进度 (Dialogue Progress)
	// ==========================================================================

	// CurrentStepIndex 当前步骤下标（从 0 开始）
	CurrentStepIndex int

	// Transcript 累积的对话记录，只追加不删除
	Transcript []config.Message

	// VisibleCount 已显示的消息数（显示游标），0 <= VisibleCount <= len(Transcript)
	VisibleCount int

	// StepTranscriptEnd 当前步骤的消息在 Transcript 中的结束位置（不含用户回答）
	// 游标到达这里即表示本步骤最后一条消息刚刚显示
	StepTranscriptEnd int

	// ==========================================================================
	// 选择与反馈 (Choice & Feedback)
	// ==========================================================================

	// SelectedChoiceID 当前选中的选项，空字符串表示未选择
	SelectedChoiceID string

	// FeedbackVisible 是否正在显示反馈
	FeedbackVisible bool

	// AnswersRevealed 当前步骤的选项是否已显示
	AnswersRevealed bool

	// Completed 场景是否已完成
	Completed bool

	// ==========================================================================
	// 统计 (Statistics)
	// ==========================================================================

	CorrectAnswers int
	TotalAttempts  int

	// ==========================================================================
	// 回调 (Callbacks)
	// ==========================================================================

	// OnComplete 场景完成回调，参数为写入进度的键
	// 在进度写入之后调用，每次运行最多一次
	OnComplete func(progressKey string)
}
