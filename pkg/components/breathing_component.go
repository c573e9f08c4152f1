package components

// BreathingPhase 呼吸练习的阶段
type BreathingPhase int

const (
	// BreathingPhaseRest 尚未开始或已停止
	BreathingPhaseRest BreathingPhase = iota
	BreathingPhaseInhale
	BreathingPhaseHold
	BreathingPhaseExhale
	// BreathingPhaseFinished 所有呼吸完成（终态，可以重新开始）
	BreathingPhaseFinished
)

// String 返回 BreathingPhase 的字符串表示
func (p BreathingPhase) String() string {
	switch p {
	case BreathingPhaseRest:
		return "Rest"
	case BreathingPhaseInhale:
		return "Inhale"
	case BreathingPhaseHold:
		return "Hold"
	case BreathingPhaseExhale:
		return "Exhale"
	case BreathingPhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Active 是否处于吸气、屏息或呼气中
func (p BreathingPhase) Active() bool {
	return p == BreathingPhaseInhale || p == BreathingPhaseHold || p == BreathingPhaseExhale
}

// BreathingComponent 呼吸练习的运行状态（纯数据）
// 只有 BreathingSystem 修改这些字段
type BreathingComponent struct {
	// ProgressKey 完成时写入进度的键
	ProgressKey string

	// Generation 每次开始、停止、卸载 +1，旧代数的秒表回调直接丢弃
	Generation uint64

	Phase BreathingPhase

	// SecondsLeft 当前阶段剩余秒数（每秒递减，到 0 切换阶段）
	SecondsLeft int

	// BreathsDone 已完成的呼吸次数
	BreathsDone int

	// OnComplete 全部呼吸完成回调，在进度写入之后调用
	OnComplete func(progressKey string)
}
