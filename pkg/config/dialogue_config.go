package config

// 对话节奏（秒）
// 引擎以 Update(dt) 推进时间，dt 单位为秒，与游戏主循环一致
const (
	// RevealIntervalSeconds 相邻两条消息的显示间隔
	RevealIntervalSeconds = 1.0

	// AnswersRevealDelaySeconds 对方最后一条消息显示后，到选项出现之间的阅读停顿
	AnswersRevealDelaySeconds = 1.0

	// FeedbackDisplaySeconds 选对后反馈的展示时长，结束后自动进入下一步
	FeedbackDisplaySeconds = 3.0
)

// 进度存储（gdata object/property）
const (
	// ProgressObjectKey 进度数据所在的 gdata 对象
	ProgressObjectKey = "progress"

	// ProgressPropertyKey 已完成练习 ID 的 JSON 数组所在的属性（固定键）
	ProgressPropertyKey = "completedExercises"
)

// DefaultAppName gdata 使用的应用名（决定存档目录）
const DefaultAppName = "softskills_trainer"

// 数据文件默认路径（同时也是内嵌路径）
const (
	DefaultScenarioFile = "data/scenarios.yaml"
	DefaultExerciseFile = "data/exercises.yaml"
)

// 窗口与主循环
const (
	GameWindowWidth  = 800
	GameWindowHeight = 600
	WindowTitle      = "Soft Skills Trainer"

	// DefaultTickRate 主循环每秒 tick 数（ebiten 默认 60）
	DefaultTickRate = 60
)

// UserAnswerIDPrefix 选对后追加到对话记录的用户消息 ID 前缀
const UserAnswerIDPrefix = "answer-"

// 4-7-8 呼吸练习（秒）
const (
	InhaleSeconds = 4
	HoldSeconds   = 7
	ExhaleSeconds = 8

	// BreathCount 一次练习的呼吸次数
	BreathCount = 5

	// BreathingProgressKey 目录中没有呼吸练习时使用的进度键
	BreathingProgressKey = "stress-management"
)
