package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/utils"
)

// TrainerState 运行期共享状态
//
// 场景目录和练习目录在启动时整体加载，运行期只读；
// ProgressManager 是唯一可写的共享资源。
type TrainerState struct {
	Config    *config.AppConfig
	Scenarios *config.ScenarioCatalog
	Exercises *config.ExerciseCatalog
	Progress  *ProgressManager
	Logger    *zap.Logger
}

// NewTrainerState 加载目录并打开进度存储
//
// 目录加载或校验失败是致命错误；存储打不开时降级为仅内存进度。
func NewTrainerState(cfg *config.AppConfig, logger *zap.Logger) (*TrainerState, error) {
	logger = utils.OrNop(logger)

	scenarios, err := config.LoadScenarioCatalog(cfg.ScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("loading scenarios: %w", err)
	}

	exercises, err := config.LoadExerciseCatalog(cfg.ExerciseFile, scenarios)
	if err != nil {
		return nil, fmt.Errorf("loading exercises: %w", err)
	}

	var store KeyValueStore
	manager, err := OpenStorage(cfg.AppName)
	if err != nil {
		logger.Warn("progress storage unavailable, progress will not be saved", zap.Error(err))
	} else {
		store = manager
	}

	logger.Debug("trainer state ready",
		zap.Int("scenarios", len(scenarios.Scenarios)),
		zap.Int("exercises", len(exercises.All())))

	return &TrainerState{
		Config:    cfg,
		Scenarios: scenarios,
		Exercises: exercises,
		Progress:  NewProgressManager(store, logger),
		Logger:    logger,
	}, nil
}

// NewTrainerStateWithStore 使用给定存储构建状态（测试与工具命令使用）
func NewTrainerStateWithStore(
	cfg *config.AppConfig,
	scenarios *config.ScenarioCatalog,
	exercises *config.ExerciseCatalog,
	store KeyValueStore,
	logger *zap.Logger,
) *TrainerState {
	logger = utils.OrNop(logger)
	return &TrainerState{
		Config:    cfg,
		Scenarios: scenarios,
		Exercises: exercises,
		Progress:  NewProgressManager(store, logger),
		Logger:    logger,
	}
}

// DialogueExercises 目录中由对话引擎驱动的练习
func (ts *TrainerState) DialogueExercises() []config.Exercise {
	var result []config.Exercise
	for _, ex := range ts.Exercises.All() {
		if ex.IsDialogue() {
			result = append(result, ex)
		}
	}
	return result
}

// PlayableExercises 目录中可以在窗口中进行的练习（对话与呼吸）
func (ts *TrainerState) PlayableExercises() []config.Exercise {
	var result []config.Exercise
	for _, ex := range ts.Exercises.All() {
		if ex.IsPlayable() {
			result = append(result, ex)
		}
	}
	return result
}

// BreathingExercise 目录中的第一个呼吸练习
func (ts *TrainerState) BreathingExercise() (*config.Exercise, bool) {
	for _, ex := range ts.Exercises.All() {
		if ex.IsBreathing() {
			return ts.Exercises.Find(ex.ID)
		}
	}
	return nil, false
}

// MarkExerciseIfDone 练习的所有场景完成后标记练习本身
// 返回练习是否已完成
func (ts *TrainerState) MarkExerciseIfDone(exercise *config.Exercise) bool {
	if exercise == nil || !ExerciseDone(exercise, ts.Progress) {
		return false
	}
	ts.Progress.MarkCompleted(exercise.CompletionKey())
	return true
}
