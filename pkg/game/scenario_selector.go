package game

import (
	"errors"
	"math"

	"github.com/gonewx/softskills/pkg/config"
)

// ErrAllComplete 所有候选场景都已完成
var ErrAllComplete = errors.New("all scenarios completed")

// CompletionChecker 只读的完成状态查询
type CompletionChecker interface {
	IsCompleted(id string) bool
}

// NextScenario 按目录顺序返回第一个未完成的场景
// 全部完成时返回 ErrAllComplete，调用方应显示"全部完成"视图而不是启动引擎
func NextScenario(catalog *config.ScenarioCatalog, progress CompletionChecker) (*config.Scenario, error) {
	if catalog == nil {
		return nil, ErrAllComplete
	}
	return NextScenarioOf(catalog, catalog.IDs(), progress)
}

// NextScenarioOf 在给定的场景 ID 列表中按顺序选择第一个未完成的场景
// 用于绑定多个场景的练习；目录中不存在的 ID 被跳过
func NextScenarioOf(catalog *config.ScenarioCatalog, ids []string, progress CompletionChecker) (*config.Scenario, error) {
	for _, id := range ids {
		scenario, ok := catalog.Find(id)
		if !ok {
			continue
		}
		if progress != nil && progress.IsCompleted(scenario.ID) {
			continue
		}
		return scenario, nil
	}
	return nil, ErrAllComplete
}

// NextExerciseScenario 练习中下一个未完成的场景
// 练习本身已完成时返回 ErrAllComplete；场景是否完成按 ExerciseScenarioKey 判断
func NextExerciseScenario(catalog *config.ScenarioCatalog, exercise *config.Exercise, progress CompletionChecker) (*config.Scenario, error) {
	if progress.IsCompleted(exercise.CompletionKey()) {
		return nil, ErrAllComplete
	}
	for _, id := range exercise.Scenarios {
		scenario, ok := catalog.Find(id)
		if !ok || progress.IsCompleted(ExerciseScenarioKey(exercise, id)) {
			continue
		}
		return scenario, nil
	}
	return nil, ErrAllComplete
}

// ExerciseScenarioKey 多场景练习中单个场景的进度键
// 单场景练习直接使用练习自己的完成键
func ExerciseScenarioKey(exercise *config.Exercise, scenarioID string) string {
	if len(exercise.Scenarios) == 1 {
		return exercise.CompletionKey()
	}
	return scenarioID
}

// ExerciseDone 练习的所有场景是否都已完成
func ExerciseDone(exercise *config.Exercise, progress CompletionChecker) bool {
	if progress.IsCompleted(exercise.CompletionKey()) {
		return true
	}
	if len(exercise.Scenarios) <= 1 {
		return false
	}
	for _, id := range exercise.Scenarios {
		if !progress.IsCompleted(id) {
			return false
		}
	}
	return true
}

// ProgressSummary 练习目录的完成情况
type ProgressSummary struct {
	Completed int
	Total     int
	Percent   int // 四舍五入的百分比
}

// CatalogProgress 统计目录中已完成的练习
func CatalogProgress(catalog *config.ExerciseCatalog, progress CompletionChecker) ProgressSummary {
	var summary ProgressSummary
	if catalog == nil {
		return summary
	}
	for _, ex := range catalog.All() {
		summary.Total++
		if progress.IsCompleted(ex.CompletionKey()) {
			summary.Completed++
		}
	}
	if summary.Total > 0 {
		summary.Percent = int(math.Round(float64(summary.Completed) * 100 / float64(summary.Total)))
	}
	return summary
}
