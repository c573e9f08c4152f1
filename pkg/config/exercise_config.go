package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Difficulty 练习难度
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ExerciseType 练习形式
// chat 类型由对话引擎驱动，breathing 由呼吸练习驱动，其他类型仅在目录中列出
type ExerciseType string

const (
	ExerciseTypeChat        ExerciseType = "chat"
	ExerciseTypeDragDrop    ExerciseType = "drag-drop"
	ExerciseTypeQuiz        ExerciseType = "quiz"
	ExerciseTypeInteractive ExerciseType = "interactive"
	ExerciseTypeBreathing   ExerciseType = "breathing"
)

// Exercise 练习目录中的一项
type Exercise struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Difficulty  Difficulty   `yaml:"difficulty"`
	Duration    string       `yaml:"duration"`
	Type        ExerciseType `yaml:"type"`

	// Scenarios 该练习依次使用的场景 ID（仅 chat 类型）
	Scenarios []string `yaml:"scenarios,omitempty"`

	// ProgressKey 只有一个场景时，引擎完成后写入进度的键
	// 为空时使用场景自己的 ID
	ProgressKey string `yaml:"progressKey,omitempty"`
}

// IsDialogue 练习是否由对话引擎驱动
func (e *Exercise) IsDialogue() bool {
	return e.Type == ExerciseTypeChat && len(e.Scenarios) > 0
}

// IsBreathing 练习是否为呼吸练习
func (e *Exercise) IsBreathing() bool {
	return e.Type == ExerciseTypeBreathing
}

// IsPlayable 练习能否在训练器中进行
func (e *Exercise) IsPlayable() bool {
	return e.IsDialogue() || e.IsBreathing()
}

// CompletionKey 练习整体完成时写入进度的键
func (e *Exercise) CompletionKey() string {
	if e.ProgressKey != "" {
		return e.ProgressKey
	}
	return e.ID
}

// ExerciseCategory 练习分类
type ExerciseCategory struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Exercises   []Exercise `yaml:"exercises"`
}

// ExerciseCatalog 练习目录
type ExerciseCatalog struct {
	Categories []ExerciseCategory `yaml:"categories"`
}

// All 按目录顺序展开所有练习
func (c *ExerciseCatalog) All() []Exercise {
	var all []Exercise
	for _, cat := range c.Categories {
		all = append(all, cat.Exercises...)
	}
	return all
}

// Find 按 ID 查找练习
func (c *ExerciseCatalog) Find(id string) (*Exercise, bool) {
	for ci := range c.Categories {
		for ei := range c.Categories[ci].Exercises {
			if c.Categories[ci].Exercises[ei].ID == id {
				return &c.Categories[ci].Exercises[ei], true
			}
		}
	}
	return nil, false
}

var (
	ErrDuplicateExerciseID = errors.New("duplicate exercise id")
	ErrUnknownDifficulty   = errors.New("unknown difficulty")
	ErrUnknownExerciseType = errors.New("unknown exercise type")
	ErrUnknownScenario     = errors.New("unknown scenario")
)

var validDifficulties = map[Difficulty]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

var validExerciseTypes = map[ExerciseType]bool{
	ExerciseTypeChat:        true,
	ExerciseTypeDragDrop:    true,
	ExerciseTypeQuiz:        true,
	ExerciseTypeInteractive: true,
	ExerciseTypeBreathing:   true,
}

// ParseExerciseCatalog 解析并校验练习目录
// scenarios 不为 nil 时，同时检查 chat 练习引用的场景是否存在
func ParseExerciseCatalog(data []byte, scenarios *ScenarioCatalog) (*ExerciseCatalog, error) {
	var catalog ExerciseCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse exercise catalog YAML: %w", err)
	}

	seen := make(map[string]bool)
	for _, cat := range catalog.Categories {
		for _, ex := range cat.Exercises {
			if ex.ID == "" {
				return nil, fmt.Errorf("category %s: exercise %w", cat.ID, ErrEmptyID)
			}
			if seen[ex.ID] {
				return nil, fmt.Errorf("%w %q", ErrDuplicateExerciseID, ex.ID)
			}
			seen[ex.ID] = true

			if !validDifficulties[ex.Difficulty] {
				return nil, fmt.Errorf("exercise %s: %w %q", ex.ID, ErrUnknownDifficulty, ex.Difficulty)
			}
			if !validExerciseTypes[ex.Type] {
				return nil, fmt.Errorf("exercise %s: %w %q", ex.ID, ErrUnknownExerciseType, ex.Type)
			}
			if scenarios == nil {
				continue
			}
			for _, sid := range ex.Scenarios {
				if _, ok := scenarios.Find(sid); !ok {
					return nil, fmt.Errorf("exercise %s: %w %q", ex.ID, ErrUnknownScenario, sid)
				}
			}
		}
	}

	return &catalog, nil
}

// LoadExerciseCatalog 从文件（或内嵌副本）加载练习目录
func LoadExerciseCatalog(path string, scenarios *ScenarioCatalog) (*ExerciseCatalog, error) {
	data, err := readDataFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise catalog: %w", err)
	}
	return ParseExerciseCatalog(data, scenarios)
}
