package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/softskills/pkg/embedded"
)

// Speaker 消息的说话方
type Speaker string

const (
	// SpeakerUser 学员自己（经理）
	SpeakerUser Speaker = "user"
	// SpeakerOther 对话对象（下属、同事）
	SpeakerOther Speaker = "other"
)

// Emotion 消息的情绪标签，仅用于展示头像
type Emotion string

const (
	EmotionNeutral    Emotion = "neutral"
	EmotionStressed   Emotion = "stressed"
	EmotionFrustrated Emotion = "frustrated"
	EmotionDetermined Emotion = "determined"
	EmotionAngry      Emotion = "angry"
	EmotionConcerned  Emotion = "concerned"
	EmotionSatisfied  Emotion = "satisfied"
	EmotionDefensive  Emotion = "defensive"
)

// Message 一条对话消息（编写后不可变）
type Message struct {
	ID      string  `yaml:"id"`
	Speaker Speaker `yaml:"speaker"`
	Text    string  `yaml:"text"`
	Emotion Emotion `yaml:"emotion,omitempty"`
}

// Choice 决策点上的一个选项
type Choice struct {
	ID        string `yaml:"id"`
	Text      string `yaml:"text"`
	IsCorrect bool   `yaml:"isCorrect"`
	Feedback  string `yaml:"feedback"`
}

// DialogueStep 场景中的一个交流单元：若干消息 + 可选的决策点
//
// Choices 为空（缺省或显式空列表）的步骤是纯展示步骤，没有选择阶段。
type DialogueStep struct {
	ID          string    `yaml:"id"`
	Messages    []Message `yaml:"messages"`
	Prompt      string    `yaml:"prompt,omitempty"`
	Choices     []Choice  `yaml:"choices,omitempty"`
	Description string    `yaml:"description,omitempty"`
}

// HasChoices 步骤是否包含决策点
func (s *DialogueStep) HasChoices() bool {
	return len(s.Choices) > 0
}

// FindChoice 按 ID 查找选项，返回选项及其下标
func (s *DialogueStep) FindChoice(choiceID string) (Choice, int, bool) {
	for i, c := range s.Choices {
		if c.ID == choiceID {
			return c, i, true
		}
	}
	return Choice{}, -1, false
}

// Scenario 完整的训练对话，按步骤顺序组织
type Scenario struct {
	ID        string         `yaml:"id"`
	Title     string         `yaml:"title"`
	Situation string         `yaml:"situation,omitempty"`
	Context   string         `yaml:"context"`
	Steps     []DialogueStep `yaml:"steps"`
}

// LastStepIndex 最后一个步骤的下标；无步骤时为 -1
func (s *Scenario) LastStepIndex() int {
	return len(s.Steps) - 1
}

// ScenarioCatalog 有序的场景目录（运行时只读）
type ScenarioCatalog struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Find 按 ID 查找场景
func (c *ScenarioCatalog) Find(id string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].ID == id {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// IDs 按目录顺序返回所有场景 ID
func (c *ScenarioCatalog) IDs() []string {
	ids := make([]string, 0, len(c.Scenarios))
	for _, s := range c.Scenarios {
		ids = append(ids, s.ID)
	}
	return ids
}

// 场景数据校验错误
var (
	ErrNoSteps             = errors.New("scenario has no steps")
	ErrNoCorrectChoice     = errors.New("step has choices but none is correct")
	ErrDuplicateChoiceID   = errors.New("duplicate choice id")
	ErrUnknownSpeaker      = errors.New("unknown speaker")
	ErrEmptyID             = errors.New("empty id")
	ErrDuplicateScenarioID = errors.New("duplicate scenario id")
)

// ValidateScenario 在加载时检查场景数据
//
// 引擎本身不做任何校验：畸形数据直接交给引擎只会卡在无法离开的状态。
// 因此目录加载阶段在这里拦截。
func ValidateScenario(s *Scenario) error {
	if s.ID == "" {
		return fmt.Errorf("scenario: %w", ErrEmptyID)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %s: %w", s.ID, ErrNoSteps)
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		for _, m := range step.Messages {
			if m.Speaker != SpeakerUser && m.Speaker != SpeakerOther {
				return fmt.Errorf("scenario %s step %d message %s: %w %q", s.ID, i, m.ID, ErrUnknownSpeaker, m.Speaker)
			}
		}

		if !step.HasChoices() {
			continue
		}

		seen := make(map[string]bool, len(step.Choices))
		hasCorrect := false
		for _, c := range step.Choices {
			if c.ID == "" {
				return fmt.Errorf("scenario %s step %d choice: %w", s.ID, i, ErrEmptyID)
			}
			if seen[c.ID] {
				return fmt.Errorf("scenario %s step %d: %w %q", s.ID, i, ErrDuplicateChoiceID, c.ID)
			}
			seen[c.ID] = true
			hasCorrect = hasCorrect || c.IsCorrect
		}
		if !hasCorrect {
			return fmt.Errorf("scenario %s step %d (%s): %w", s.ID, i, step.ID, ErrNoCorrectChoice)
		}
	}

	return nil
}

// ParseScenarioCatalog 解析并校验 YAML 格式的场景目录
func ParseScenarioCatalog(data []byte) (*ScenarioCatalog, error) {
	var catalog ScenarioCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse scenario catalog YAML: %w", err)
	}

	seen := make(map[string]bool, len(catalog.Scenarios))
	for i := range catalog.Scenarios {
		s := &catalog.Scenarios[i]
		if err := ValidateScenario(s); err != nil {
			return nil, fmt.Errorf("invalid scenario catalog: %w", err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("invalid scenario catalog: %w %q", ErrDuplicateScenarioID, s.ID)
		}
		seen[s.ID] = true
	}

	return &catalog, nil
}

// LoadScenarioCatalog 从文件加载场景目录
// 磁盘上存在该文件时优先使用磁盘版本，否则读取内嵌副本
func LoadScenarioCatalog(path string) (*ScenarioCatalog, error) {
	data, err := readDataFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario catalog: %w", err)
	}
	return ParseScenarioCatalog(data)
}

// readDataFile 先读磁盘，失败后回退到 embedded
func readDataFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) || !embedded.Exists(path) {
		return nil, err
	}
	return embedded.ReadFile(path)
}
