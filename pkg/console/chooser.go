package console

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/gonewx/softskills/pkg/config"
)

// Chooser 在决策点上给出用户的选择
type Chooser interface {
	// Choose 返回所选选项的下标
	Choose(prompt string, choices []config.Choice) (int, error)
	// Continue 等待用户确认继续（错误反馈、展示步骤之后）
	Continue(label string) error
}

// PromptChooser 终端交互选择（promptui）
type PromptChooser struct{}

// Choose 用方向键或数字选择
func (PromptChooser) Choose(prompt string, choices []config.Choice) (int, error) {
	items := make([]string, len(choices))
	for i, c := range choices {
		items[i] = c.Text
	}
	sel := promptui.Select{
		Label: prompt,
		Items: items,
		Size:  len(items),
	}
	idx, _, err := sel.Run()
	if err != nil {
		return 0, fmt.Errorf("choice selection: %w", err)
	}
	return idx, nil
}

// Continue 按回车继续
func (PromptChooser) Continue(label string) error {
	p := promptui.Prompt{Label: label}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("continue prompt: %w", err)
	}
	return nil
}

// ScriptedChooser 无交互的选择策略，供 simulate 命令和测试使用
//
// WrongFirst 为 true 时，每个决策点先选第一个错误选项，再选正确选项。
type ScriptedChooser struct {
	WrongFirst bool

	triedWrong map[string]bool
}

// Choose 返回正确选项（必要时先返回一个错误选项）
func (s *ScriptedChooser) Choose(prompt string, choices []config.Choice) (int, error) {
	correct := -1
	wrong := -1
	for i, c := range choices {
		if c.IsCorrect && correct < 0 {
			correct = i
		}
		if !c.IsCorrect && wrong < 0 {
			wrong = i
		}
	}
	if correct < 0 {
		return 0, fmt.Errorf("no correct choice for %q", prompt)
	}

	if s.WrongFirst && wrong >= 0 {
		if s.triedWrong == nil {
			s.triedWrong = make(map[string]bool)
		}
		key := choices[wrong].ID
		if !s.triedWrong[key] {
			s.triedWrong[key] = true
			return wrong, nil
		}
	}
	return correct, nil
}

// Continue 直接继续
func (s *ScriptedChooser) Continue(string) error {
	return nil
}
