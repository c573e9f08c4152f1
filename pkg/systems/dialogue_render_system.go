package systems

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/utils"
)

// 渲染边距（像素）
const (
	dialogueMarginX = 16
	dialogueMarginY = 12
)

// DialogueRenderSystem 用调试字体绘制对话快照
// 只读取 Snapshot，不修改引擎状态
type DialogueRenderSystem struct {
	entityManager *ecs.EntityManager
	dialogue      *DialogueSystem
}

// NewDialogueRenderSystem 创建渲染系统
func NewDialogueRenderSystem(em *ecs.EntityManager, dialogue *DialogueSystem) *DialogueRenderSystem {
	return &DialogueRenderSystem{
		entityManager: em,
		dialogue:      dialogue,
	}
}

// Draw 绘制第一个存活的对话实体
// 行数超出屏幕时只保留最后几行（最新的消息始终可见）
func (s *DialogueRenderSystem) Draw(screen *ebiten.Image) {
	for _, entityID := range ecs.GetEntitiesWith1[*components.DialogueComponent](s.entityManager) {
		snap, ok := s.dialogue.Snapshot(entityID)
		if !ok {
			continue
		}

		bounds := screen.Bounds()
		maxRunes := utils.DebugColumns(bounds.Dx() - 2*dialogueMarginX)
		maxLines := utils.DebugRows(bounds.Dy() - 2*dialogueMarginY)

		lines := DialogueLines(snap, maxRunes)
		if maxLines > 0 && len(lines) > maxLines {
			lines = lines[len(lines)-maxLines:]
		}
		for i, line := range lines {
			ebitenutil.DebugPrintAt(screen, line, dialogueMarginX, dialogueMarginY+i*utils.DebugLineHeight)
		}
		return
	}
}

// DialogueLines 把快照排版成文本行
func DialogueLines(snap DialogueSnapshot, maxRunes int) []string {
	var lines []string
	add := func(prefix, text string) {
		for i, line := range utils.WrapText(text, maxRunes-len(prefix)) {
			if i == 0 {
				lines = append(lines, prefix+line)
			} else {
				lines = append(lines, fmt.Sprintf("%*s%s", len(prefix), "", line))
			}
		}
	}

	if snap.Phase == components.DialoguePhaseIdle {
		return []string{"No scenario loaded."}
	}

	lines = append(lines, fmt.Sprintf("%s  (step %d/%d)", snap.ScenarioTitle, snap.StepIndex+1, snap.StepCount))
	if snap.Context != "" {
		add("", snap.Context)
	}
	lines = append(lines, "")

	for _, m := range snap.VisibleMessages() {
		add(SpeakerLabel(m), m.Text)
	}

	if snap.Step != nil && snap.Step.Description != "" && snap.VisibleCount >= len(snap.Transcript) {
		lines = append(lines, "")
		add("", snap.Step.Description)
	}

	switch snap.Phase {
	case components.DialoguePhaseAwaitingChoice:
		lines = append(lines, "")
		if snap.Step.Prompt != "" {
			add("", snap.Step.Prompt)
		}
		for i, c := range snap.AvailableChoices() {
			add(fmt.Sprintf("[%d] ", i+1), c.Text)
		}
	case components.DialoguePhaseShowingFeedback:
		lines = append(lines, "")
		if choice, ok := snap.SelectedChoice(); ok {
			if choice.IsCorrect {
				add("Correct: ", choice.Feedback)
			} else {
				add("Not quite: ", choice.Feedback)
				lines = append(lines, "Press Enter to try again.")
			}
		}
	case components.DialoguePhaseInformational:
		lines = append(lines, "", "Press Enter to continue.")
	case components.DialoguePhaseComplete:
		lines = append(lines, "",
			fmt.Sprintf("Scenario complete. %d correct out of %d attempts.", snap.CorrectAnswers, snap.TotalAttempts))
	}
	return lines
}

// SpeakerLabel 消息前缀，对方非中性情绪时附带情绪
func SpeakerLabel(m config.Message) string {
	if m.Speaker == config.SpeakerUser {
		return "You: "
	}
	if m.Emotion != "" && m.Emotion != config.EmotionNeutral {
		return fmt.Sprintf("Them (%s): ", m.Emotion)
	}
	return "Them: "
}
