package scenes

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/game"
	"github.com/gonewx/softskills/pkg/utils"
)

var catalogBackground = color.RGBA{R: 30, G: 42, B: 36, A: 255}

// 目录选择快捷键
var catalogDigitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// CatalogScene 练习目录
// 列出所有练习及完成状态，对话和呼吸练习可以用数字键进入
type CatalogScene struct {
	state        *game.TrainerState
	sceneManager *game.SceneManager

	playable []config.Exercise
	lines    []string

	unsubscribe func()
}

// NewCatalogScene 创建目录场景并订阅进度变化
func NewCatalogScene(state *game.TrainerState, sm *game.SceneManager) *CatalogScene {
	s := &CatalogScene{
		state:        state,
		sceneManager: sm,
		playable:     state.PlayableExercises(),
	}
	s.refresh()
	s.unsubscribe = state.Progress.Subscribe(func(string) { s.refresh() })
	return s
}

// refresh 重新排版目录文本
func (s *CatalogScene) refresh() {
	s.lines = CatalogLines(s.state.Exercises, s.playable, s.state.Progress)
}

// Lines 当前目录文本
func (s *CatalogScene) Lines() []string {
	return s.lines
}

// Select 进入第 n 个（从 1 开始）可进行的练习
func (s *CatalogScene) Select(n int) bool {
	if n < 1 || n > len(s.playable) {
		return false
	}
	s.sceneManager.LoadExercise(s.playable[n-1].ID)
	return true
}

// Update 处理目录选择
func (s *CatalogScene) Update(deltaTime float64) {
	for i, key := range catalogDigitKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.Select(i + 1)
			return
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		s.sceneManager.LoadExercise(SessionSceneID)
	}
}

// Draw 绘制目录
func (s *CatalogScene) Draw(screen *ebiten.Image) {
	screen.Fill(catalogBackground)
	for i, line := range s.lines {
		ebitenutil.DebugPrintAt(screen, line, 16, 12+i*utils.DebugLineHeight)
	}
}

// OnExit 取消进度订阅
func (s *CatalogScene) OnExit() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// CatalogLines 排版练习目录
// 可进行的练习带编号，其他类型只列出
func CatalogLines(catalog *config.ExerciseCatalog, playable []config.Exercise, progress game.CompletionChecker) []string {
	summary := game.CatalogProgress(catalog, progress)
	lines := []string{
		"Soft skills trainer",
		fmt.Sprintf("Progress: %d/%d exercises (%d%%)", summary.Completed, summary.Total, summary.Percent),
		"",
	}

	number := make(map[string]int, len(playable))
	for i, ex := range playable {
		number[ex.ID] = i + 1
	}

	for _, cat := range catalog.Categories {
		lines = append(lines, cat.Title)
		for _, ex := range cat.Exercises {
			mark := "[ ]"
			if progress.IsCompleted(ex.CompletionKey()) {
				mark = "[x]"
			}
			prefix := "    "
			if n, ok := number[ex.ID]; ok {
				prefix = fmt.Sprintf(" %d) ", n)
			}
			lines = append(lines, fmt.Sprintf("%s%s %s  (%s, %s, %s)",
				prefix, mark, ex.Title, ex.Difficulty, ex.Duration, ex.Type))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "1-9: open exercise   Enter: continue training")
	return lines
}
