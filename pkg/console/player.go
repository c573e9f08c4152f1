// Package console 在终端中运行对话场景
//
// 与窗口版共用同一个对话引擎：Player 以固定步长推进调度器，
// 把新显示的消息逐条打印，并在决策点通过 Chooser 取得选择。
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/entities"
	"github.com/gonewx/softskills/pkg/systems"
	"github.com/gonewx/softskills/pkg/utils"
)

// DefaultTick 模拟步长（秒）
const DefaultTick = 0.1

// DefaultMaxSeconds 单个场景默认允许的最长模拟时间
const DefaultMaxSeconds = 3600

var (
	ErrEmptyScenario = errors.New("scenario has no steps")
	ErrStalled       = errors.New("dialogue made no progress")
)

// Options Player 配置
type Options struct {
	Out       io.Writer
	Chooser   Chooser
	Countdown Countdown // 为 nil 时不显示
	Progress  systems.ProgressMarker
	Pacing    config.PacingConfig
	Logger    *zap.Logger

	// Tick 每次推进的模拟秒数，<= 0 时使用 DefaultTick
	Tick float64
	// Realtime 为 true 时每个 tick 真实等待，否则尽快跑完
	Realtime bool
	// Width 换行宽度（字符），<= 0 不换行
	Width int
	// MaxSeconds 模拟时间超过该值仍未完成时返回 ErrStalled，<= 0 使用 DefaultMaxSeconds
	MaxSeconds float64
}

// Result 一次场景运行的结果
type Result struct {
	RunID          string
	ScenarioID     string
	ProgressKey    string
	Completed      bool
	CorrectAnswers int
	TotalAttempts  int
	// Elapsed 模拟经过的秒数
	Elapsed float64
}

// Player 终端对话播放器
type Player struct {
	opts   Options
	logger *zap.Logger
}

// NewPlayer 创建播放器
func NewPlayer(opts Options) *Player {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.MaxSeconds <= 0 {
		opts.MaxSeconds = DefaultMaxSeconds
	}
	if opts.Countdown == nil {
		opts.Countdown = NopCountdown{}
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Player{
		opts:   opts,
		logger: utils.OrNop(opts.Logger).Named("ConsolePlayer"),
	}
}

// run 单次运行的状态
type run struct {
	dialogue *systems.DialogueSystem
	entity   ecs.EntityID
	printed  int
	elapsed  float64
	counting bool
}

// Play 运行一个场景直到完成、出错或 ctx 取消
func (p *Player) Play(ctx context.Context, scenario *config.Scenario, progressKey string) (Result, error) {
	if scenario == nil || len(scenario.Steps) == 0 {
		return Result{}, ErrEmptyScenario
	}

	em := ecs.NewEntityManager()
	timers := systems.NewTimerSystem(em, p.opts.Logger)
	dialogue := systems.NewDialogueSystem(em, timers, p.opts.Progress, p.opts.Pacing, p.opts.Logger)

	entityID, err := entities.NewDialogueEntity(em, entities.DialogueOptions{ProgressKey: progressKey})
	if err != nil {
		return Result{}, err
	}
	dialogue.Initialize(entityID, scenario)
	defer dialogue.Unmount(entityID)

	r := &run{dialogue: dialogue, entity: entityID}
	p.printHeader(scenario)

	for {
		if err := ctx.Err(); err != nil {
			return p.result(r), err
		}
		if r.elapsed > p.opts.MaxSeconds {
			return p.result(r), ErrStalled
		}

		snap, ok := dialogue.Snapshot(entityID)
		if !ok {
			return p.result(r), fmt.Errorf("dialogue entity %d is gone", entityID)
		}
		p.printNewMessages(r, snap)

		switch snap.Phase {
		case components.DialoguePhaseComplete:
			p.finishCountdown(r)
			res := p.result(r)
			p.printf("\nScenario complete. %d correct out of %d attempts.\n", res.CorrectAnswers, res.TotalAttempts)
			return res, nil

		case components.DialoguePhaseAwaitingChoice:
			p.finishCountdown(r)
			if err := p.choose(r, snap); err != nil {
				return p.result(r), err
			}
			continue

		case components.DialoguePhaseShowingFeedback:
			if choice, ok := snap.SelectedChoice(); ok && !choice.IsCorrect {
				if err := p.opts.Chooser.Continue("Press Enter to try again"); err != nil {
					return p.result(r), err
				}
				dialogue.ContinueAfterIncorrect(entityID)
				continue
			}
			if !r.counting {
				r.counting = true
				p.opts.Countdown.Start(p.opts.Pacing.FeedbackDelay)
			}

		case components.DialoguePhaseInformational:
			p.finishCountdown(r)
			if err := p.opts.Chooser.Continue("Press Enter to continue"); err != nil {
				return p.result(r), err
			}
			dialogue.FinishInformational(entityID)
			continue

		default:
			p.finishCountdown(r)
		}

		p.tick(r)
	}
}

// choose 向 Chooser 要一个选项并打印反馈
func (p *Player) choose(r *run, snap systems.DialogueSnapshot) error {
	choices := snap.AvailableChoices()
	if snap.Step.Prompt != "" {
		p.printf("\n%s\n", snap.Step.Prompt)
	}
	for i, c := range choices {
		p.printf("  [%d] %s\n", i+1, c.Text)
	}

	idx, err := p.opts.Chooser.Choose(snap.Step.Prompt, choices)
	if err != nil {
		return err
	}
	r.dialogue.PressDigit(r.entity, idx+1)

	after, ok := r.dialogue.Snapshot(r.entity)
	if !ok {
		return fmt.Errorf("dialogue entity %d is gone", r.entity)
	}
	choice, ok := after.SelectedChoice()
	if !ok {
		return fmt.Errorf("choice %d was not accepted", idx+1)
	}

	verdict := "Not quite"
	if choice.IsCorrect {
		verdict = "Correct"
	}
	p.printf("> %s\n", choice.Text)
	p.printWrapped(verdict+": ", choice.Feedback)
	return nil
}

func (p *Player) tick(r *run) {
	if p.opts.Realtime {
		time.Sleep(time.Duration(p.opts.Tick * float64(time.Second)))
	}
	r.dialogue.Update(p.opts.Tick)
	r.elapsed += p.opts.Tick
	if r.counting {
		p.opts.Countdown.Add(p.opts.Tick)
	}
}

func (p *Player) finishCountdown(r *run) {
	if r.counting {
		p.opts.Countdown.Finish()
		r.counting = false
	}
}

// printNewMessages 打印上次之后新显示的消息
// 用户选对后的回答已经由 choose 打印，这里跳过
func (p *Player) printNewMessages(r *run, snap systems.DialogueSnapshot) {
	if snap.VisibleCount < r.printed {
		r.printed = 0
	}
	for _, m := range snap.VisibleMessages()[r.printed:] {
		if strings.HasPrefix(m.ID, config.UserAnswerIDPrefix) {
			continue
		}
		p.printWrapped(systems.SpeakerLabel(m), m.Text)
	}
	r.printed = snap.VisibleCount
}

func (p *Player) printHeader(s *config.Scenario) {
	p.printf("== %s ==\n", s.Title)
	if s.Context != "" {
		p.printWrapped("", s.Context)
	}
	p.printf("\n")
}

func (p *Player) printWrapped(label, text string) {
	if p.opts.Width <= 0 {
		p.printf("%s%s\n", label, text)
		return
	}
	indent := strings.Repeat(" ", len(label))
	for i, line := range utils.WrapText(text, p.opts.Width-len(label)) {
		prefix := indent
		if i == 0 {
			prefix = label
		}
		p.printf("%s%s\n", prefix, line)
	}
}

func (p *Player) printf(format string, args ...any) {
	fmt.Fprintf(p.opts.Out, format, args...)
}

func (p *Player) result(r *run) Result {
	res := Result{Elapsed: r.elapsed}
	snap, ok := r.dialogue.Snapshot(r.entity)
	if !ok {
		return res
	}
	res.RunID = snap.RunID
	res.ScenarioID = snap.ScenarioID
	res.ProgressKey = snap.ProgressKey
	res.Completed = snap.Completed
	res.CorrectAnswers = snap.CorrectAnswers
	res.TotalAttempts = snap.TotalAttempts
	return res
}
