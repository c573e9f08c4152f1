package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/components"
	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/ecs"
	"github.com/gonewx/softskills/pkg/entities"
	"github.com/gonewx/softskills/pkg/systems"
	"github.com/gonewx/softskills/pkg/utils"
)

// BreathingOptions BreathingRunner 配置
type BreathingOptions struct {
	Out io.Writer
	// Countdown 每个阶段一条倒计时，为 nil 时不显示
	Countdown Countdown
	Progress  systems.ProgressMarker
	Pattern   config.BreathingConfig
	Logger    *zap.Logger

	Tick       float64
	Realtime   bool
	MaxSeconds float64
}

// BreathingResult 一次呼吸练习的结果
type BreathingResult struct {
	ProgressKey string
	BreathsDone int
	Completed   bool
	Elapsed     float64
}

// BreathingRunner 终端呼吸练习
// 与窗口版共用 BreathingSystem，每次阶段切换打印一行提示
type BreathingRunner struct {
	opts   BreathingOptions
	logger *zap.Logger
}

// NewBreathingRunner 创建呼吸练习运行器
func NewBreathingRunner(opts BreathingOptions) *BreathingRunner {
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
	return &BreathingRunner{
		opts:   opts,
		logger: utils.OrNop(opts.Logger).Named("ConsoleBreathing"),
	}
}

// Run 运行一次完整练习，直到完成、超时或 ctx 取消
func (b *BreathingRunner) Run(ctx context.Context, progressKey string) (BreathingResult, error) {
	if err := b.opts.Pattern.Validate(); err != nil {
		return BreathingResult{}, err
	}

	em := ecs.NewEntityManager()
	timers := systems.NewTimerSystem(em, b.opts.Logger)
	breathing := systems.NewBreathingSystem(em, timers, b.opts.Progress, b.opts.Pattern, b.opts.Logger)

	entityID, err := entities.NewBreathingEntity(em, entities.BreathingOptions{ProgressKey: progressKey})
	if err != nil {
		return BreathingResult{}, err
	}
	defer breathing.Unmount(entityID)
	breathing.Start(entityID)

	res := BreathingResult{}
	lastPhase := components.BreathingPhaseRest
	lastBreath := 0

	for {
		snap, ok := breathing.Snapshot(entityID)
		if !ok {
			return res, fmt.Errorf("breathing entity %d is gone", entityID)
		}
		res.ProgressKey = snap.ProgressKey
		res.BreathsDone = snap.BreathsDone

		if snap.Phase != lastPhase || snap.CurrentBreath() != lastBreath {
			b.opts.Countdown.Finish()
			if snap.CurrentBreath() != lastBreath && snap.Phase.Active() {
				b.printf("\nBreath %d of %d\n", snap.CurrentBreath(), snap.Breaths)
			}
			lastPhase, lastBreath = snap.Phase, snap.CurrentBreath()

			if snap.Finished() {
				res.Completed = true
				for _, line := range systems.BreathingLines(snap) {
					b.printf("%s\n", line)
				}
				return res, nil
			}
			b.printf("  %s (%ds)\n", systems.BreathingInstruction(snap.Phase), snap.SecondsLeft)
			b.opts.Countdown.Start(float64(snap.SecondsLeft))
		}

		if err := ctx.Err(); err != nil {
			b.opts.Countdown.Finish()
			return res, err
		}
		if res.Elapsed > b.opts.MaxSeconds {
			b.opts.Countdown.Finish()
			return res, ErrStalled
		}

		if b.opts.Realtime {
			time.Sleep(time.Duration(b.opts.Tick * float64(time.Second)))
		}
		breathing.Update(b.opts.Tick)
		res.Elapsed += b.opts.Tick
		b.opts.Countdown.Add(b.opts.Tick)
	}
}

func (b *BreathingRunner) printf(format string, args ...any) {
	fmt.Fprintf(b.opts.Out, format, args...)
}
