package console

import (
	"io"
	"math"

	"github.com/schollz/progressbar/v3"
)

// Countdown 选对后反馈阶段的倒计时显示
type Countdown interface {
	Start(seconds float64)
	Add(elapsed float64)
	Finish()
}

// BarCountdown 终端进度条倒计时，以 0.1 秒为一格
type BarCountdown struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarCountdown 创建写入 out 的倒计时
func NewBarCountdown(out io.Writer) *BarCountdown {
	return &BarCountdown{out: out}
}

func (c *BarCountdown) Start(seconds float64) {
	c.bar = progressbar.NewOptions(tenths(seconds),
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Next step"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *BarCountdown) Add(elapsed float64) {
	if c.bar != nil {
		_ = c.bar.Add(tenths(elapsed))
	}
}

func (c *BarCountdown) Finish() {
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}
}

func tenths(seconds float64) int {
	return int(math.Round(seconds * 10))
}

// NopCountdown 不显示倒计时
type NopCountdown struct{}

func (NopCountdown) Start(float64) {}
func (NopCountdown) Add(float64)   {}
func (NopCountdown) Finish()       {}
