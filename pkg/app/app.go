// Package app 提供训练窗口的核心包装器
//
// 该包将窗口初始化逻辑从命令行入口中提取出来，cmd 包的 window 命令通过 NewApp() 启动。
package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/gonewx/softskills/pkg/config"
	"github.com/gonewx/softskills/pkg/game"
	"github.com/gonewx/softskills/pkg/scenes"
	"github.com/gonewx/softskills/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// AppConfig 已加载的应用配置，为 nil 时使用默认值
	AppConfig *config.AppConfig
	// Exercise 直接打开的练习 ID；为空显示练习目录
	Exercise string
	// Logger 可为 nil
	Logger *zap.Logger
	// State 预先构建的训练状态（测试使用），为 nil 时按 AppConfig 加载
	State *game.TrainerState
}

// App 是训练应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	state                    *game.TrainerState
	logger                   *zap.Logger
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化训练应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化内嵌数据。
func NewApp(cfg Config) (*App, error) {
	logger := utils.OrNop(cfg.Logger).Named("App")
	appConfig := cfg.AppConfig
	if appConfig == nil {
		appConfig = config.DefaultAppConfig()
	}

	state := cfg.State
	if state == nil {
		var err error
		state, err = game.NewTrainerState(appConfig, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("训练数据加载失败: %w", err)
		}
	}

	sceneManager := game.NewSceneManager(cfg.Logger)
	sceneManager.SetSceneFactory(scenes.NewSceneFactory(state, sceneManager))

	if cfg.Exercise != "" {
		if _, ok := state.Exercises.Find(cfg.Exercise); !ok && cfg.Exercise != scenes.SessionSceneID {
			return nil, fmt.Errorf("unknown exercise %q", cfg.Exercise)
		}
	}

	logger.Info("starting", zap.String("exercise", cfg.Exercise),
		zap.Int("completed", state.Progress.Count()))
	sceneManager.LoadExercise(cfg.Exercise)
	if sceneManager.GetCurrentScene() == nil {
		return nil, fmt.Errorf("exercise %q cannot be opened in the window", cfg.Exercise)
	}

	return &App{
		sceneManager: sceneManager,
		state:        state,
		logger:       logger,
	}, nil
}

// Update 更新训练逻辑
// 每个 tick 调用一次
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w := a.state.Config.Window
			ebiten.SetWindowSize(w.Width, w.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.logger.Debug("exit fullscreen, window size reset in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(a.DeltaTime())
	return nil
}

// DeltaTime 每个 tick 对应的秒数
func (a *App) DeltaTime() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = a.state.Config.TickRate
	}
	return 1.0 / float64(tps)
}

// Draw 绘制当前场景
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := a.state.Config.Window
	return w.Width, w.Height
}

// Shutdown 退出时卸载当前场景，取消所有待触发任务
func (a *App) Shutdown() {
	a.sceneManager.Shutdown()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Run 打开窗口并运行主循环，窗口关闭后执行 Shutdown
func (a *App) Run() error {
	w := a.state.Config.Window
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(a.state.Config.TickRate)
	defer a.Shutdown()
	return ebiten.RunGame(a)
}
