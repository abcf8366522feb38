// Package app 提供对话框演示程序的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：窗口模式通过 ebiten.RunGame 运行 App，
// 无窗口模式通过 RunHeadless 以固定步长驱动同一套场景。
package app

import (
	"fmt"
	"image/color"

	"github.com/gonewx/textbox/pkg/config"
	"github.com/gonewx/textbox/pkg/game"
	"github.com/gonewx/textbox/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// TickDelta 固定逻辑步长（秒）
const TickDelta = 1.0 / 60.0

// ScriptLoader 按 ID 加载对话脚本
type ScriptLoader func(id string) (*config.DialogueScript, error)

// Config 应用启动配置
type Config struct {
	// Textbox 对话框配置，nil 使用默认配置
	Textbox *config.TextboxConfig
	// Scripts 脚本加载函数
	Scripts ScriptLoader
	// Script 启动时播放的脚本 ID
	Script string
	// Settings 玩家文字设置，可为 nil
	Settings *game.SettingsManager
	// Headless 无窗口运行：不读取 Ebitengine 输入，强制自动推进
	Headless bool
	// Ticks 无窗口运行的 tick 上限，<= 0 表示运行到脚本结束
	// 循环播放（repeat: always）的脚本永远不会结束，无窗口运行时必须设置
	Ticks  int
	Logger *zap.Logger
}

// App 应用核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	cfg          *config.TextboxConfig
	logger       *zap.Logger
	maxTicks     int

	pendingWindowSizeReset   bool // 退出全屏后延迟重置窗口大小
	windowSizeResetCountdown int
}

// NewApp 创建应用并加载启动脚本
func NewApp(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	textboxCfg := cfg.Textbox
	if textboxCfg == nil {
		textboxCfg = config.DefaultTextboxConfig()
	}
	if cfg.Scripts == nil {
		return nil, fmt.Errorf("script loader is required")
	}

	opts := scenes.DialogueOptions{Logger: logger}
	if cfg.Headless {
		// 无窗口运行没有输入，靠自动推进播放完整脚本
		opts.InputSource = func() bool { return false }
		if textboxCfg.Advance.AutoAdvance == 0 {
			copied := *textboxCfg
			copied.Advance.AutoAdvance = scenes.DefaultAutoAdvanceDelay
			textboxCfg = &copied
		}
	}

	sceneManager := game.NewSceneManager(logger)
	sceneManager.SetSceneFactory(func(id string) (game.Scene, error) {
		script, err := cfg.Scripts(id)
		if err != nil {
			return nil, err
		}
		if cfg.Headless && cfg.Ticks <= 0 && script.Repeat == "always" {
			return nil, fmt.Errorf("script %q repeats forever: headless mode requires a tick limit", script.ID)
		}
		return scenes.NewDialogueScene(textboxCfg, script, cfg.Settings, opts)
	})

	if err := sceneManager.Load(cfg.Script); err != nil {
		return nil, err
	}

	logger.Info("[App] Started", zap.String("script", cfg.Script), zap.Bool("headless", cfg.Headless))
	return &App{
		sceneManager: sceneManager,
		cfg:          textboxCfg,
		logger:       logger,
		maxTicks:     cfg.Ticks,
	}, nil
}

// Update 每个 tick 调用一次
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
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
			// 让窗口管理器先处理退出全屏
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.Shutdown()
		return ebiten.Termination
	}

	a.sceneManager.Update(TickDelta)
	return nil
}

// Draw 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 ebiten.FinalScreenDrawer，全屏时用黑色填充两侧
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.cfg.Window.Width, a.cfg.Window.Height
}

// RunHeadless 以固定步长运行，直到场景结束或达到 Config.Ticks
// 返回实际运行的 tick 数
func (a *App) RunHeadless() int {
	ticks := 0
	for !a.sceneManager.Finished() {
		if a.maxTicks > 0 && ticks >= a.maxTicks {
			a.logger.Warn("[App] Tick limit reached before the script finished", zap.Int("ticks", ticks))
			break
		}
		a.sceneManager.Update(TickDelta)
		ticks++
	}
	a.logger.Info("[App] Headless run complete", zap.Int("ticks", ticks), zap.Bool("finished", a.sceneManager.Finished()))
	return ticks
}

// Shutdown 退出前保存当前场景状态
func (a *App) Shutdown() {
	a.sceneManager.SaveOnExit()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}
