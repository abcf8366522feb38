package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gonewx/textbox/pkg/app"
	"github.com/gonewx/textbox/pkg/config"
	"github.com/gonewx/textbox/pkg/embedded"
	"github.com/gonewx/textbox/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// appName gdata 存储使用的应用名
const appName = "textbox"

var (
	flagConfig   string
	flagScript   string
	flagVerbose  bool
	flagHeadless bool
	flagTicks    int
)

var rootCmd = &cobra.Command{
	Use:          "textbox",
	Short:        "Fragment-driven dialogue textbox demo",
	Long:         `Plays a dialogue script one section at a time: each line is revealed, waits for the player, then clears before the next one starts.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

var flagScriptDir string

var validateCmd = &cobra.Command{
	Use:   "validate [script...]",
	Short: "Check the textbox config and dialogue scripts",
	Long:  `Validates the config and the given scripts. Without arguments every built-in script is checked; --dir checks every *.yaml/*.yml script under a directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "textbox config file (default: built-in data/textbox.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagScript, "script", "intro", "built-in script ID or path to a script YAML file")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "run without a window, auto-advancing every section")
	rootCmd.Flags().IntVar(&flagTicks, "ticks", 0, "headless tick limit (0 = until the script ends; required for repeat: always scripts)")
	addSettingsFlags(rootCmd)
	validateCmd.Flags().StringVar(&flagScriptDir, "dir", "", "validate all scripts under this directory (recursive)")
	rootCmd.AddCommand(validateCmd)
}

func main() {
	embedded.Init(dataFS)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig 读取 --config 指定的文件，未指定时使用内置配置
func loadConfig() (*config.TextboxConfig, error) {
	if flagConfig != "" {
		return config.LoadTextboxConfig(flagConfig)
	}
	data, err := embedded.ReadFile("data/textbox.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in config: %w", err)
	}
	return config.ParseTextboxConfig(data)
}

// loadScript 优先把参数当作磁盘路径，否则按 ID 读取内置脚本
func loadScript(ref string) (*config.DialogueScript, error) {
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") {
		if _, err := os.Stat(ref); err == nil {
			return config.LoadDialogueScript(ref)
		}
	}
	data, err := embedded.ReadFile(filepath.ToSlash(filepath.Join("data/scripts", ref+".yaml")))
	if err != nil {
		return nil, fmt.Errorf("unknown script %q: %w", ref, err)
	}
	return config.ParseDialogueScript(data)
}

func newLogger(cfg *config.TextboxConfig) (*zap.Logger, error) {
	level := cfg.Logging.Level
	if flagVerbose {
		level = "debug"
	}
	return config.NewLogger(level)
}

// 玩家设置相关的参数名
const (
	flagTextSpeed   = "text-speed"
	flagInstant     = "instant"
	flagAutoAdvance = "auto-advance"
)

// addSettingsFlags 注册修改玩家设置的参数，设置后会被保存，下次启动时仍然生效
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().Float64(flagTextSpeed, 1, fmt.Sprintf("text speed multiplier, saved for later runs (%.2f-%.0f)", game.MinTextSpeed, game.MaxTextSpeed))
	cmd.Flags().Bool(flagInstant, false, "reveal every section instantly, saved for later runs")
	cmd.Flags().Bool(flagAutoAdvance, false, "advance after a short delay without input, saved for later runs")
}

// applySettingsFlags 把显式给出的设置参数写入 SettingsManager，返回是否有改动
func applySettingsFlags(cmd *cobra.Command, settings *game.SettingsManager) (bool, error) {
	flags := cmd.Flags()
	changed := false

	if flags.Changed(flagTextSpeed) {
		speed, err := flags.GetFloat64(flagTextSpeed)
		if err != nil {
			return false, err
		}
		settings.SetTextSpeed(speed)
		changed = true
	}
	if flags.Changed(flagInstant) {
		instant, err := flags.GetBool(flagInstant)
		if err != nil {
			return false, err
		}
		settings.SetInstantReveal(instant)
		changed = true
	}
	if flags.Changed(flagAutoAdvance) {
		auto, err := flags.GetBool(flagAutoAdvance)
		if err != nil {
			return false, err
		}
		settings.SetAutoAdvance(auto)
		changed = true
	}
	return changed, nil
}

func run(cmd *cobra.Command) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// 存储不可用时降级为仅内存设置
	var store *gdata.Manager
	if m, openErr := gdata.Open(gdata.Config{AppName: appName}); openErr != nil {
		logger.Warn("[Main] Settings storage unavailable", zap.Error(openErr))
	} else {
		store = m
	}
	settings := game.NewSettingsManager(store, logger)
	changed, err := applySettingsFlags(cmd, settings)
	if err != nil {
		return err
	}
	if changed {
		if saveErr := settings.Save(); saveErr != nil {
			logger.Warn("[Main] Failed to save settings", zap.Error(saveErr))
		}
		s := settings.GetSettings()
		logger.Info("[Main] Settings updated",
			zap.Float64("textSpeed", s.TextSpeed),
			zap.Bool("instantReveal", s.InstantReveal),
			zap.Bool("autoAdvance", s.AutoAdvance))
	}

	a, err := app.NewApp(app.Config{
		Textbox:  cfg,
		Scripts:  loadScript,
		Script:   flagScript,
		Settings: settings,
		Headless: flagHeadless,
		Ticks:    flagTicks,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if flagHeadless {
		a.RunHeadless()
		a.Shutdown()
		return nil
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer a.Shutdown()

	return ebiten.RunGame(a)
}

func runValidate(paths []string) error {
	var errs error
	if _, err := loadConfig(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: %w", err))
	}

	if flagScriptDir != "" {
		found, err := config.FindDialogueScripts(flagScriptDir)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		builtin, err := embedded.Glob("data/scripts/*.yaml")
		if err != nil {
			return err
		}
		for _, p := range builtin {
			paths = append(paths, strings.TrimSuffix(filepath.Base(p), ".yaml"))
		}
		config.SortNatural(paths)
	}
	for _, p := range paths {
		if _, err := loadScript(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("script %s: %w", p, err))
		}
	}
	if errs != nil {
		return errs
	}

	fmt.Printf("config and %d script(s) are valid\n", len(paths))
	return nil
}
