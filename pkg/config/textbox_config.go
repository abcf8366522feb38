package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// TextboxConfig 对话框演示程序的全部配置（textbox.yaml）
type TextboxConfig struct {
	Window  WindowConfig  `yaml:"window"`
	Textbox LayoutConfig  `yaml:"textbox"`
	Reveal  RevealConfig  `yaml:"reveal"`
	Advance AdvanceConfig `yaml:"advance"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`  // 逻辑屏幕宽度，默认 800
	Height int    `yaml:"height"` // 逻辑屏幕高度，默认 600
	Title  string `yaml:"title"`  // 窗口标题
}

// LayoutConfig 对话框布局
type LayoutConfig struct {
	X         float64 `yaml:"x"`         // 对话框左上角 X
	Y         float64 `yaml:"y"`         // 对话框左上角 Y
	OffsetX   float64 `yaml:"offsetX"`   // Section 相对对话框的 X 偏移
	OffsetY   float64 `yaml:"offsetY"`   // Section 相对对话框的 Y 偏移
	MaxWidth  int     `yaml:"maxWidth"`  // 每行最大显示宽度（单元格，CJK 占 2 格），0 表示不换行
	ContinueX float64 `yaml:"continueX"` // "继续"指示器相对对话框的 X 偏移
	ContinueY float64 `yaml:"continueY"` // "继续"指示器相对对话框的 Y 偏移
}

// RevealConfig 逐字显示配置
type RevealConfig struct {
	CharsPerSecond float64 `yaml:"charsPerSecond"` // 默认 30
}

// AdvanceConfig 推进配置
type AdvanceConfig struct {
	Keys        []string `yaml:"keys"`        // 推进按键名，默认 ["Space", "Enter"]
	AutoAdvance float64  `yaml:"autoAdvance"` // 自动推进延迟（秒），0 表示关闭
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level string `yaml:"level"` // debug / info / warn / error，默认 info
}

// DefaultTextboxConfig 返回默认配置
func DefaultTextboxConfig() *TextboxConfig {
	cfg := &TextboxConfig{}
	applyDefaults(cfg)
	return cfg
}

// LoadTextboxConfig 从 YAML 文件加载配置
func LoadTextboxConfig(path string) (*TextboxConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read textbox config file %s: %w", path, err)
	}

	cfg, err := ParseTextboxConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid textbox config in %s: %w", path, err)
	}
	return cfg, nil
}

// ParseTextboxConfig 解析 YAML 数据，应用默认值并校验
func ParseTextboxConfig(data []byte) (*TextboxConfig, error) {
	var cfg TextboxConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse textbox config YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateTextboxConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults 为缺失的可选字段设置默认值
func applyDefaults(cfg *TextboxConfig) {
	if cfg.Window.Width == 0 {
		cfg.Window.Width = 800
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = 600
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = "Textbox"
	}

	if cfg.Textbox.X == 0 && cfg.Textbox.Y == 0 {
		cfg.Textbox.X = 40
		cfg.Textbox.Y = 440
	}
	if cfg.Textbox.OffsetX == 0 && cfg.Textbox.OffsetY == 0 {
		cfg.Textbox.OffsetX = 16
		cfg.Textbox.OffsetY = 16
	}
	if cfg.Textbox.ContinueX == 0 && cfg.Textbox.ContinueY == 0 {
		cfg.Textbox.ContinueX = 680
		cfg.Textbox.ContinueY = 110
	}

	if cfg.Reveal.CharsPerSecond == 0 {
		cfg.Reveal.CharsPerSecond = 30
	}

	if len(cfg.Advance.Keys) == 0 {
		cfg.Advance.Keys = []string{"Space", "Enter"}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	// MaxWidth、AutoAdvance 为 0 时表示关闭，无需处理
}

// validateTextboxConfig 校验配置，一次返回所有问题
func validateTextboxConfig(cfg *TextboxConfig) error {
	var errs error

	if cfg.Window.Width < 0 || cfg.Window.Height < 0 {
		errs = multierr.Append(errs, fmt.Errorf("window size must be positive, got %dx%d", cfg.Window.Width, cfg.Window.Height))
	}
	if cfg.Textbox.MaxWidth < 0 {
		errs = multierr.Append(errs, fmt.Errorf("textbox.maxWidth must be >= 0, got %d", cfg.Textbox.MaxWidth))
	}
	if cfg.Reveal.CharsPerSecond < 0 {
		errs = multierr.Append(errs, fmt.Errorf("reveal.charsPerSecond must be >= 0, got %v", cfg.Reveal.CharsPerSecond))
	}
	if cfg.Advance.AutoAdvance < 0 {
		errs = multierr.Append(errs, fmt.Errorf("advance.autoAdvance must be >= 0, got %v", cfg.Advance.AutoAdvance))
	}
	for i, key := range cfg.Advance.Keys {
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("advance.keys[%d] is empty", i))
		}
	}
	if _, err := parseLevel(cfg.Logging.Level); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}
