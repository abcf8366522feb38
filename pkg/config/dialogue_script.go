package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/gonewx/textbox/pkg/components"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// DialogueScript 对话脚本：按顺序显示的若干行
type DialogueScript struct {
	ID     string       `yaml:"id"`
	Repeat string       `yaml:"repeat"` // "once"（默认）或 "always"
	Lines  []ScriptLine `yaml:"lines"`
}

// ScriptLine 单行对话
type ScriptLine struct {
	Text  string  `yaml:"text"`
	Speed float64 `yaml:"speed"` // 字/秒，0 表示使用默认速度
	Color string  `yaml:"color"` // 可选："#rrggbb"
}

// LoadDialogueScript 从 YAML 文件加载对话脚本
func LoadDialogueScript(path string) (*DialogueScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialogue script %s: %w", path, err)
	}
	script, err := ParseDialogueScript(data)
	if err != nil {
		return nil, fmt.Errorf("invalid dialogue script in %s: %w", path, err)
	}
	return script, nil
}

// ParseDialogueScript 解析并校验对话脚本
func ParseDialogueScript(data []byte) (*DialogueScript, error) {
	var script DialogueScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue script YAML: %w", err)
	}

	if script.Repeat == "" {
		script.Repeat = "once"
	}

	var errs error
	if script.Repeat != "once" && script.Repeat != "always" {
		errs = multierr.Append(errs, fmt.Errorf("repeat must be \"once\" or \"always\", got %q", script.Repeat))
	}
	if len(script.Lines) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one line is required"))
	}
	for i, line := range script.Lines {
		if line.Speed < 0 {
			errs = multierr.Append(errs, fmt.Errorf("lines[%d].speed must be >= 0, got %v", i, line.Speed))
		}
		if _, err := parseHexColor(line.Color); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("lines[%d].color: %w", i, err))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return &script, nil
}

// Sections 把脚本行转换为片段内容
func (s *DialogueScript) Sections() []components.TypewriterSection {
	sections := make([]components.TypewriterSection, 0, len(s.Lines))
	for _, line := range s.Lines {
		c, _ := parseHexColor(line.Color) // 已在解析时校验
		sections = append(sections, components.TypewriterSection{
			Text:           line.Text,
			CharsPerSecond: line.Speed,
			Color:          c,
		})
	}
	return sections
}

// parseHexColor 解析 "#rrggbb"，空字符串返回 nil
func parseHexColor(s string) (color.Color, error) {
	if s == "" {
		return nil, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return nil, fmt.Errorf("expected #rrggbb, got %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("expected #rrggbb, got %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
