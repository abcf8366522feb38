// Package scenes 提供基于对话框插件的场景实现
package scenes

import (
	"fmt"
	"image/color"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/config"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/fragments"
	"github.com/gonewx/textbox/pkg/game"
	"github.com/gonewx/textbox/pkg/systems"
	"github.com/gonewx/textbox/pkg/textbox"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// DefaultAutoAdvanceDelay 玩家开启自动推进而配置未指定延迟时使用（秒）
const DefaultAutoAdvanceDelay = 1.5

// backgroundColor 对话场景背景色
var backgroundColor = color.RGBA{R: 24, G: 24, B: 32, A: 255}

// DialogueOptions 场景可选参数
type DialogueOptions struct {
	// InputSource 替换推进输入（无窗口运行或测试时使用）
	InputSource func() bool
	Logger      *zap.Logger
}

// DialogueScene 播放一段对话脚本的场景
//
// 场景创建一个对话框和它的"继续"指示器，把脚本的每一行作为一个片段依次播放。
// repeat: once 的脚本播放完毕后销毁对话框并报告 Finished；
// repeat: always 的脚本循环播放，永远不会结束。
type DialogueScene struct {
	plugin   *textbox.Plugin
	settings *game.SettingsManager
	script   *config.DialogueScript
	logger   *zap.Logger

	textbox   ecs.EntityID
	indicator ecs.EntityID
	sequence  *fragments.Sequence
	finished  bool
}

// NewDialogueScene 根据配置与脚本创建场景
// settings 可为 nil（不应用玩家偏好）
func NewDialogueScene(cfg *config.TextboxConfig, script *config.DialogueScript, settings *game.SettingsManager, opts DialogueOptions) (*DialogueScene, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keys, err := systems.ParseKeys(cfg.Advance.Keys)
	if err != nil {
		return nil, fmt.Errorf("invalid advance keys: %w", err)
	}

	autoAdvance := cfg.Advance.AutoAdvance
	if settings != nil && settings.GetSettings().AutoAdvance && autoAdvance == 0 {
		autoAdvance = DefaultAutoAdvanceDelay
	}

	plugin := textbox.New(ecs.NewEntityManager(), textbox.Options{
		CharsPerSecond: cfg.Reveal.CharsPerSecond,
		AdvanceKeys:    keys,
		AutoAdvance:    autoAdvance,
		InputSource:    opts.InputSource,
		Logger:         logger,
	})

	scene := &DialogueScene{
		plugin:   plugin,
		settings: settings,
		script:   script,
		logger:   logger,
	}
	scene.applySettings()
	scene.spawn(cfg.Textbox)

	logger.Info("[DialogueScene] Created",
		zap.String("script", script.ID),
		zap.Int("lines", len(script.Lines)),
		zap.String("repeat", script.Repeat))
	return scene, nil
}

// applySettings 把玩家文字偏好应用到逐字显示系统
func (s *DialogueScene) applySettings() {
	if s.settings == nil {
		return
	}
	prefs := s.settings.GetSettings()
	s.plugin.Typewriter.SetSpeedMultiplier(prefs.TextSpeed)
	s.plugin.Typewriter.SetInstant(prefs.InstantReveal)
}

// spawn 创建对话框、指示器并启动脚本序列
func (s *DialogueScene) spawn(layout config.LayoutConfig) {
	s.textbox = s.plugin.SpawnTextbox(
		components.LayoutDecorator{Layout: components.LayoutComponent{
			OffsetX:  layout.OffsetX,
			OffsetY:  layout.OffsetY,
			MaxWidth: layout.MaxWidth,
		}},
		&components.PositionComponent{X: layout.X, Y: layout.Y},
	)
	s.indicator = s.plugin.SpawnContinue(s.textbox, &components.PositionComponent{X: layout.ContinueX, Y: layout.ContinueY})

	sections := s.script.Sections()
	frags := make([]fragments.SectionFrag, 0, len(sections))
	for _, section := range sections {
		frags = append(frags, fragments.NewSectionFrag(s.textbox, section))
	}

	s.sequence = s.plugin.Play(frags...)
	if s.script.Repeat == "always" {
		s.sequence.Always()
		return
	}
	s.sequence.Once().OnEnd(func() {
		s.logger.Info("[DialogueScene] Script finished", zap.String("script", s.script.ID))
		s.plugin.DespawnTextbox(s.textbox)
		s.finished = true
	})
}

// Update 运行一个 tick
func (s *DialogueScene) Update(deltaTime float64) {
	s.plugin.Update(deltaTime)
}

// Draw 绘制背景与对话框
func (s *DialogueScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.plugin.Draw(screen)
}

// Finished 实现 game.Finisher
func (s *DialogueScene) Finished() bool {
	return s.finished
}

// SaveOnExit 实现 game.Saveable：保存玩家文字设置
func (s *DialogueScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		s.logger.Warn("[DialogueScene] Failed to save settings", zap.Error(err))
		return false
	}
	return true
}

// Plugin 返回底层对话框插件
func (s *DialogueScene) Plugin() *textbox.Plugin {
	return s.plugin
}

// Textbox 返回对话框实体
func (s *DialogueScene) Textbox() ecs.EntityID {
	return s.textbox
}
