package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// TextSettings 玩家的文字显示偏好
// 注意：只保存偏好，不保存对话进度
type TextSettings struct {
	TextSpeed     float64 `yaml:"textSpeed"`     // 逐字显示速度倍率 0.25 ~ 4.0
	InstantReveal bool    `yaml:"instantReveal"` // 立即显示整段文字
	AutoAdvance   bool    `yaml:"autoAdvance"`   // 显示完成后自动推进
}

// 文字速度倍率范围
const (
	MinTextSpeed = 0.25
	MaxTextSpeed = 4.0
)

// DefaultSettings 返回默认设置
func DefaultSettings() *TextSettings {
	return &TextSettings{
		TextSpeed:     1.0,
		InstantReveal: false,
		AutoAdvance:   false,
	}
}

// SettingsManager 设置管理器
// 负责文字设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *TextSettings  // 当前设置
	logger       *zap.Logger
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "text"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - logger: 可为 nil
//
// 加载失败不是致命错误，使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager, logger *zap.Logger) *SettingsManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
		logger:       logger,
	}

	if err := sm.Load(); err != nil {
		logger.Warn("[SettingsManager] Failed to load settings, using defaults", zap.Error(err))
	}

	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.TextSpeed = clampTextSpeed(loaded.TextSpeed)

	sm.settings = loaded
	sm.logger.Debug("[SettingsManager] Settings loaded", zap.Float64("textSpeed", loaded.TextSpeed))
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	sm.logger.Debug("[SettingsManager] Settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *TextSettings {
	return sm.settings
}

// SetTextSpeed 设置文字速度倍率（限制在 MinTextSpeed ~ MaxTextSpeed）
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetTextSpeed(speed float64) {
	sm.settings.TextSpeed = clampTextSpeed(speed)
}

// SetInstantReveal 设置立即显示
func (sm *SettingsManager) SetInstantReveal(enabled bool) {
	sm.settings.InstantReveal = enabled
}

// SetAutoAdvance 设置自动推进
func (sm *SettingsManager) SetAutoAdvance(enabled bool) {
	sm.settings.AutoAdvance = enabled
}

func clampTextSpeed(speed float64) float64 {
	if speed < MinTextSpeed {
		return MinTextSpeed
	}
	if speed > MaxTextSpeed {
		return MaxTextSpeed
	}
	return speed
}
