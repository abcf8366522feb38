package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// newTestGdataManager 使用临时 HOME 目录创建 gdata manager
func newTestGdataManager(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	require.NoError(t, err, "Failed to create gdata manager")
	return manager
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	require.NotNil(t, settings)
	assert.Equal(t, 1.0, settings.TextSpeed)
	assert.False(t, settings.InstantReveal)
	assert.False(t, settings.AutoAdvance)
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil, zaptest.NewLogger(t))
	require.NotNil(t, sm)
	assert.Equal(t, DefaultSettings(), sm.GetSettings())

	sm.SetTextSpeed(2)
	assert.NoError(t, sm.Save(), "degraded mode save is a no-op")
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := newTestGdataManager(t, "test_textbox_settings")

	sm1 := NewSettingsManager(gdataManager, zaptest.NewLogger(t))
	sm1.SetTextSpeed(2.5)
	sm1.SetInstantReveal(true)
	sm1.SetAutoAdvance(true)
	require.NoError(t, sm1.Save())

	sm2 := NewSettingsManager(gdataManager, zaptest.NewLogger(t))
	settings := sm2.GetSettings()
	assert.Equal(t, 2.5, settings.TextSpeed)
	assert.True(t, settings.InstantReveal)
	assert.True(t, settings.AutoAdvance)
}

// TestSettingsLoadCorrupted 损坏的数据回退到默认设置
func TestSettingsLoadCorrupted(t *testing.T) {
	gdataManager := newTestGdataManager(t, "test_textbox_settings_corrupt")
	require.NoError(t, gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("textSpeed: [broken")))

	sm := NewSettingsManager(gdataManager, zaptest.NewLogger(t))
	assert.Equal(t, DefaultSettings(), sm.GetSettings())
	assert.Error(t, sm.Load())
}

func TestSetTextSpeedClamp(t *testing.T) {
	sm := NewSettingsManager(nil, nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{1.5, 1.5}, // 正常值
		{MinTextSpeed, MinTextSpeed},
		{MaxTextSpeed, MaxTextSpeed},
		{0, MinTextSpeed},  // 低于下限
		{-3, MinTextSpeed}, // 负数
		{10, MaxTextSpeed}, // 高于上限
	}

	for _, tt := range tests {
		sm.SetTextSpeed(tt.input)
		assert.Equal(t, tt.expected, sm.GetSettings().TextSpeed, "SetTextSpeed(%v)", tt.input)
	}
}
