package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockScene 记录调用情况的场景
type mockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
	finished     bool
	saved        bool
}

func (m *mockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *mockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *mockScene) Finished() bool { return m.finished }

func (m *mockScene) SaveOnExit() bool {
	m.saved = true
	return true
}

// plainScene 不实现任何可选接口
type plainScene struct{}

func (plainScene) Update(float64)     {}
func (plainScene) Draw(*ebiten.Image) {}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager(zaptest.NewLogger(t))
	require.NotNil(t, sm)
	assert.Nil(t, sm.GetCurrentScene())
	assert.False(t, sm.Finished())

	// 没有场景时 Update 不会 panic
	sm.Update(0.016)
}

func TestSceneManagerSwitchToAndUpdate(t *testing.T) {
	sm := NewSceneManager(zaptest.NewLogger(t))
	scene := &mockScene{}
	sm.SwitchTo(scene)

	sm.Update(0.016)
	assert.Same(t, scene, sm.GetCurrentScene())
	assert.True(t, scene.updateCalled)
	assert.Equal(t, 0.016, scene.deltaTime)
}

func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager(zaptest.NewLogger(t))
	scene := &mockScene{}
	sm.SwitchTo(scene)

	sm.Draw(ebiten.NewImage(10, 10))
	assert.True(t, scene.drawCalled)
}

func TestSceneManagerLoad(t *testing.T) {
	sm := NewSceneManager(zaptest.NewLogger(t))
	assert.Error(t, sm.Load("intro"), "no factory set")

	scene := &mockScene{}
	sm.SetSceneFactory(func(name string) (Scene, error) {
		if name == "intro" {
			return scene, nil
		}
		return nil, errors.New("unknown scene")
	})

	require.NoError(t, sm.Load("intro"))
	assert.Same(t, scene, sm.GetCurrentScene())
	assert.Equal(t, "intro", sm.CurrentName())

	// 加载失败保留原场景
	assert.Error(t, sm.Load("missing"))
	assert.Same(t, scene, sm.GetCurrentScene())
}

func TestSceneManagerOptionalInterfaces(t *testing.T) {
	sm := NewSceneManager(zaptest.NewLogger(t))
	scene := &mockScene{}
	sm.SwitchTo(scene)

	assert.False(t, sm.Finished())
	scene.finished = true
	assert.True(t, sm.Finished())

	sm.SaveOnExit()
	assert.True(t, scene.saved)

	sm.SwitchTo(plainScene{})
	assert.False(t, sm.Finished())
	sm.SaveOnExit()
}
