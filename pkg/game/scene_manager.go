package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// SceneFactory 按名称创建场景（例如对话脚本 ID），避免 game 包依赖具体场景实现
type SceneFactory func(name string) (Scene, error)

// SceneManager 管理当前活动场景，同一时刻只有一个场景被 Update/Draw
type SceneManager struct {
	currentScene Scene
	currentName  string
	sceneFactory SceneFactory
	logger       *zap.Logger
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager(logger *zap.Logger) *SceneManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneManager{logger: logger}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 直接切换到给定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	sm.currentName = ""
}

// GetCurrentScene 返回当前活动场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentName 返回通过 Load 加载的当前场景名称
func (sm *SceneManager) CurrentName() string {
	return sm.currentName
}

// Load 通过工厂创建并切换到指定名称的场景
// 创建失败时保留原场景
func (sm *SceneManager) Load(name string) error {
	sm.logger.Info("[SceneManager] Loading scene", zap.String("scene", name))

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	scene, err := sm.sceneFactory(name)
	if err != nil {
		return fmt.Errorf("failed to create scene %q: %w", name, err)
	}
	if scene == nil {
		return fmt.Errorf("scene factory returned nil for %q", name)
	}

	sm.currentScene = scene
	sm.currentName = name
	return nil
}

// Finished 当前场景是否已播放完毕（未实现 Finisher 的场景永远不会结束）
func (sm *SceneManager) Finished() bool {
	if f, ok := sm.currentScene.(Finisher); ok {
		return f.Finished()
	}
	return false
}

// SaveOnExit 若当前场景实现了 Saveable 则调用之
func (sm *SceneManager) SaveOnExit() {
	if s, ok := sm.currentScene.(Saveable); ok {
		if !s.SaveOnExit() {
			sm.logger.Warn("[SceneManager] Scene failed to save on exit", zap.String("scene", sm.currentName))
		}
	}
}

// Update 更新当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景，没有活动场景时什么也不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
