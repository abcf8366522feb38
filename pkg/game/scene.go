package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可独立更新与绘制的场景（例如一段对话）
type Scene interface {
	// Update 推进场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 绘制场景
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在程序退出时持久化自身状态（例如文字设置）
type Saveable interface {
	// SaveOnExit 返回 true 表示保存成功或无需保存
	SaveOnExit() bool
}

// Finisher 可选接口：场景报告自己是否已经播放完毕
// 无窗口模式下据此提前结束运行
type Finisher interface {
	Finished() bool
}
