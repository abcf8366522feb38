package components

import "github.com/gonewx/textbox/pkg/ecs"

// PositionComponent 实体在屏幕上的位置
type PositionComponent struct {
	X, Y float64
}

// LayoutComponent Section 相对于对话框的布局
// 通常由对话框的 SectionDecorator 附加
type LayoutComponent struct {
	OffsetX float64 // 相对对话框左上角的 X 偏移
	OffsetY float64 // 相对对话框左上角的 Y 偏移
	// MaxWidth 每行最大显示宽度（单元格，CJK 占 2 格），0 表示不换行
	MaxWidth int
}

// LayoutDecorator 为每个 Section 附加一份新的 LayoutComponent
type LayoutDecorator struct {
	Layout LayoutComponent
}

// Decorate 实现 SectionDecorator
func (d LayoutDecorator) Decorate(em *ecs.EntityManager, section ecs.EntityID) {
	layout := d.Layout
	em.AddComponent(section, &layout)
}
