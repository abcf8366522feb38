package components

// ContinueComponent 标记实体为"继续"指示器
// 指示器是对话框的子实体，在当前片段显示完成、等待玩家推进时可见
type ContinueComponent struct{}

// Visibility 可见性
type Visibility int

const (
	// VisibilityInherited 跟随父实体（未显式设置）
	VisibilityInherited Visibility = iota
	// VisibilityVisible 可见
	VisibilityVisible
	// VisibilityHidden 隐藏
	VisibilityHidden
)

// String 返回 Visibility 的字符串表示
func (v Visibility) String() string {
	switch v {
	case VisibilityInherited:
		return "Inherited"
	case VisibilityVisible:
		return "Visible"
	case VisibilityHidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// VisibilityComponent 实体可见性
type VisibilityComponent struct {
	Visibility Visibility
}

// IsVisible 是否应被渲染（Inherited 视为可见）
func (v *VisibilityComponent) IsVisible() bool {
	return v.Visibility != VisibilityHidden
}
