package components

import (
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/sequence"
)

// SectionState Section 两阶段完成协议的状态
type SectionState int

const (
	// SectionAwaitingRevealEnd 文本正在逐字显示，等待滚动结束信号
	SectionAwaitingRevealEnd SectionState = iota

	// SectionAwaitingClear 文本已完全显示，"继续"指示器可见，等待清除信号
	SectionAwaitingClear

	// SectionCleared 已清除（墓碑状态），之后的任何信号都被忽略
	SectionCleared
)

// String 返回 SectionState 的字符串表示
func (s SectionState) String() string {
	switch s {
	case SectionAwaitingRevealEnd:
		return "AwaitingRevealEnd"
	case SectionAwaitingClear:
		return "AwaitingClear"
	case SectionCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}

// SectionComponent 正在显示的一个文本片段
//
// 生命周期:
//  1. SectionLifecycleSystem 收到片段就绪通知时创建，状态为 AwaitingRevealEnd
//  2. 滚动结束信号 → AwaitingClear（显示指示器）
//  3. 清除信号 → Cleared，回送完成令牌并销毁实体
//
// 状态转换只在 SectionLifecycleSystem 中发生
type SectionComponent struct {
	// Textbox 所属对话框
	Textbox ecs.EntityID

	// Token 完成令牌，清除时回送给编排器
	Token sequence.FragmentEndEvent

	// State 当前协议状态
	State SectionState
}
