package systems

import (
	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/fragments"
	"github.com/gonewx/textbox/pkg/sequence"
)

// ScrollEndEvent 某个 Section 的逐字显示已结束（由显示引擎发出）
type ScrollEndEvent struct {
	Section ecs.EntityID
}

// ClearEvent 某个 Section 已被玩家/系统确认，可以移除
type ClearEvent struct {
	Section ecs.EntityID
}

// VisibilityRequest 请求设置对话框"继续"指示器的可见性
type VisibilityRequest struct {
	Textbox    ecs.EntityID
	Visibility components.Visibility
}

// TextboxEvents 对话框核心使用的全部事件队列
type TextboxEvents struct {
	Fragments    *ecs.Events[sequence.FragmentEvent[fragments.SectionFrag]]
	FragmentEnds *ecs.Events[sequence.FragmentEndEvent]
	ScrollEnds   *ecs.Events[ScrollEndEvent]
	Clears       *ecs.Events[ClearEvent]
	Visibility   *ecs.Events[VisibilityRequest]
}

// NewTextboxEvents 创建全部事件队列
func NewTextboxEvents() *TextboxEvents {
	return &TextboxEvents{
		Fragments:    ecs.NewEvents[sequence.FragmentEvent[fragments.SectionFrag]](),
		FragmentEnds: ecs.NewEvents[sequence.FragmentEndEvent](),
		ScrollEnds:   ecs.NewEvents[ScrollEndEvent](),
		Clears:       ecs.NewEvents[ClearEvent](),
		Visibility:   ecs.NewEvents[VisibilityRequest](),
	}
}

// Update 在 tick 边界推进所有队列
func (e *TextboxEvents) Update() {
	e.Fragments.Update()
	e.FragmentEnds.Update()
	e.ScrollEnds.Update()
	e.Clears.Update()
	e.Visibility.Update()
}
