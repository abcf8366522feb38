package systems

import (
	"testing"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/fragments"
	"github.com/gonewx/textbox/pkg/sequence"
	"go.uber.org/zap/zaptest"
)

// testWorld 单元测试用的最小世界：实体管理器 + 事件队列 + 核心系统
type testWorld struct {
	em         *ecs.EntityManager
	events     *TextboxEvents
	lifecycle  *SectionLifecycleSystem
	visibility *ContinueVisibilitySystem
	typewriter *TypewriterSystem
	nextFrag   sequence.FragmentID
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	logger := zaptest.NewLogger(t)
	em := ecs.NewEntityManager()
	events := NewTextboxEvents()
	return &testWorld{
		em:         em,
		events:     events,
		lifecycle:  NewSectionLifecycleSystem(em, events, logger),
		visibility: NewContinueVisibilitySystem(em, events, logger),
		typewriter: NewTypewriterSystem(em, events, 10, logger),
		nextFrag:   1,
	}
}

// spawnTextbox 创建对话框及其隐藏的"继续"指示器
func (w *testWorld) spawnTextbox(decorator components.SectionDecorator) (textbox, indicator ecs.EntityID) {
	textbox = w.em.CreateEntity()
	ecs.AddComponent(w.em, textbox, &components.TextBoxComponent{Decorator: decorator})

	indicator = w.em.CreateEntity()
	ecs.AddComponent(w.em, indicator, &components.ContinueComponent{})
	ecs.AddComponent(w.em, indicator, &components.VisibilityComponent{Visibility: components.VisibilityHidden})
	w.em.AddChild(textbox, indicator)
	return textbox, indicator
}

// fragmentReady 模拟编排器发出片段就绪通知（下一次 lifecycle.Update 可见）
func (w *testWorld) fragmentReady(textbox ecs.EntityID, text string) sequence.FragmentID {
	id := w.nextFrag
	w.nextFrag++
	w.events.Fragments.Send(sequence.FragmentEvent[fragments.SectionFrag]{
		ID:   id,
		Data: fragments.NewSectionFrag(textbox, text),
	})
	w.events.Fragments.Update()
	return id
}

// spawn 发出就绪通知并立即处理，返回新建的 Section
func (w *testWorld) spawn(t *testing.T, textbox ecs.EntityID, text string) ecs.EntityID {
	t.Helper()
	before := len(w.lifecycle.Sections(textbox))
	w.fragmentReady(textbox, text)
	w.lifecycle.Update()
	sections := w.lifecycle.Sections(textbox)
	if len(sections) != before+1 {
		t.Fatalf("expected %d sections after spawn, got %d", before+1, len(sections))
	}
	return sections[len(sections)-1]
}

// flushVisibility 让本 tick 产生的可见性请求生效
func (w *testWorld) flushVisibility() {
	w.events.Visibility.Update()
	w.visibility.Update()
}

// drainEnds 返回已回送的完成令牌
func (w *testWorld) drainEnds() []sequence.FragmentEndEvent {
	w.events.FragmentEnds.Update()
	return w.events.FragmentEnds.Drain()
}

func (w *testWorld) indicatorVisibility(indicator ecs.EntityID) components.Visibility {
	vis, _ := ecs.GetComponent[*components.VisibilityComponent](w.em, indicator)
	return vis.Visibility
}
