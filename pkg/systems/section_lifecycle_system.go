package systems

import (
	"fmt"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/fragments"
	"github.com/gonewx/textbox/pkg/sequence"
	"go.uber.org/zap"
)

// SectionLifecycleSystem 管理 Section 实体的完整生命周期
//
// 职责：
//   - 收到片段就绪通知时创建 Section，挂到对话框下并应用对话框的装饰策略
//   - 两阶段完成协议：AwaitingRevealEnd →(滚动结束)→ AwaitingClear →(清除)→ Cleared
//   - 滚动结束时显示"继续"指示器，清除时回送完成令牌、销毁 Section 并隐藏指示器
//   - 宿主提前销毁的 Section 按清除处理，指示器状态和序列推进不受影响
//
// 所有信号都通过状态分发：状态不符的信号（重复触发、已销毁的 Section）被静默忽略
type SectionLifecycleSystem struct {
	entityManager *ecs.EntityManager
	events        *TextboxEvents
	logger        *zap.Logger
}

// NewSectionLifecycleSystem 创建 Section 生命周期系统
func NewSectionLifecycleSystem(em *ecs.EntityManager, events *TextboxEvents, logger *zap.Logger) *SectionLifecycleSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionLifecycleSystem{
		entityManager: em,
		events:        events,
		logger:        logger,
	}
}

// Update 先回收被宿主直接销毁的 Section，再依次处理片段就绪、滚动结束、清除三类事件
func (s *SectionLifecycleSystem) Update() {
	s.reapDestroyed()
	for _, ev := range s.events.Fragments.Drain() {
		s.SpawnSection(ev)
	}
	for _, ev := range s.events.ScrollEnds.Drain() {
		s.HandleScrollEnd(ev.Section)
	}
	for _, ev := range s.events.Clears.Drain() {
		s.HandleClear(ev.Section)
	}
}

// SpawnSection 为就绪片段创建 Section 实体并返回其 ID
//
// 片段引用的对话框不存在属于编排错误，直接 panic。
// 对话框已被销毁时片段被丢弃，返回 InvalidEntity。
func (s *SectionLifecycleSystem) SpawnSection(ev sequence.FragmentEvent[fragments.SectionFrag]) ecs.EntityID {
	textboxID := ev.Data.Textbox

	if s.textboxGone(textboxID) {
		s.logger.Warn("[SectionLifecycleSystem] Dropping fragment for despawned textbox",
			zap.Uint64("fragment", uint64(ev.ID)), zap.Uint64("textbox", uint64(textboxID)))
		return ecs.InvalidEntity
	}

	textbox, ok := ecs.GetComponent[*components.TextBoxComponent](s.entityManager, textboxID)
	if !ok {
		panic(fmt.Sprintf("[SectionLifecycleSystem] fragment %d references missing textbox entity %d", ev.ID, textboxID))
	}

	section := s.entityManager.CreateEntity()
	content := ev.Data.Section

	ecs.AddComponent(s.entityManager, section, &components.SectionComponent{
		Textbox: textboxID,
		Token:   ev.End(),
		State:   components.SectionAwaitingRevealEnd,
	})
	ecs.AddComponent(s.entityManager, section, &content)
	ecs.AddComponent(s.entityManager, section, &components.ScrollComponent{})

	if textbox.Decorator != nil {
		textbox.Decorator.Decorate(s.entityManager, section)
	}

	s.entityManager.AddChild(textboxID, section)

	s.logger.Debug("[SectionLifecycleSystem] Section spawned",
		zap.Uint64("section", uint64(section)),
		zap.Uint64("textbox", uint64(textboxID)),
		zap.Uint64("fragment", uint64(ev.ID)))
	return section
}

// HandleScrollEnd 滚动结束处理（第一阶段）
// 仅对 AwaitingRevealEnd 状态的 Section 生效，返回是否发生了状态转换
func (s *SectionLifecycleSystem) HandleScrollEnd(sectionID ecs.EntityID) bool {
	section, ok := s.liveSection(sectionID)
	if !ok {
		return false
	}
	if section.State != components.SectionAwaitingRevealEnd {
		s.logger.Debug("[SectionLifecycleSystem] Ignoring scroll end",
			zap.Uint64("section", uint64(sectionID)), zap.Stringer("state", section.State))
		return false
	}

	section.State = components.SectionAwaitingClear
	s.events.Visibility.Send(VisibilityRequest{Textbox: section.Textbox, Visibility: components.VisibilityVisible})

	s.logger.Debug("[SectionLifecycleSystem] AwaitingRevealEnd → AwaitingClear", zap.Uint64("section", uint64(sectionID)))
	return true
}

// HandleClear 清除处理（第二阶段）
// 仅对 AwaitingClear 状态的 Section 生效，返回是否发生了状态转换
func (s *SectionLifecycleSystem) HandleClear(sectionID ecs.EntityID) bool {
	section, ok := s.liveSection(sectionID)
	if !ok {
		return false
	}
	if section.State != components.SectionAwaitingClear {
		s.logger.Debug("[SectionLifecycleSystem] Ignoring clear",
			zap.Uint64("section", uint64(sectionID)), zap.Stringer("state", section.State))
		return false
	}

	s.retire(sectionID, section)

	s.logger.Debug("[SectionLifecycleSystem] AwaitingClear → Cleared, section despawned",
		zap.Uint64("section", uint64(sectionID)), zap.Uint64("fragment", uint64(section.Token.ID)))
	return true
}

// DespawnSection 由宿主提前销毁 Section，任意未清除状态下均可调用
//
// 与清除相同：回送完成令牌让所属序列继续推进，
// 对话框下不再有等待清除的 Section 时隐藏指示器。返回是否销毁了 Section。
func (s *SectionLifecycleSystem) DespawnSection(sectionID ecs.EntityID) bool {
	section, ok := s.liveSection(sectionID)
	if !ok || section.State == components.SectionCleared {
		return false
	}
	from := section.State
	s.retire(sectionID, section)

	s.logger.Debug("[SectionLifecycleSystem] Section despawned by host",
		zap.Uint64("section", uint64(sectionID)), zap.Stringer("from", from))
	return true
}

// retire 打墓碑、回送令牌、销毁 Section，并在没有等待清除的 Section 时隐藏指示器
func (s *SectionLifecycleSystem) retire(sectionID ecs.EntityID, section *components.SectionComponent) {
	// 先打墓碑，之后的任何信号都是 no-op
	section.State = components.SectionCleared

	s.events.FragmentEnds.Send(section.Token)
	s.entityManager.RemoveChild(section.Textbox, sectionID)
	s.entityManager.DestroyEntityRecursive(sectionID)

	// 同一对话框下仍有其它 Section 等待清除时保持指示器可见
	if len(s.AwaitingClear(section.Textbox)) == 0 {
		s.events.Visibility.Send(VisibilityRequest{Textbox: section.Textbox, Visibility: components.VisibilityHidden})
	}
}

// reapDestroyed 处理绕过 DespawnSection、直接通过 EntityManager 标记删除的 Section
// 必须在 RemoveMarkedEntities 之前运行
func (s *SectionLifecycleSystem) reapDestroyed() {
	for _, id := range ecs.GetEntitiesWith1[*components.SectionComponent](s.entityManager) {
		if !s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		section, _ := ecs.GetComponent[*components.SectionComponent](s.entityManager, id)
		if section.State == components.SectionCleared {
			continue
		}
		if s.textboxGone(section.Textbox) {
			// 随对话框一起销毁，与 DespawnTextbox 一致，不回送令牌
			section.State = components.SectionCleared
			continue
		}
		s.logger.Warn("[SectionLifecycleSystem] Section destroyed outside the lifecycle",
			zap.Uint64("section", uint64(id)), zap.Stringer("state", section.State))
		s.retire(id, section)
	}
}

// ClearTextbox 为对话框下所有等待清除的 Section 发出清除信号，返回信号数
func (s *SectionLifecycleSystem) ClearTextbox(textboxID ecs.EntityID) int {
	pending := s.AwaitingClear(textboxID)
	for _, sectionID := range pending {
		s.events.Clears.Send(ClearEvent{Section: sectionID})
	}
	return len(pending)
}

// Sections 返回对话框下所有存活的 Section（按挂载顺序）
func (s *SectionLifecycleSystem) Sections(textboxID ecs.EntityID) []ecs.EntityID {
	result := make([]ecs.EntityID, 0)
	for _, child := range ecs.ChildrenWith[*components.SectionComponent](s.entityManager, textboxID) {
		if _, ok := s.liveSection(child); ok {
			result = append(result, child)
		}
	}
	return result
}

// AwaitingClear 返回对话框下处于 AwaitingClear 状态的 Section
func (s *SectionLifecycleSystem) AwaitingClear(textboxID ecs.EntityID) []ecs.EntityID {
	result := make([]ecs.EntityID, 0)
	for _, child := range s.Sections(textboxID) {
		section, _ := ecs.GetComponent[*components.SectionComponent](s.entityManager, child)
		if section.State == components.SectionAwaitingClear {
			result = append(result, child)
		}
	}
	return result
}

// DespawnTextbox 销毁对话框及其全部子实体
//
// 所有仍在进行中的 Section 被打上墓碑（之后的滚动结束/清除信号都被忽略），
// 不回送完成令牌。之后到达的、引用该对话框的片段会被丢弃。
// 对话框 ID 不会被复用，因此无需额外记录已销毁的对话框。
func (s *SectionLifecycleSystem) DespawnTextbox(textboxID ecs.EntityID) {
	if !s.entityManager.Exists(textboxID) {
		return
	}

	cascaded := 0
	for _, child := range ecs.ChildrenWith[*components.SectionComponent](s.entityManager, textboxID) {
		section, _ := ecs.GetComponent[*components.SectionComponent](s.entityManager, child)
		if section.State != components.SectionCleared {
			section.State = components.SectionCleared
			cascaded++
		}
	}

	s.entityManager.DestroyEntityRecursive(textboxID)

	s.logger.Info("[SectionLifecycleSystem] Textbox despawned",
		zap.Uint64("textbox", uint64(textboxID)), zap.Int("cascadedSections", cascaded))
}

// textboxGone 对话框是否已被销毁（标记删除或已清理）
// 从未分配过的 ID 不算销毁，由调用方视为编排错误
func (s *SectionLifecycleSystem) textboxGone(textboxID ecs.EntityID) bool {
	if s.entityManager.IsMarkedForDestroy(textboxID) {
		return true
	}
	return s.entityManager.WasAllocated(textboxID) && !s.entityManager.Exists(textboxID)
}

// liveSection 返回仍然存活（存在且未标记删除）的 Section 组件
func (s *SectionLifecycleSystem) liveSection(sectionID ecs.EntityID) (*components.SectionComponent, bool) {
	if s.entityManager.IsMarkedForDestroy(sectionID) {
		return nil, false
	}
	section, ok := ecs.GetComponent[*components.SectionComponent](s.entityManager, sectionID)
	if !ok {
		s.logger.Debug("[SectionLifecycleSystem] Stale section reference", zap.Uint64("section", uint64(sectionID)))
		return nil, false
	}
	return section, true
}
