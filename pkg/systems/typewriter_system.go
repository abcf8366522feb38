package systems

import (
	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"go.uber.org/zap"
)

// DefaultCharsPerSecond 片段和配置都未指定速度时的逐字显示速度
const DefaultCharsPerSecond = 30.0

// TypewriterSystem 逐字显示引擎
// 推进每个 Section 的 ScrollComponent，全部显示后发出一次 ScrollEndEvent
type TypewriterSystem struct {
	entityManager *ecs.EntityManager
	events        *TextboxEvents
	logger        *zap.Logger

	charsPerSecond  float64
	speedMultiplier float64
	instant         bool
}

// NewTypewriterSystem 创建逐字显示系统
// charsPerSecond <= 0 时使用 DefaultCharsPerSecond
func NewTypewriterSystem(em *ecs.EntityManager, events *TextboxEvents, charsPerSecond float64, logger *zap.Logger) *TypewriterSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	if charsPerSecond <= 0 {
		charsPerSecond = DefaultCharsPerSecond
	}
	return &TypewriterSystem{
		entityManager:   em,
		events:          events,
		logger:          logger,
		charsPerSecond:  charsPerSecond,
		speedMultiplier: 1,
	}
}

// SetSpeedMultiplier 设置玩家文字速度倍率（<= 0 时忽略）
func (s *TypewriterSystem) SetSpeedMultiplier(multiplier float64) {
	if multiplier > 0 {
		s.speedMultiplier = multiplier
	}
}

// SetInstant 开启后片段在一个 tick 内全部显示
func (s *TypewriterSystem) SetInstant(instant bool) {
	s.instant = instant
}

// Update 推进所有正在显示的 Section
func (s *TypewriterSystem) Update(dt float64) {
	sections := ecs.GetEntitiesWith3[
		*components.SectionComponent,
		*components.ScrollComponent,
		*components.TypewriterSection,
	](s.entityManager)

	for _, id := range sections {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		section, _ := ecs.GetComponent[*components.SectionComponent](s.entityManager, id)
		scroll, _ := ecs.GetComponent[*components.ScrollComponent](s.entityManager, id)
		content, _ := ecs.GetComponent[*components.TypewriterSection](s.entityManager, id)

		if scroll.Finished || section.State != components.SectionAwaitingRevealEnd {
			continue
		}

		total := content.Len()
		if s.instant {
			scroll.Revealed = total
		} else {
			scroll.Elapsed += dt
			revealed := int(scroll.Elapsed * s.speedFor(content))
			scroll.Revealed = min(revealed, total)
		}

		if scroll.Revealed >= total {
			s.finish(id, scroll)
		}
	}
}

// Skip 立即显示完整文本，返回是否有 Section 被跳过
func (s *TypewriterSystem) Skip(sectionID ecs.EntityID) bool {
	scroll, ok := ecs.GetComponent[*components.ScrollComponent](s.entityManager, sectionID)
	if !ok || scroll.Finished {
		return false
	}
	content, ok := ecs.GetComponent[*components.TypewriterSection](s.entityManager, sectionID)
	if !ok {
		return false
	}
	scroll.Revealed = content.Len()
	s.finish(sectionID, scroll)
	return true
}

// Revealing 返回对话框下仍在逐字显示的 Section
func (s *TypewriterSystem) Revealing(textbox ecs.EntityID) []ecs.EntityID {
	result := make([]ecs.EntityID, 0)
	for _, child := range ecs.ChildrenWith[*components.ScrollComponent](s.entityManager, textbox) {
		scroll, _ := ecs.GetComponent[*components.ScrollComponent](s.entityManager, child)
		if !scroll.Finished && !s.entityManager.IsMarkedForDestroy(child) {
			result = append(result, child)
		}
	}
	return result
}

func (s *TypewriterSystem) speedFor(content *components.TypewriterSection) float64 {
	cps := content.CharsPerSecond
	if cps <= 0 {
		cps = s.charsPerSecond
	}
	return cps * s.speedMultiplier
}

func (s *TypewriterSystem) finish(id ecs.EntityID, scroll *components.ScrollComponent) {
	scroll.Finished = true
	s.events.ScrollEnds.Send(ScrollEndEvent{Section: id})
	s.logger.Debug("[TypewriterSystem] Scroll end", zap.Uint64("section", uint64(id)), zap.Int("chars", scroll.Revealed))
}
