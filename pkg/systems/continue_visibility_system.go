package systems

import (
	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"go.uber.org/zap"
)

// ContinueVisibilitySystem 把可见性请求应用到对话框的"继续"指示器
//
// 请求严格按写入顺序处理，不合并：同一轮中先 Visible 后 Hidden 最终为 Hidden。
// 对话框不存在、没有子实体或没有指示器时请求被忽略（指示器由宿主负责创建）。
type ContinueVisibilitySystem struct {
	entityManager *ecs.EntityManager
	events        *TextboxEvents
	logger        *zap.Logger
}

// NewContinueVisibilitySystem 创建指示器可见性系统
func NewContinueVisibilitySystem(em *ecs.EntityManager, events *TextboxEvents, logger *zap.Logger) *ContinueVisibilitySystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContinueVisibilitySystem{
		entityManager: em,
		events:        events,
		logger:        logger,
	}
}

// Request 发出可见性请求（下一个 tick 生效）
func (s *ContinueVisibilitySystem) Request(textbox ecs.EntityID, visibility components.Visibility) {
	s.events.Visibility.Send(VisibilityRequest{Textbox: textbox, Visibility: visibility})
}

// Update 处理本 tick 可读的全部可见性请求
func (s *ContinueVisibilitySystem) Update() {
	for _, req := range s.events.Visibility.Drain() {
		s.apply(req)
	}
}

func (s *ContinueVisibilitySystem) apply(req VisibilityRequest) {
	if !ecs.HasComponent[*components.TextBoxComponent](s.entityManager, req.Textbox) {
		s.logger.Debug("[ContinueVisibilitySystem] Request for unknown textbox", zap.Uint64("textbox", uint64(req.Textbox)))
		return
	}

	for _, child := range ecs.ChildrenWith[*components.ContinueComponent](s.entityManager, req.Textbox) {
		vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, child)
		if !ok {
			vis = &components.VisibilityComponent{}
			ecs.AddComponent(s.entityManager, child, vis)
		}
		vis.Visibility = req.Visibility
	}
}

// IndicatorVisible 对话框的指示器当前是否可见（没有指示器时返回 false）
func (s *ContinueVisibilitySystem) IndicatorVisible(textbox ecs.EntityID) bool {
	indicators := ecs.ChildrenWith[*components.ContinueComponent](s.entityManager, textbox)
	for _, child := range indicators {
		vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, child)
		if !ok || !vis.IsVisible() {
			return false
		}
	}
	return len(indicators) > 0
}
