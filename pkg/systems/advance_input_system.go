package systems

import (
	"fmt"
	"strings"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// AdvanceInputSystem 把玩家的"推进"输入转换为清除信号
//
// 每次按下推进键:
//   - 对话框中仍有 Section 在逐字显示时，先让其立即显示完整（跳过动画）
//   - 否则为所有等待清除的 Section 发出清除信号
//
// 设置自动推进延迟后，Section 进入 AwaitingClear 超过该时长会被自动清除（无人值守/演示模式）。
type AdvanceInputSystem struct {
	entityManager *ecs.EntityManager
	lifecycle     *SectionLifecycleSystem
	typewriter    *TypewriterSystem
	events        *TextboxEvents
	logger        *zap.Logger

	keys    []ebiten.Key
	pressed func() bool

	touchIDs []ebiten.TouchID

	autoAdvance float64
	waited      map[ecs.EntityID]float64
	requested   map[ecs.EntityID]bool
}

// NewAdvanceInputSystem 创建推进输入系统，keys 为空时只响应鼠标左键
func NewAdvanceInputSystem(
	em *ecs.EntityManager,
	lifecycle *SectionLifecycleSystem,
	typewriter *TypewriterSystem,
	keys []ebiten.Key,
	logger *zap.Logger,
) *AdvanceInputSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AdvanceInputSystem{
		entityManager: em,
		lifecycle:     lifecycle,
		typewriter:    typewriter,
		logger:        logger,
		keys:          keys,
		events:        lifecycle.events,
		waited:        make(map[ecs.EntityID]float64),
		requested:     make(map[ecs.EntityID]bool),
	}
	s.pressed = s.justPressed
	return s
}

// ParseKeys 把按键名（如 "Space"、"Enter"，不区分大小写）解析为 ebiten.Key
func ParseKeys(names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	var errs error
	for _, name := range names {
		k, ok := keyByName(name)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("invalid advance key %q", name))
			continue
		}
		keys = append(keys, k)
	}
	return keys, errs
}

func keyByName(name string) (ebiten.Key, bool) {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, true
		}
	}
	return 0, false
}

// SetInputSource 替换输入来源（测试或脚本驱动）
func (s *AdvanceInputSystem) SetInputSource(pressed func() bool) {
	if pressed == nil {
		pressed = s.justPressed
	}
	s.pressed = pressed
}

// SetAutoAdvance 设置自动推进延迟（秒），0 表示关闭
func (s *AdvanceInputSystem) SetAutoAdvance(delay float64) {
	s.autoAdvance = max(delay, 0)
}

// Update 处理本 tick 的推进输入
func (s *AdvanceInputSystem) Update(dt float64) {
	textboxes := ecs.GetEntitiesWith1[*components.TextBoxComponent](s.entityManager)

	if s.pressed() {
		for _, textbox := range textboxes {
			s.Advance(textbox)
		}
	}

	if s.autoAdvance > 0 {
		s.updateAutoAdvance(textboxes, dt)
	}
}

// Advance 推进单个对话框，返回是否产生了效果
func (s *AdvanceInputSystem) Advance(textbox ecs.EntityID) bool {
	revealing := s.typewriter.Revealing(textbox)
	if len(revealing) > 0 {
		for _, section := range revealing {
			s.typewriter.Skip(section)
		}
		s.logger.Debug("[AdvanceInputSystem] Skipped reveal", zap.Uint64("textbox", uint64(textbox)), zap.Int("sections", len(revealing)))
		return true
	}

	cleared := s.lifecycle.ClearTextbox(textbox)
	if cleared > 0 {
		s.logger.Debug("[AdvanceInputSystem] Clear requested", zap.Uint64("textbox", uint64(textbox)), zap.Int("sections", cleared))
	}
	return cleared > 0
}

func (s *AdvanceInputSystem) updateAutoAdvance(textboxes []ecs.EntityID, dt float64) {
	seen := make(map[ecs.EntityID]struct{})
	for _, textbox := range textboxes {
		for _, section := range s.lifecycle.AwaitingClear(textbox) {
			seen[section] = struct{}{}
			// 清除信号下一个 tick 才生效，期间不重复发送
			if s.requested[section] {
				continue
			}
			s.waited[section] += dt
			if s.waited[section] >= s.autoAdvance {
				s.events.Clears.Send(ClearEvent{Section: section})
				s.requested[section] = true
			}
		}
	}
	for section := range s.waited {
		if _, ok := seen[section]; !ok {
			delete(s.waited, section)
			delete(s.requested, section)
		}
	}
}

func (s *AdvanceInputSystem) justPressed() bool {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	// 移动端触摸
	s.touchIDs = inpututil.AppendJustPressedTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		return true
	}
	for _, k := range s.keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
