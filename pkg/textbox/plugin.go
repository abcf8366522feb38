// Package textbox 把对话框核心的全部系统和事件队列组装为一个插件
//
// 用法:
//
//	p := textbox.New(ecs.NewEntityManager(), textbox.Options{})
//	box := p.SpawnTextbox(components.LayoutDecorator{...}, &components.PositionComponent{X: 40, Y: 400})
//	p.SpawnContinue(box, &components.PositionComponent{X: 600, Y: 80})
//	p.Play(fragments.Lines(box, "Hello", "World")...).OnEnd(func() { p.DespawnTextbox(box) })
//
// 之后每个 tick 调用 p.Update(dt)，每帧调用 p.Draw(screen)。
package textbox

import (
	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/fragments"
	"github.com/gonewx/textbox/pkg/sequence"
	"github.com/gonewx/textbox/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Options 插件配置
type Options struct {
	// CharsPerSecond 默认逐字显示速度，0 使用 systems.DefaultCharsPerSecond
	CharsPerSecond float64
	// AdvanceKeys 推进按键，为空时只响应鼠标左键
	AdvanceKeys []ebiten.Key
	// AutoAdvance 自动推进延迟（秒），0 表示关闭
	AutoAdvance float64
	// InputSource 替换推进输入来源，nil 使用 Ebitengine 输入
	InputSource func() bool
	// Logger 可为 nil
	Logger *zap.Logger
}

// Plugin 对话框插件
type Plugin struct {
	EntityManager *ecs.EntityManager
	Events        *systems.TextboxEvents
	Sequencer     *sequence.Sequencer[fragments.SectionFrag]
	Intake        *fragments.Intake

	Lifecycle  *systems.SectionLifecycleSystem
	Continue   *systems.ContinueVisibilitySystem
	Typewriter *systems.TypewriterSystem
	Input      *systems.AdvanceInputSystem
	Render     *systems.TextboxRenderSystem

	logger *zap.Logger
	ticks  uint64
}

// New 创建插件并注册全部系统
func New(em *ecs.EntityManager, opts Options) *Plugin {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	events := systems.NewTextboxEvents()
	lifecycle := systems.NewSectionLifecycleSystem(em, events, logger)
	typewriter := systems.NewTypewriterSystem(em, events, opts.CharsPerSecond, logger)
	input := systems.NewAdvanceInputSystem(em, lifecycle, typewriter, opts.AdvanceKeys, logger)
	if opts.InputSource != nil {
		input.SetInputSource(opts.InputSource)
	}
	input.SetAutoAdvance(opts.AutoAdvance)

	p := &Plugin{
		EntityManager: em,
		Events:        events,
		Sequencer:     sequence.NewSequencer(events.Fragments, events.FragmentEnds, logger),
		Intake:        fragments.NewIntake(em),
		Lifecycle:     lifecycle,
		Continue:      systems.NewContinueVisibilitySystem(em, events, logger),
		Typewriter:    typewriter,
		Input:         input,
		Render:        systems.NewTextboxRenderSystem(em),
		logger:        logger,
	}

	logger.Info("[TextboxPlugin] Initialized",
		zap.Float64("charsPerSecond", opts.CharsPerSecond),
		zap.Int("advanceKeys", len(opts.AdvanceKeys)),
		zap.Float64("autoAdvance", opts.AutoAdvance))
	return p
}

// Update 运行一个 tick
//
// 顺序：编排器 → Section 生命周期 → 逐字显示 → 推进输入 → 指示器可见性，
// 然后推进所有事件队列并清理被标记删除的实体。
func (p *Plugin) Update(dt float64) {
	p.Sequencer.Update()
	p.Lifecycle.Update()
	p.Typewriter.Update(dt)
	p.Input.Update(dt)
	p.Continue.Update()

	p.Events.Update()
	p.EntityManager.RemoveMarkedEntities()
	p.ticks++
}

// Draw 使用调试渲染器绘制全部对话框
func (p *Plugin) Draw(screen *ebiten.Image) {
	p.Render.Draw(screen)
}

// Ticks 返回已运行的 tick 数
func (p *Plugin) Ticks() uint64 {
	return p.ticks
}

// SpawnTextbox 创建对话框实体
// decorator 会应用到该对话框下的每个 Section，可为 nil；extra 为附加组件（位置等）
func (p *Plugin) SpawnTextbox(decorator components.SectionDecorator, extra ...any) ecs.EntityID {
	id := p.EntityManager.CreateEntity()
	ecs.AddComponent(p.EntityManager, id, &components.TextBoxComponent{Decorator: decorator})
	for _, c := range extra {
		p.EntityManager.AddComponent(id, c)
	}
	return id
}

// SpawnContinue 在对话框下创建隐藏的"继续"指示器
func (p *Plugin) SpawnContinue(textbox ecs.EntityID, extra ...any) ecs.EntityID {
	id := p.EntityManager.CreateEntity()
	ecs.AddComponent(p.EntityManager, id, &components.ContinueComponent{})
	ecs.AddComponent(p.EntityManager, id, &components.VisibilityComponent{Visibility: components.VisibilityHidden})
	for _, c := range extra {
		p.EntityManager.AddComponent(id, c)
	}
	p.EntityManager.AddChild(textbox, id)
	return id
}

// Play 创建序列、注册片段并启动，返回序列以便继续配置（OnEnd、Always 等）
func (p *Plugin) Play(frags ...fragments.SectionFrag) *fragments.Sequence {
	seq := p.Sequencer.NewSequence()
	p.Intake.AddAll(seq, frags...)
	seq.Start()
	return seq
}

// DespawnSection 提前销毁单个 Section（见 SectionLifecycleSystem.DespawnSection）
// 所属序列照常推进到下一个片段
func (p *Plugin) DespawnSection(section ecs.EntityID) bool {
	return p.Lifecycle.DespawnSection(section)
}

// DespawnTextbox 级联销毁对话框（见 SectionLifecycleSystem.DespawnTextbox）
func (p *Plugin) DespawnTextbox(textbox ecs.EntityID) {
	p.Lifecycle.DespawnTextbox(textbox)
}
