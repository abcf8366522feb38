package components

import (
	"reflect"

	"github.com/gonewx/textbox/pkg/ecs"
)

// TextBoxComponent 对话框组件（Textbox Registry 条目）
//
// 一个对话框是长期存在的实体，拥有:
//   - 零个或多个 Section 子实体（由 SectionLifecycleSystem 创建和销毁）
//   - 一个 Continue 指示器子实体（由宿主创建，见 ContinueComponent）
//
// Decorator 被该对话框下的所有 Section 共享，每创建一个 Section 都会独立调用一次。
type TextBoxComponent struct {
	// Decorator 新 Section 的装饰策略，可为 nil（不装饰）
	Decorator SectionDecorator
}

// SectionDecorator 为新创建的 Section 实体附加额外的视觉组件（布局、滚动区域等）
//
// 实现必须可重复调用且只产生副作用：同一个实例会被该对话框的每个 Section 复用。
type SectionDecorator interface {
	Decorate(em *ecs.EntityManager, section ecs.EntityID)
}

// DecoratorFunc 函数适配器
type DecoratorFunc func(em *ecs.EntityManager, section ecs.EntityID)

// Decorate 实现 SectionDecorator
func (f DecoratorFunc) Decorate(em *ecs.EntityManager, section ecs.EntityID) {
	f(em, section)
}

// ComponentCloner 可由组件实现，用于在 BundleDecorator 中提供深拷贝
type ComponentCloner interface {
	CloneComponent() any
}

// BundleDecorator 把一组组件模板复制到每个 Section 上
//
// 每次 Decorate 都会为每个模板生成一份新副本，Section 之间互不共享组件实例:
//   - 实现了 ComponentCloner 的模板调用 CloneComponent
//   - 指针模板做浅拷贝
//   - 值类型模板直接复制
type BundleDecorator struct {
	Templates []any
}

// NewBundleDecorator 创建组件包装饰器
func NewBundleDecorator(templates ...any) *BundleDecorator {
	return &BundleDecorator{Templates: templates}
}

// Decorate 实现 SectionDecorator
func (b *BundleDecorator) Decorate(em *ecs.EntityManager, section ecs.EntityID) {
	for _, tmpl := range b.Templates {
		if tmpl == nil {
			continue
		}
		em.AddComponent(section, cloneComponent(tmpl))
	}
}

func cloneComponent(tmpl any) any {
	if c, ok := tmpl.(ComponentCloner); ok {
		return c.CloneComponent()
	}
	v := reflect.ValueOf(tmpl)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		cp := reflect.New(v.Elem().Type())
		cp.Elem().Set(v.Elem())
		return cp.Interface()
	}
	return tmpl
}

// Decorators 依次应用多个装饰器
type Decorators []SectionDecorator

// Decorate 实现 SectionDecorator
func (ds Decorators) Decorate(em *ecs.EntityManager, section ecs.EntityID) {
	for _, d := range ds {
		if d != nil {
			d.Decorate(em, section)
		}
	}
}
