// Package fragments 把作者编写的内容（纯文本或富文本片段）绑定到对话框，
// 转换为 SectionFrag 并注册到编排器的序列中。
package fragments

import (
	"fmt"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/sequence"
)

// SectionFrag 片段记录：目标对话框 + 片段内容
// 创建后不可变，在对应 Section 被创建时被消费一次
type SectionFrag struct {
	Textbox ecs.EntityID
	Section components.TypewriterSection
}

// Content 可转换为片段内容的类型
type Content interface {
	~string | components.TypewriterSection
}

// NewSectionFrag 将内容绑定到对话框。对所有 Content 类型都不会失败。
func NewSectionFrag[C Content](textbox ecs.EntityID, content C) SectionFrag {
	return SectionFrag{Textbox: textbox, Section: toSection(content)}
}

func toSection[C Content](content C) components.TypewriterSection {
	switch c := any(content).(type) {
	case components.TypewriterSection:
		return c
	case string:
		return components.NewTypewriterSection(c)
	default:
		// ~string 的具名类型
		return components.NewTypewriterSection(fmt.Sprint(c))
	}
}

// Lines 把多行纯文本转换为片段列表
func Lines(textbox ecs.EntityID, lines ...string) []SectionFrag {
	frags := make([]SectionFrag, 0, len(lines))
	for _, line := range lines {
		frags = append(frags, NewSectionFrag(textbox, line))
	}
	return frags
}

// Sequence 是 SectionFrag 的编排序列
type Sequence = sequence.Sequence[SectionFrag]

// Intake 片段入口：校验对话框并注册片段
type Intake struct {
	em *ecs.EntityManager
}

// NewIntake 创建片段入口
func NewIntake(em *ecs.EntityManager) *Intake {
	return &Intake{em: em}
}

// Add 把片段注册到序列中并返回其 ID
// 目标对话框不存在属于编排错误，直接 panic
func (in *Intake) Add(seq *Sequence, frag SectionFrag) sequence.FragmentID {
	in.mustTextbox(frag.Textbox)
	return seq.Push(frag)
}

// AddAll 依次注册多个片段
func (in *Intake) AddAll(seq *Sequence, frags ...SectionFrag) []sequence.FragmentID {
	ids := make([]sequence.FragmentID, 0, len(frags))
	for _, frag := range frags {
		ids = append(ids, in.Add(seq, frag))
	}
	return ids
}

// AddContent 转换并注册单个内容
func AddContent[C Content](in *Intake, seq *Sequence, textbox ecs.EntityID, content C) sequence.FragmentID {
	return in.Add(seq, NewSectionFrag(textbox, content))
}

func (in *Intake) mustTextbox(textbox ecs.EntityID) {
	if !in.em.Exists(textbox) {
		panic(fmt.Sprintf("fragments: textbox entity %d does not exist", textbox))
	}
	if !ecs.HasComponent[*components.TextBoxComponent](in.em, textbox) {
		panic(fmt.Sprintf("fragments: entity %d is not a textbox (missing TextBoxComponent)", textbox))
	}
}
