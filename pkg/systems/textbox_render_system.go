package systems

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	// ContinueGlyph "继续"指示器的文字
	ContinueGlyph = ">>"
	// DefaultFontSize 内置等宽字体的字号
	DefaultFontSize = 14.0
	// DefaultLineSpacing 内置字体的行高
	DefaultLineSpacing = 18.0
)

// DefaultTextColor Section 未指定颜色时使用的文字颜色
var DefaultTextColor color.Color = color.White

var defaultFaceSource = sync.OnceValues(func() (*text.GoTextFaceSource, error) {
	return text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
})

// TextboxRenderSystem 文字渲染器
// 按 Section 的颜色绘制已显示的文字以及可见的"继续"指示器
type TextboxRenderSystem struct {
	entityManager *ecs.EntityManager
	face          text.Face
	lineSpacing   float64
}

// NewTextboxRenderSystem 创建渲染系统，使用内置的 Go Mono 字体
func NewTextboxRenderSystem(em *ecs.EntityManager) *TextboxRenderSystem {
	source, err := defaultFaceSource()
	if err != nil {
		panic(fmt.Sprintf("[TextboxRenderSystem] failed to load builtin font: %v", err))
	}
	return &TextboxRenderSystem{
		entityManager: em,
		face:          &text.GoTextFace{Source: source, Size: DefaultFontSize},
		lineSpacing:   DefaultLineSpacing,
	}
}

// SetFace 替换绘制用的字体和行高
func (s *TextboxRenderSystem) SetFace(face text.Face, lineSpacing float64) {
	s.face = face
	s.lineSpacing = lineSpacing
}

// sectionDraw 一个 Section 在当前帧的绘制参数
type sectionDraw struct {
	Text  string
	X, Y  float64
	Color color.Color
}

// Draw 渲染所有带位置的对话框
func (s *TextboxRenderSystem) Draw(screen *ebiten.Image) {
	textboxes := ecs.GetEntitiesWith2[*components.TextBoxComponent, *components.PositionComponent](s.entityManager)

	for _, textbox := range textboxes {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, textbox)

		for _, child := range s.entityManager.GetChildren(textbox) {
			if ecs.HasComponent[*components.ContinueComponent](s.entityManager, child) {
				s.drawContinue(screen, pos, child)
				continue
			}
			if d, ok := s.sectionText(pos, child); ok {
				s.drawText(screen, d)
			}
		}
	}
}

func (s *TextboxRenderSystem) drawText(screen *ebiten.Image, d sectionDraw) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(d.X, d.Y)
	op.LineSpacing = s.lineSpacing
	op.ColorScale.ScaleWithColor(d.Color)
	text.Draw(screen, d.Text, s.face, op)
}

// sectionText 计算 Section 当前应绘制的文字、位置和颜色
func (s *TextboxRenderSystem) sectionText(pos *components.PositionComponent, section ecs.EntityID) (sectionDraw, bool) {
	content, ok := ecs.GetComponent[*components.TypewriterSection](s.entityManager, section)
	if !ok {
		return sectionDraw{}, false
	}
	scroll, ok := ecs.GetComponent[*components.ScrollComponent](s.entityManager, section)
	if !ok {
		return sectionDraw{}, false
	}

	d := sectionDraw{X: pos.X, Y: pos.Y, Color: content.Color}
	if d.Color == nil {
		d.Color = DefaultTextColor
	}
	width := 0
	if layout, ok := ecs.GetComponent[*components.LayoutComponent](s.entityManager, section); ok {
		d.X += layout.OffsetX
		d.Y += layout.OffsetY
		width = layout.MaxWidth
	}
	d.Text = wrapCells(content.Prefix(scroll.Revealed), width)
	return d, true
}

func (s *TextboxRenderSystem) drawContinue(screen *ebiten.Image, textboxPos *components.PositionComponent, indicator ecs.EntityID) {
	vis, ok := ecs.GetComponent[*components.VisibilityComponent](s.entityManager, indicator)
	if !ok || !vis.IsVisible() {
		return
	}
	d := sectionDraw{Text: ContinueGlyph, X: textboxPos.X, Y: textboxPos.Y, Color: DefaultTextColor}
	if p, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, indicator); ok {
		d.X += p.X
		d.Y += p.Y
	}
	s.drawText(screen, d)
}

// wrapCells 按显示宽度（等宽单元格，CJK 字符占 2 格）硬换行，width <= 0 时不换行
// 字素簇不会被拆到两行
func wrapCells(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	col := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		if strings.HasSuffix(cluster, "\n") {
			b.WriteString(cluster)
			col = 0
			continue
		}
		w := rw.StringWidth(cluster)
		if col > 0 && col+w > width {
			b.WriteByte('\n')
			col = 0
		}
		b.WriteString(cluster)
		col += w
	}
	return b.String()
}
