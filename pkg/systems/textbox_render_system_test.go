package systems

import (
	"image/color"
	"testing"

	"github.com/gonewx/textbox/pkg/components"
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapCells(t *testing.T) {
	assert.Equal(t, "hello world", wrapCells("hello world", 0))
	assert.Equal(t, "hello\n worl\nd", wrapCells("hello world", 5))
	assert.Equal(t, "ab\ncd\nef", wrapCells("ab\ncdef", 2))
	// CJK 字符占两格
	assert.Equal(t, "你好\n世界", wrapCells("你好世界", 4))
	assert.Equal(t, "你\n好", wrapCells("你好", 3))
	// 组合字符与基字符一起换行
	assert.Equal(t, "e\u0301e\u0301\ne\u0301", wrapCells("e\u0301e\u0301e\u0301", 2))
}

func TestSectionText_UsesRevealedPrefixAndLayout(t *testing.T) {
	w := newTestWorld(t)
	textbox, _ := w.spawnTextbox(components.LayoutDecorator{Layout: components.LayoutComponent{OffsetX: 4, OffsetY: 6, MaxWidth: 3}})
	section := w.spawn(t, textbox, "abcdef")

	scroll, _ := ecs.GetComponent[*components.ScrollComponent](w.em, section)
	scroll.Revealed = 4

	r := NewTextboxRenderSystem(w.em)
	d, ok := r.sectionText(&components.PositionComponent{X: 100, Y: 200}, section)
	require.True(t, ok)
	assert.Equal(t, "abc\nd", d.Text)
	assert.Equal(t, 104.0, d.X)
	assert.Equal(t, 206.0, d.Y)
	assert.Equal(t, DefaultTextColor, d.Color)

	_, ok = r.sectionText(&components.PositionComponent{}, textbox)
	assert.False(t, ok)
}

func TestSectionText_UsesContentColor(t *testing.T) {
	w := newTestWorld(t)
	textbox, _ := w.spawnTextbox(nil)
	section := w.spawn(t, textbox, "hi")

	red := color.RGBA{R: 0xff, A: 0xff}
	content, _ := ecs.GetComponent[*components.TypewriterSection](w.em, section)
	content.Color = red

	r := NewTextboxRenderSystem(w.em)
	d, ok := r.sectionText(&components.PositionComponent{}, section)
	require.True(t, ok)
	assert.Equal(t, red, d.Color)
}
