package components

import (
	"image/color"

	"github.com/rivo/uniseg"
)

// TypewriterSection 富文本片段内容
type TypewriterSection struct {
	// Text 文本内容
	Text string

	// CharsPerSecond 逐字显示速度，0 表示使用配置默认值
	CharsPerSecond float64

	// Color 文本颜色，nil 表示使用渲染器默认颜色
	Color color.Color
}

// NewTypewriterSection 由纯文本创建片段内容
func NewTypewriterSection(text string) TypewriterSection {
	return TypewriterSection{Text: text}
}

// Len 返回字素簇数量（逐字显示的最小单位，组合字符与表情不会被拆开）
func (s *TypewriterSection) Len() int {
	return uniseg.GraphemeClusterCount(s.Text)
}

// Prefix 返回前 n 个字素簇
func (s *TypewriterSection) Prefix(n int) string {
	if n <= 0 {
		return ""
	}
	rest := s.Text
	state := -1
	end := 0
	var cluster string
	for i := 0; i < n && rest != ""; i++ {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		end += len(cluster)
	}
	return s.Text[:end]
}
