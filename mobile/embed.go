//go:build mobile

// embed.go - 移动端数据嵌入声明
// 仅在 -tags mobile 构建时编译，构建前需要把 data/ 复制到本目录
package mobile

import "embed"

//go:embed data/textbox.yaml data/scripts
var dataFS embed.FS
