package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
)

// ScriptPattern 对话脚本文件的匹配模式（递归）
const ScriptPattern = "**/*.{yaml,yml}"

// FindDialogueScripts 递归查找目录下的对话脚本文件
// 返回的路径以 dir 为前缀，按自然顺序排序（chapter2 排在 chapter10 之前）
func FindDialogueScripts(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access script directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), ScriptPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	SortNatural(paths)
	return paths, nil
}

// SortNatural 按自然顺序原地排序
func SortNatural(names []string) {
	sort.Sort(natural.StringSlice(names))
}
