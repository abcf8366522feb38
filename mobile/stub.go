//go:build !mobile

// stub.go - 非移动端构建时的占位文件，实际入口在 mobile.go（-tags mobile）
package mobile

// Dummy 空导出函数，确保包在非移动端构建时也能被引用
func Dummy() {}
